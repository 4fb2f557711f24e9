package services

import (
	"context"

	"dompet/internal/logger"
	"dompet/internal/models"

	"gorm.io/gorm"
)

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records a mutation together with the request id carried by ctx.
// Failures are logged and swallowed so the mutation itself still succeeds.
func (s *auditService) Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		RequestID:    logger.RequestID(ctx),
		Changes:      changes,
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.FromContext(ctx).Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_id", resourceID,
		)
	}
}

package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
)

// assetService handles asset business logic.
type assetService struct {
	db *gorm.DB
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(db *gorm.DB) AssetServicer {
	return &assetService{db: db}
}

// CreateAsset records a new asset. Purchase value must be positive and current value non-negative.
func (s *assetService) CreateAsset(ctx context.Context, userID string, input AssetInput) (*models.Asset, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset name is required")
	}
	assetType := strings.TrimSpace(input.Type)
	if assetType == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset type is required")
	}
	if !input.PurchaseValue.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "purchase value must be greater than zero")
	}
	if input.CurrentValue.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current value cannot be negative")
	}
	if input.PurchaseDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "purchase date is required")
	}

	asset := &models.Asset{
		UserID:        userID,
		Name:          name,
		Type:          assetType,
		PurchaseValue: input.PurchaseValue,
		CurrentValue:  input.CurrentValue,
		PurchaseDate:  models.DateOnly(input.PurchaseDate),
		Description:   input.Description,
	}

	if err := s.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return asset, nil
}

// ListAssets returns all assets of a user, most recently purchased first.
func (s *assetService) ListAssets(ctx context.Context, userID string) ([]models.Asset, error) {
	var assets []models.Asset
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("purchase_date DESC").Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return assets, nil
}

// GetAssetByID retrieves an asset by ID for a specific user
func (s *assetService) GetAssetByID(ctx context.Context, userID, assetID string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", assetID, userID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

// UpdateAsset updates an existing asset
func (s *assetService) UpdateAsset(ctx context.Context, userID, assetID string, fields AssetUpdateFields) (*models.Asset, error) {
	asset, err := s.GetAssetByID(ctx, userID, assetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil {
		name := strings.TrimSpace(*fields.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset name is required")
		}
		updates["name"] = name
	}
	if fields.Type != nil {
		assetType := strings.TrimSpace(*fields.Type)
		if assetType == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset type is required")
		}
		updates["type"] = assetType
	}
	if fields.PurchaseValue != nil {
		if !fields.PurchaseValue.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "purchase value must be greater than zero")
		}
		updates["purchase_value"] = *fields.PurchaseValue
	}
	if fields.CurrentValue != nil {
		if fields.CurrentValue.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current value cannot be negative")
		}
		updates["current_value"] = *fields.CurrentValue
	}
	if fields.PurchaseDate != nil {
		updates["purchase_date"] = models.DateOnly(*fields.PurchaseDate)
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(asset).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return asset, nil
}

// DeleteAsset permanently deletes an asset.
func (s *assetService) DeleteAsset(ctx context.Context, userID, assetID string) error {
	asset, err := s.GetAssetByID(ctx, userID, assetID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(asset).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

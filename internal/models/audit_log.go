package models

// AuditLog records one mutation of a user's reporting data. Action is
// verb and resource, e.g. "DELETE_TRANSACTION".
type AuditLog struct {
	Base
	UserID       string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Action       string         `gorm:"not null" json:"action"`
	ResourceType string         `gorm:"not null" json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	IPAddress    string         `json:"ip_address"`
	RequestID    string         `json:"request_id,omitempty"`
	Changes      map[string]any `gorm:"type:text;serializer:json" json:"changes,omitempty"`
}

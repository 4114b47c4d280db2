package models

// AuditLog records mutating operations for traceability. Best-effort:
// a failed audit write never blocks the operation it describes.
type AuditLog struct {
	Base
	FarmID       uint   `gorm:"not null;index" json:"farm_id"`
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   uint   `json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}

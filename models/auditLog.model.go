package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records best-effort security events (password change, reset).
// Writing one never fails the request that triggered it.
type AuditLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Action    string         `gorm:"not null" json:"action"`
	Details   datatypes.JSON `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

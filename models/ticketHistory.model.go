package models

import "time"

// History actions
const (
	HistoryCreated   = "created"
	HistoryUpdated   = "updated"
	HistoryAssigned  = "assigned"
	HistoryCommented = "commented"
	HistoryAttached  = "attached"
	HistoryDeleted   = "deleted"
)

// TicketHistory rows are append-only; they are never updated, and only
// disappear when their ticket is hard-deleted.
type TicketHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TicketID  uint      `gorm:"not null;index" json:"ticket_id"`
	UserID    *uint     `json:"user_id"`
	Action    string    `gorm:"not null" json:"action"`
	FieldName string    `gorm:"default:''" json:"field_name"`
	OldValue  *string   `json:"old_value"`
	NewValue  *string   `json:"new_value"`
	CreatedAt time.Time `json:"created_at"`
}

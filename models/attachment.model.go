package models

import "time"

type Attachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TicketID  uint      `gorm:"not null;index" json:"ticket_id"`
	CommentID *uint     `json:"comment_id"`
	UserID    *uint     `json:"user_id"`
	FileName  string    `gorm:"not null" json:"file_name"`
	FilePath  string    `gorm:"not null" json:"file_path"`
	FileURL   string    `gorm:"default:''" json:"file_url"`
	FileType  string    `gorm:"default:''" json:"file_type"`
	FileSize  int64     `gorm:"default:0" json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

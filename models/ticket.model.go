package models

import "time"

type Ticket struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	TicketNumber   string     `gorm:"uniqueIndex;not null" json:"ticket_number"`
	Title          string     `gorm:"not null" json:"title"`
	Description    string     `gorm:"default:''" json:"description"`
	CategoryID     *uint      `json:"category_id"`
	PriorityID     *uint      `json:"priority_id"`
	DepartmentID   *uint      `json:"department_id"`
	StatusID       uint       `gorm:"not null" json:"status_id"`
	CreatedBy      uint       `gorm:"not null" json:"created_by"`
	AssignedTo     *uint      `json:"assigned_to"`
	DueDate        *time.Time `json:"due_date"`
	IsPrivate      bool       `gorm:"default:false" json:"is_private"`
	ParentTicketID *uint      `json:"parent_ticket_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

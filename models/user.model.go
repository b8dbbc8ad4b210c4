package models

import "time"

// Role values, lowest privilege last
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleAgent      = "agent"
	RoleUser       = "user"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	FullName  string    `gorm:"default:''" json:"full_name"`
	Role      string    `gorm:"default:'user'" json:"role"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserDepartment is the users<->departments join table
type UserDepartment struct {
	UserID       uint `gorm:"primaryKey" json:"user_id"`
	DepartmentID uint `gorm:"primaryKey" json:"department_id"`
}

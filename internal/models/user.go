package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User account states.
const (
	UserStatusActive  = "ACTIVE"
	UserStatusBlocked = "BLOCKED"
)

// User is a registered account, customer or admin.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"not null;default:'customer';index" json:"role"`
	Status       string         `gorm:"not null;default:'ACTIVE'" json:"status"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the account has back-office access.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

package user

import (
	"time"
)

// Role gates cross-owner access. ADMIN bypasses ownership and
// visibility checks everywhere in the learning core.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// User rows are owned by the account collaborator; the learning core
// only reads ids and roles. Password hashing and session issuance
// happen outside this module.
type User struct {
	ID           string    `gorm:"type:char(26);primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"not null" json:"name"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Role         Role      `gorm:"type:varchar(10);not null;default:'USER'" json:"role"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }

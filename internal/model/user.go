package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserRole determines what a user may do across the marketplace.
type UserRole string

const (
	RoleClient UserRole = "client"
	RoleWorker UserRole = "worker"
	RoleAdmin  UserRole = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleClient, RoleWorker, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered account: a client posting jobs, a worker
// applying to them, or an admin. Role is fixed at registration.
type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string         `json:"name" gorm:"size:255;not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string         `json:"-" gorm:"size:255"` // empty for OAuth-only accounts
	Role         UserRole       `json:"role" gorm:"type:varchar(20);not null;default:'worker';index"`
	Phone        string         `json:"phone,omitempty" gorm:"size:32"`
	Address      string         `json:"address,omitempty" gorm:"size:255"`
	Bio          string         `json:"bio,omitempty" gorm:"type:text"`
	Skills       datatypes.JSON `json:"skills,omitempty" gorm:"type:json"`
	GoogleID     string         `json:"-" gorm:"size:64;index"`
	FacebookID   string         `json:"-" gorm:"size:64;index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

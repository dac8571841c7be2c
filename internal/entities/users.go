package entities

import (
	"time"

	"gorm.io/gorm"
)

type UserStatus string

const (
	UserStatusActivated   UserStatus = "ACTIVATED"
	UserStatusDeactivated UserStatus = "DEACTIVATED"
)

// User is a login account. Members reference a User through Member.UserID;
// accounts without a member record are staff accounts.
type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Username         string         `gorm:"uniqueIndex;size:100" json:"username"`
	Email            string         `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash     string         `gorm:"size:255" json:"-"`
	FirstName        string         `gorm:"size:100" json:"first_name,omitempty"`
	LastName         string         `gorm:"size:100" json:"last_name,omitempty"`
	DateOfBirth      *time.Time     `json:"date_of_birth,omitempty"`
	Address          string         `gorm:"size:512" json:"address,omitempty"`
	Status           UserStatus     `gorm:"size:15;default:'ACTIVATED'" json:"status"`
	ResetToken       string         `gorm:"index;size:10" json:"-"`
	ResetTokenExpiry *time.Time     `json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

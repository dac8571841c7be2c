package entities

import (
	"time"

	"gorm.io/gorm"
)

type MembershipType string

const (
	MembershipTypeBasic   MembershipType = "BASIC"
	MembershipTypePremium MembershipType = "PREMIUM"
	MembershipTypeStudent MembershipType = "STUDENT"
)

// BorrowingLimit returns the number of books a membership tier may hold at once.
func (t MembershipType) BorrowingLimit() int {
	switch t {
	case MembershipTypePremium:
		return 10
	case MembershipTypeStudent:
		return 5
	default:
		return 3
	}
}

type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "ACTIVE"
	MemberStatusSuspended MemberStatus = "SUSPENDED"
	MemberStatusExpired   MemberStatus = "EXPIRED"
)

type Member struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	MemberNumber     string         `gorm:"uniqueIndex;size:16" json:"member_number"` // LIB<year><seq>
	UserID           *uint          `gorm:"index" json:"user_id,omitempty"`           // optional link to a login account
	FirstName        string         `gorm:"size:100" json:"first_name"`
	LastName         string         `gorm:"size:100" json:"last_name"`
	Email            string         `gorm:"index;size:255" json:"email"`
	PhoneNumber      string         `gorm:"size:32" json:"phone_number,omitempty"`
	Address          string         `gorm:"size:512" json:"address,omitempty"`
	EmergencyContact string         `gorm:"size:255" json:"emergency_contact,omitempty"`
	MembershipType   MembershipType `gorm:"size:10;default:'BASIC'" json:"membership_type"`
	JoiningDate      *time.Time     `json:"joining_date,omitempty"`
	ExpiryDate       *time.Time     `json:"expiry_date,omitempty"`
	Status           MemberStatus   `gorm:"index;size:10;default:'ACTIVE'" json:"status"`
	BorrowingLimit   int            `gorm:"default:3" json:"borrowing_limit"`
	FineAmount       float64        `gorm:"default:0" json:"fine_amount"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

package entities

import (
	"time"
)

type BorrowingStatus string

const (
	BorrowingStatusActive   BorrowingStatus = "ACTIVE"
	BorrowingStatusReturned BorrowingStatus = "RETURNED"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusReceived  ReservationStatus = "RECEIVED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// Borrowing records a member holding a book for a bounded period.
// Status is always derived from ReturnDate: RETURNED iff the return date is
// set. LateFee is recomputed on every transition, never mutated directly.
type Borrowing struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	BorrowingNumber string          `gorm:"uniqueIndex;size:16" json:"borrowing_number"` // BR<year><seq>
	MemberID        uint            `gorm:"index" json:"member_id"`
	BookID          uint            `gorm:"index" json:"book_id"`
	BorrowDate      *time.Time      `json:"borrow_date,omitempty"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	ReturnDate      *time.Time      `json:"return_date,omitempty"`
	Status          BorrowingStatus `gorm:"index;size:10" json:"status"`
	LateFee         int             `json:"late_fee"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Reservation is a member's request to borrow a book, pending conversion
// into a Borrowing. Unlike Borrowing, the status field is caller-supplied
// on updates rather than derived.
type Reservation struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	ReservationNumber string            `gorm:"uniqueIndex;size:16" json:"reservation_number"` // RS<year><seq>
	MemberID          uint              `gorm:"index" json:"member_id"`
	BookID            uint              `gorm:"index" json:"book_id"`
	ReservationDate   *time.Time        `json:"reservation_date,omitempty"`
	Status            ReservationStatus `gorm:"index;size:10" json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

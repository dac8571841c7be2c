package entities

import (
	"time"

	"gorm.io/gorm"
)

type Book struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	BookNo          string         `gorm:"index;size:32" json:"book_no"`
	Title           string         `gorm:"index;size:512" json:"title"`
	Author          string         `gorm:"index;size:256" json:"author"`
	Genre           string         `gorm:"index;size:100" json:"genre,omitempty"`
	Year            int            `json:"year,omitempty"`
	Edition         string         `gorm:"size:50" json:"edition,omitempty"`
	Description     string         `gorm:"type:text" json:"description,omitempty"`
	Language        string         `gorm:"index;size:50" json:"language,omitempty"`
	Image           string         `gorm:"size:2048" json:"image,omitempty"`
	Availability    bool           `gorm:"default:true" json:"availability"`
	AvailableCopies int            `json:"available_copies"`
	Location        string         `gorm:"size:100" json:"location,omitempty"` // shelf location
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

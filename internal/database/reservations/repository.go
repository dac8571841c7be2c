// Package reservations provides database operations for reservation records.
package reservations

import (
	"gorm.io/gorm"

	"github.com/openshelf/librarian/internal/entities"
)

// Repository handles all reservation database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reservations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a Repository bound to the given transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new reservation record.
func (r *Repository) Create(reservation *entities.Reservation) error {
	return r.db.Create(reservation).Error
}

// GetByID retrieves a reservation by its database ID.
func (r *Repository) GetByID(id uint) (*entities.Reservation, error) {
	var reservation entities.Reservation
	if err := r.db.First(&reservation, id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetAll returns all reservations, newest first.
func (r *Repository) GetAll() ([]entities.Reservation, error) {
	var reservations []entities.Reservation
	err := r.db.Order("created_at DESC").Find(&reservations).Error
	return reservations, err
}

// GetByMember returns all reservations for a member, newest first.
func (r *Repository) GetByMember(memberID uint) ([]entities.Reservation, error) {
	var reservations []entities.Reservation
	err := r.db.Where("member_id = ?", memberID).Order("created_at DESC").Find(&reservations).Error
	return reservations, err
}

// Save persists all fields of an existing reservation.
func (r *Repository) Save(reservation *entities.Reservation) error {
	return r.db.Save(reservation).Error
}

// Delete removes a reservation by ID.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Reservation{}, id).Error
}

// ExistsByID reports whether a reservation with the given ID exists.
func (r *Repository) ExistsByID(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Reservation{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListPendingForMemberAndBook returns the PENDING reservations a member holds
// for a book, excluding the given reservation ID.
func (r *Repository) ListPendingForMemberAndBook(memberID, bookID, excludeID uint) ([]entities.Reservation, error) {
	var reservations []entities.Reservation
	err := r.db.
		Where("member_id = ? AND book_id = ? AND status = ? AND id <> ?",
			memberID, bookID, entities.ReservationStatusPending, excludeID).
		Find(&reservations).Error
	return reservations, err
}

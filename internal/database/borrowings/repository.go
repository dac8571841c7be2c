// Package borrowings provides database operations for borrowing records.
package borrowings

import (
	"time"

	"gorm.io/gorm"

	"github.com/openshelf/librarian/internal/entities"
)

// Repository handles all borrowing database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new borrowings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a Repository bound to the given transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new borrowing record.
func (r *Repository) Create(borrowing *entities.Borrowing) error {
	return r.db.Create(borrowing).Error
}

// GetByID retrieves a borrowing by its database ID.
func (r *Repository) GetByID(id uint) (*entities.Borrowing, error) {
	var borrowing entities.Borrowing
	if err := r.db.First(&borrowing, id).Error; err != nil {
		return nil, err
	}
	return &borrowing, nil
}

// GetAll returns all borrowings, newest first.
func (r *Repository) GetAll() ([]entities.Borrowing, error) {
	var borrowings []entities.Borrowing
	err := r.db.Order("created_at DESC").Find(&borrowings).Error
	return borrowings, err
}

// GetByMember returns all borrowings for a member, newest first.
func (r *Repository) GetByMember(memberID uint) ([]entities.Borrowing, error) {
	var borrowings []entities.Borrowing
	err := r.db.Where("member_id = ?", memberID).Order("created_at DESC").Find(&borrowings).Error
	return borrowings, err
}

// Save persists all fields of an existing borrowing.
func (r *Repository) Save(borrowing *entities.Borrowing) error {
	return r.db.Save(borrowing).Error
}

// Delete removes a borrowing by ID.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Borrowing{}, id).Error
}

// ExistsByID reports whether a borrowing with the given ID exists.
func (r *Repository) ExistsByID(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Borrowing{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ExistsActiveForMemberAndBook reports whether the member already has an
// ACTIVE borrowing of the given book.
func (r *Repository) ExistsActiveForMemberAndBook(memberID, bookID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Borrowing{}).
		Where("member_id = ? AND book_id = ? AND status = ?", memberID, bookID, entities.BorrowingStatusActive).
		Count(&count).Error
	return count > 0, err
}

// ListActiveOverdue returns ACTIVE borrowings whose due date lies strictly
// before the given instant. Used by the nightly fee sweep.
func (r *Repository) ListActiveOverdue(asOf time.Time) ([]entities.Borrowing, error) {
	var borrowings []entities.Borrowing
	err := r.db.
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", entities.BorrowingStatusActive, asOf).
		Find(&borrowings).Error
	return borrowings, err
}

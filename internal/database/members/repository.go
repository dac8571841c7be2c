// Package members provides database operations for library members.
package members

import (
	"time"

	"gorm.io/gorm"

	"github.com/openshelf/librarian/internal/entities"
)

// Repository handles all member database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new members repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new member.
func (r *Repository) Create(member *entities.Member) error {
	return r.db.Create(member).Error
}

// GetByID retrieves a member by its database ID.
func (r *Repository) GetByID(id uint) (*entities.Member, error) {
	var member entities.Member
	if err := r.db.First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByMemberNumber retrieves a member by card number (e.g. LIB2025001).
func (r *Repository) GetByMemberNumber(memberNumber string) (*entities.Member, error) {
	var member entities.Member
	if err := r.db.Where("member_number = ?", memberNumber).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByUserID retrieves the member linked to a login account.
func (r *Repository) GetByUserID(userID uint) (*entities.Member, error) {
	var member entities.Member
	if err := r.db.Where("user_id = ?", userID).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// GetAll returns all members ordered by card number.
func (r *Repository) GetAll() ([]entities.Member, error) {
	var members []entities.Member
	err := r.db.Order("member_number ASC").Find(&members).Error
	return members, err
}

// Save persists all fields of an existing member.
func (r *Repository) Save(member *entities.Member) error {
	return r.db.Save(member).Error
}

// Delete soft-deletes a member by ID.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Member{}, id).Error
}

// ExistsByID reports whether a member with the given ID exists.
func (r *Repository) ExistsByID(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Member{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Search matches the query against names, email and card number.
func (r *Repository) Search(query string) ([]entities.Member, error) {
	var members []entities.Member
	pattern := "%" + query + "%"
	err := r.db.
		Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR member_number LIKE ?",
			pattern, pattern, pattern, pattern).
		Order("member_number ASC").
		Find(&members).Error
	return members, err
}

// GetByStatus returns members with the given status.
func (r *Repository) GetByStatus(status entities.MemberStatus) ([]entities.Member, error) {
	var members []entities.Member
	err := r.db.Where("status = ?", status).Order("member_number ASC").Find(&members).Error
	return members, err
}

// GetByMembershipType returns members on the given tier.
func (r *Repository) GetByMembershipType(t entities.MembershipType) ([]entities.Member, error) {
	var members []entities.Member
	err := r.db.Where("membership_type = ?", t).Order("member_number ASC").Find(&members).Error
	return members, err
}

// Count returns the total number of members, including soft-deleted ones.
// Used to seed the member number sequence so numbers are never reissued.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Unscoped().Model(&entities.Member{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of members with the given status.
func (r *Repository) CountByStatus(status entities.MemberStatus) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Member{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CountByMembershipType returns the number of members on the given tier.
func (r *Repository) CountByMembershipType(t entities.MembershipType) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Member{}).Where("membership_type = ?", t).Count(&count).Error
	return count, err
}

// GetExpiringBefore returns members whose membership expires before the date.
func (r *Repository) GetExpiringBefore(date time.Time) ([]entities.Member, error) {
	var members []entities.Member
	err := r.db.
		Where("expiry_date IS NOT NULL AND expiry_date < ?", date).
		Order("expiry_date ASC").
		Find(&members).Error
	return members, err
}

// GetWithFines returns members carrying an outstanding fine.
func (r *Repository) GetWithFines() ([]entities.Member, error) {
	var members []entities.Member
	err := r.db.Where("fine_amount > 0").Order("fine_amount DESC").Find(&members).Error
	return members, err
}

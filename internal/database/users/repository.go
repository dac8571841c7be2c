// Package users provides database operations for login accounts.
package users

import (
	"gorm.io/gorm"

	"github.com/openshelf/librarian/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user.
func (r *Repository) Create(user *entities.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by its database ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username.
func (r *Repository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email address.
func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByResetToken retrieves a user by password reset token.
func (r *Repository) GetByResetToken(token string) (*entities.User, error) {
	var user entities.User
	if err := r.db.Where("reset_token = ? AND reset_token <> ''", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAll returns all users ordered by username.
func (r *Repository) GetAll() ([]entities.User, error) {
	var users []entities.User
	err := r.db.Order("username ASC").Find(&users).Error
	return users, err
}

// Search matches the query against username, email and names.
func (r *Repository) Search(query string) ([]entities.User, error) {
	var users []entities.User
	pattern := "%" + query + "%"
	err := r.db.
		Where("username LIKE ? OR email LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			pattern, pattern, pattern, pattern).
		Order("username ASC").
		Find(&users).Error
	return users, err
}

// GetByStatus returns users with the given status.
func (r *Repository) GetByStatus(status entities.UserStatus) ([]entities.User, error) {
	var users []entities.User
	err := r.db.Where("status = ?", status).Order("username ASC").Find(&users).Error
	return users, err
}

// Save persists all fields of an existing user.
func (r *Repository) Save(user *entities.User) error {
	return r.db.Save(user).Error
}

// Delete soft-deletes a user by ID.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.User{}, id).Error
}

// ExistsByUsernameOrEmail reports whether either identifier is taken.
func (r *Repository) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

// CountByStatus returns the number of users with the given status.
func (r *Repository) CountByStatus(status entities.UserStatus) (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Count returns the total number of users.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}

// Package books provides database operations for the catalogue.
package books

import (
	"gorm.io/gorm"

	"github.com/openshelf/librarian/internal/entities"
)

// Stats summarises the catalogue.
type Stats struct {
	TotalBooks       int64 `json:"total_books"`
	AvailableBooks   int64 `json:"available_books"`
	UnavailableBooks int64 `json:"unavailable_books"`
	TotalCopies      int64 `json:"total_copies"`
	AvailableCopies  int64 `json:"available_copies"`
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new book.
func (r *Repository) Create(book *entities.Book) error {
	return r.db.Create(book).Error
}

// GetByID retrieves a book by its database ID.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByBookNo retrieves a book by its catalogue number.
func (r *Repository) GetByBookNo(bookNo string) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.Where("book_no = ?", bookNo).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAll returns the whole catalogue ordered by title.
func (r *Repository) GetAll() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("title ASC").Find(&books).Error
	return books, err
}

// Save persists all fields of an existing book.
func (r *Repository) Save(book *entities.Book) error {
	return r.db.Save(book).Error
}

// Delete soft-deletes a book by ID.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Book{}, id).Error
}

// ExistsByID reports whether a book with the given ID exists.
func (r *Repository) ExistsByID(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Search matches the query against title, author and genre.
func (r *Repository) Search(query string) ([]entities.Book, error) {
	var books []entities.Book
	pattern := "%" + query + "%"
	err := r.db.
		Where("title LIKE ? OR author LIKE ? OR genre LIKE ?", pattern, pattern, pattern).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// SearchByField matches the query against a single column. The column name
// is restricted by the caller (httpcontrollers allow title/author/genre only).
func (r *Repository) SearchByField(column, query string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.
		Where(column+" LIKE ?", "%"+query+"%").
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// GetByAvailability returns books filtered by the availability flag.
func (r *Repository) GetByAvailability(available bool) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("availability = ?", available).Order("title ASC").Find(&books).Error
	return books, err
}

// GetByLanguage returns books in the given language.
func (r *Repository) GetByLanguage(language string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("language = ?", language).Order("title ASC").Find(&books).Error
	return books, err
}

// GetByYearRange returns books published between the two years inclusive.
func (r *Repository) GetByYearRange(startYear, endYear int) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("year BETWEEN ? AND ?", startYear, endYear).Order("year ASC").Find(&books).Error
	return books, err
}

// GetWithAvailableCopies returns books holding at least one loanable copy.
func (r *Repository) GetWithAvailableCopies() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("available_copies > 0").Order("title ASC").Find(&books).Error
	return books, err
}

// GetStats computes catalogue-wide counts and copy totals.
func (r *Repository) GetStats() (*Stats, error) {
	var stats Stats

	if err := r.db.Model(&entities.Book{}).Count(&stats.TotalBooks).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.Book{}).Where("availability = ?", true).Count(&stats.AvailableBooks).Error; err != nil {
		return nil, err
	}
	stats.UnavailableBooks = stats.TotalBooks - stats.AvailableBooks

	row := r.db.Model(&entities.Book{}).
		Select("COALESCE(SUM(available_copies), 0)").
		Row()
	if err := row.Scan(&stats.TotalCopies); err != nil {
		return nil, err
	}

	row = r.db.Model(&entities.Book{}).
		Where("availability = ?", true).
		Select("COALESCE(SUM(available_copies), 0)").
		Row()
	if err := row.Scan(&stats.AvailableCopies); err != nil {
		return nil, err
	}

	return &stats, nil
}

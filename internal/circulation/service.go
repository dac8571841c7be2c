// Package circulation implements the borrowing and reservation lifecycles:
// loan creation and return, late-fee bookkeeping, and the conversion of a
// received reservation into a borrowing.
package circulation

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/openshelf/librarian/internal/config"
	"github.com/openshelf/librarian/internal/database/borrowings"
	"github.com/openshelf/librarian/internal/database/reservations"
	"github.com/openshelf/librarian/internal/sequence"
)

var (
	// ErrNotFound is returned when the target borrowing or reservation
	// does not exist. No fields are touched in that case.
	ErrNotFound = errors.New("record not found")

	// ErrNotPending is returned when receive is attempted on a
	// reservation that is already RECEIVED or CANCELLED.
	ErrNotPending = errors.New("reservation is not pending")
)

// Service drives the circulation lifecycles against the store.
type Service struct {
	db           *gorm.DB
	borrowings   *borrowings.Repository
	reservations *reservations.Repository
	numbers      *sequence.Generator
	cfg          config.Circulation

	now func() time.Time
}

// NewService creates a circulation service.
func NewService(db *gorm.DB, numbers *sequence.Generator, cfg config.Circulation) *Service {
	if cfg.WeeklyLateFee == 0 {
		cfg.WeeklyLateFee = config.DefaultWeeklyLateFee
	}
	if cfg.LoanPeriodDays == 0 {
		cfg.LoanPeriodDays = config.DefaultLoanPeriodDays
	}
	return &Service{
		db:           db,
		borrowings:   borrowings.NewRepository(db),
		reservations: reservations.NewRepository(db),
		numbers:      numbers,
		cfg:          cfg,
		now:          time.Now,
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

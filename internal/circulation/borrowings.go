package circulation

import (
	"time"

	"github.com/openshelf/librarian/internal/entities"
	"github.com/openshelf/librarian/internal/fees"
)

// BorrowingInput carries the caller-supplied fields of a borrowing. The
// borrowing number, status and late fee are never taken from the caller:
// the number is generated, the status is derived from the return date and
// the fee is recomputed.
type BorrowingInput struct {
	MemberID   uint       `json:"member_id" binding:"required"`
	BookID     uint       `json:"book_id" binding:"required"`
	BorrowDate *time.Time `json:"borrow_date"`
	DueDate    *time.Time `json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`
}

func deriveBorrowingStatus(returnDate *time.Time) entities.BorrowingStatus {
	if returnDate == nil {
		return entities.BorrowingStatusActive
	}
	return entities.BorrowingStatusReturned
}

// ListBorrowings returns all borrowings, or only a member's when memberID
// is non-zero.
func (s *Service) ListBorrowings(memberID uint) ([]entities.Borrowing, error) {
	if memberID != 0 {
		return s.borrowings.GetByMember(memberID)
	}
	return s.borrowings.GetAll()
}

// GetBorrowing retrieves a single borrowing.
func (s *Service) GetBorrowing(id uint) (*entities.Borrowing, error) {
	borrowing, err := s.borrowings.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return borrowing, nil
}

// CreateBorrowing records a new loan. The status follows the return date
// and the late fee is computed from the dates.
func (s *Service) CreateBorrowing(in BorrowingInput) (*entities.Borrowing, error) {
	borrowing := &entities.Borrowing{
		BorrowingNumber: s.numbers.NextBorrowNumber(),
		MemberID:        in.MemberID,
		BookID:          in.BookID,
		BorrowDate:      in.BorrowDate,
		DueDate:         in.DueDate,
		ReturnDate:      in.ReturnDate,
		Status:          deriveBorrowingStatus(in.ReturnDate),
		LateFee:         fees.CalculateAt(in.DueDate, in.ReturnDate, s.cfg.WeeklyLateFee, s.now()),
	}
	if err := s.borrowings.Create(borrowing); err != nil {
		return nil, err
	}
	return borrowing, nil
}

// UpdateBorrowing overwrites the caller-editable fields of an existing
// borrowing. A caller-supplied status is ignored: RETURNED iff the return
// date is set. Returns ErrNotFound without touching the record when the id
// is unknown.
func (s *Service) UpdateBorrowing(id uint, in BorrowingInput) (*entities.Borrowing, error) {
	existing, err := s.borrowings.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	existing.MemberID = in.MemberID
	existing.BookID = in.BookID
	existing.BorrowDate = in.BorrowDate
	existing.DueDate = in.DueDate
	existing.ReturnDate = in.ReturnDate
	existing.Status = deriveBorrowingStatus(in.ReturnDate)
	existing.LateFee = fees.CalculateAt(existing.DueDate, existing.ReturnDate, s.cfg.WeeklyLateFee, s.now())

	if err := s.borrowings.Save(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// ReturnBorrowing closes a loan: status RETURNED, return date today, late
// fee settled against the actual return date.
func (s *Service) ReturnBorrowing(id uint) (*entities.Borrowing, error) {
	existing, err := s.borrowings.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	returnDate := s.now()
	existing.ReturnDate = &returnDate
	existing.Status = entities.BorrowingStatusReturned
	existing.LateFee = fees.CalculateAt(existing.DueDate, existing.ReturnDate, s.cfg.WeeklyLateFee, s.now())

	if err := s.borrowings.Save(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteBorrowing removes a loan record outright.
func (s *Service) DeleteBorrowing(id uint) error {
	exists, err := s.borrowings.ExistsByID(id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return s.borrowings.Delete(id)
}

// RefreshLateFees recomputes the stored late fee of every ACTIVE overdue
// borrowing so that fees track the current date while a book stays out.
// Returns the number of records whose fee changed.
func (s *Service) RefreshLateFees() (int, error) {
	overdue, err := s.borrowings.ListActiveOverdue(s.now())
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range overdue {
		borrowing := &overdue[i]
		fee := fees.CalculateAt(borrowing.DueDate, borrowing.ReturnDate, s.cfg.WeeklyLateFee, s.now())
		if fee == borrowing.LateFee {
			continue
		}
		borrowing.LateFee = fee
		if err := s.borrowings.Save(borrowing); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

package circulation

import (
	"time"

	"gorm.io/gorm"

	"github.com/openshelf/librarian/internal/entities"
)

// ReservationInput carries the caller-supplied fields of a reservation.
// Unlike borrowings, the status IS taken from the caller on update; on
// create it defaults to PENDING when empty.
type ReservationInput struct {
	MemberID        uint                       `json:"member_id" binding:"required"`
	BookID          uint                       `json:"book_id" binding:"required"`
	ReservationDate *time.Time                 `json:"reservation_date"`
	Status          entities.ReservationStatus `json:"status"`
}

// ListReservations returns all reservations, or only a member's when
// memberID is non-zero.
func (s *Service) ListReservations(memberID uint) ([]entities.Reservation, error) {
	if memberID != 0 {
		return s.reservations.GetByMember(memberID)
	}
	return s.reservations.GetAll()
}

// GetReservation retrieves a single reservation.
func (s *Service) GetReservation(id uint) (*entities.Reservation, error) {
	reservation, err := s.reservations.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return reservation, nil
}

// CreateReservation records a new reservation, PENDING unless the caller
// supplies a status.
func (s *Service) CreateReservation(in ReservationInput) (*entities.Reservation, error) {
	status := in.Status
	if status == "" {
		status = entities.ReservationStatusPending
	}
	reservation := &entities.Reservation{
		ReservationNumber: s.numbers.NextReserveNumber(),
		MemberID:          in.MemberID,
		BookID:            in.BookID,
		ReservationDate:   in.ReservationDate,
		Status:            status,
	}
	if err := s.reservations.Create(reservation); err != nil {
		return nil, err
	}
	return reservation, nil
}

// UpdateReservation overwrites the fields of an existing reservation,
// status included.
func (s *Service) UpdateReservation(id uint, in ReservationInput) (*entities.Reservation, error) {
	existing, err := s.reservations.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	existing.MemberID = in.MemberID
	existing.BookID = in.BookID
	existing.ReservationDate = in.ReservationDate
	existing.Status = in.Status

	if err := s.reservations.Save(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// ReceiveReservation converts a PENDING reservation into an active loan:
//
//  1. The reservation is marked RECEIVED.
//  2. Unless the member already holds an ACTIVE borrowing of the book, a
//     new borrowing is created, due after the configured loan period.
//  3. Any other PENDING reservations the member holds for the same book
//     are CANCELLED.
//
// All three mutations run in a single transaction so a failure leaves the
// reservation, the new borrowing and the siblings consistent.
//
// Receiving when an ACTIVE borrowing already exists closes the reservation
// without creating a duplicate loan.
func (s *Service) ReceiveReservation(id uint) (*entities.Reservation, error) {
	var received *entities.Reservation

	err := s.db.Transaction(func(tx *gorm.DB) error {
		reservationRepo := s.reservations.WithTx(tx)
		borrowingRepo := s.borrowings.WithTx(tx)

		existing, err := reservationRepo.GetByID(id)
		if err != nil {
			return mapNotFound(err)
		}

		if existing.Status != "" && existing.Status != entities.ReservationStatusPending {
			return ErrNotPending
		}

		hasActive, err := borrowingRepo.ExistsActiveForMemberAndBook(existing.MemberID, existing.BookID)
		if err != nil {
			return err
		}

		existing.Status = entities.ReservationStatusReceived
		if err := reservationRepo.Save(existing); err != nil {
			return err
		}
		received = existing

		if hasActive {
			// The member already has this book out; close the
			// reservation without another loan.
			return nil
		}

		borrowDate := s.now()
		dueDate := borrowDate.AddDate(0, 0, s.cfg.LoanPeriodDays)
		borrowing := &entities.Borrowing{
			BorrowingNumber: s.numbers.NextBorrowNumber(),
			MemberID:        existing.MemberID,
			BookID:          existing.BookID,
			BorrowDate:      &borrowDate,
			DueDate:         &dueDate,
			ReturnDate:      nil,
			Status:          entities.BorrowingStatusActive,
			LateFee:         0,
		}
		if err := borrowingRepo.Create(borrowing); err != nil {
			return err
		}

		siblings, err := reservationRepo.ListPendingForMemberAndBook(existing.MemberID, existing.BookID, existing.ID)
		if err != nil {
			return err
		}
		for i := range siblings {
			siblings[i].Status = entities.ReservationStatusCancelled
			if err := reservationRepo.Save(&siblings[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return received, nil
}

// DeleteReservation removes a reservation record outright.
func (s *Service) DeleteReservation(id uint) error {
	exists, err := s.reservations.ExistsByID(id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return s.reservations.Delete(id)
}

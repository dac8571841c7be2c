package circulation

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/librarian/internal/config"
	"github.com/openshelf/librarian/internal/database"
	"github.com/openshelf/librarian/internal/entities"
	"github.com/openshelf/librarian/internal/sequence"
)

var testToday = time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testToday }

func setupTestService(t *testing.T) (*Service, *database.Database, func()) {
	t.Helper()

	dbPath := "./test_circulation_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	svc := NewService(db.DB, sequence.NewGeneratorAt(fixedNow), config.Circulation{
		WeeklyLateFee:  100,
		LoanPeriodDays: 14,
	})
	svc.now = fixedNow

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return svc, db, cleanup
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestService_CreateBorrowing(t *testing.T) {
	t.Run("open loan is ACTIVE with generated number", func(t *testing.T) {
		svc, _, cleanup := setupTestService(t)
		defer cleanup()

		borrowing, err := svc.CreateBorrowing(BorrowingInput{
			MemberID:   1,
			BookID:     2,
			BorrowDate: datePtr(2025, time.May, 1),
			DueDate:    datePtr(2025, time.May, 15),
		})
		require.NoError(t, err)

		assert.Equal(t, "BR20250001", borrowing.BorrowingNumber)
		assert.Equal(t, entities.BorrowingStatusActive, borrowing.Status)
		// Due 2025-05-15, today 2025-06-01: 17 days late, 3 started weeks
		assert.Equal(t, 300, borrowing.LateFee)
	})

	t.Run("loan created with return date is RETURNED", func(t *testing.T) {
		svc, _, cleanup := setupTestService(t)
		defer cleanup()

		borrowing, err := svc.CreateBorrowing(BorrowingInput{
			MemberID:   1,
			BookID:     2,
			BorrowDate: datePtr(2025, time.January, 1),
			DueDate:    datePtr(2025, time.January, 1),
			ReturnDate: datePtr(2025, time.January, 10),
		})
		require.NoError(t, err)

		assert.Equal(t, entities.BorrowingStatusReturned, borrowing.Status)
		// 9 days late rounds up to 2 weeks
		assert.Equal(t, 200, borrowing.LateFee)
	})

	t.Run("numbers increase per creation", func(t *testing.T) {
		svc, _, cleanup := setupTestService(t)
		defer cleanup()

		first, err := svc.CreateBorrowing(BorrowingInput{MemberID: 1, BookID: 1})
		require.NoError(t, err)
		second, err := svc.CreateBorrowing(BorrowingInput{MemberID: 1, BookID: 2})
		require.NoError(t, err)

		assert.Equal(t, "BR20250001", first.BorrowingNumber)
		assert.Equal(t, "BR20250002", second.BorrowingNumber)
	})
}

func TestService_UpdateBorrowing(t *testing.T) {
	t.Run("status is derived from return date, fee recomputed", func(t *testing.T) {
		svc, _, cleanup := setupTestService(t)
		defer cleanup()

		created, err := svc.CreateBorrowing(BorrowingInput{
			MemberID: 1, BookID: 2,
			BorrowDate: datePtr(2025, time.January, 1),
			DueDate:    datePtr(2025, time.January, 1),
		})
		require.NoError(t, err)

		updated, err := svc.UpdateBorrowing(created.ID, BorrowingInput{
			MemberID: 3, BookID: 4,
			BorrowDate: datePtr(2025, time.January, 1),
			DueDate:    datePtr(2025, time.January, 1),
			ReturnDate: datePtr(2025, time.January, 10),
		})
		require.NoError(t, err)

		assert.Equal(t, uint(3), updated.MemberID)
		assert.Equal(t, uint(4), updated.BookID)
		assert.Equal(t, entities.BorrowingStatusReturned, updated.Status)
		assert.Equal(t, 200, updated.LateFee)
		// Number survives updates
		assert.Equal(t, created.BorrowingNumber, updated.BorrowingNumber)
	})

	t.Run("clearing the return date reopens the loan", func(t *testing.T) {
		svc, _, cleanup := setupTestService(t)
		defer cleanup()

		created, err := svc.CreateBorrowing(BorrowingInput{
			MemberID: 1, BookID: 2,
			DueDate:    datePtr(2025, time.July, 1),
			ReturnDate: datePtr(2025, time.June, 1),
		})
		require.NoError(t, err)
		require.Equal(t, entities.BorrowingStatusReturned, created.Status)

		updated, err := svc.UpdateBorrowing(created.ID, BorrowingInput{
			MemberID: 1, BookID: 2,
			DueDate: datePtr(2025, time.July, 1),
		})
		require.NoError(t, err)

		assert.Equal(t, entities.BorrowingStatusActive, updated.Status)
		assert.Nil(t, updated.ReturnDate)
		assert.Equal(t, 0, updated.LateFee)
	})

	t.Run("unknown id leaves nothing behind", func(t *testing.T) {
		svc, db, cleanup := setupTestService(t)
		defer cleanup()

		_, err := svc.UpdateBorrowing(999, BorrowingInput{MemberID: 1, BookID: 2})
		assert.ErrorIs(t, err, ErrNotFound)

		var count int64
		db.DB.Model(&entities.Borrowing{}).Count(&count)
		assert.Zero(t, count)
	})
}

func TestService_ReturnBorrowing(t *testing.T) {
	t.Run("sets return date to today and settles the fee", func(t *testing.T) {
		svc, _, cleanup := setupTestService(t)
		defer cleanup()

		created, err := svc.CreateBorrowing(BorrowingInput{
			MemberID: 1, BookID: 2,
			BorrowDate: datePtr(2025, time.May, 1),
			DueDate:    datePtr(2025, time.May, 22),
		})
		require.NoError(t, err)

		returned, err := svc.ReturnBorrowing(created.ID)
		require.NoError(t, err)

		assert.Equal(t, entities.BorrowingStatusReturned, returned.Status)
		require.NotNil(t, returned.ReturnDate)
		assert.Equal(t, testToday, *returned.ReturnDate)
		// Due 2025-05-22, returned 2025-06-01: 10 days, 2 weeks
		assert.Equal(t, 200, returned.LateFee)
	})

	t.Run("on-time return carries no fee", func(t *testing.T) {
		svc, _, cleanup := setupTestService(t)
		defer cleanup()

		created, err := svc.CreateBorrowing(BorrowingInput{
			MemberID: 1, BookID: 2,
			DueDate: datePtr(2025, time.June, 15),
		})
		require.NoError(t, err)

		returned, err := svc.ReturnBorrowing(created.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, returned.LateFee)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _, cleanup := setupTestService(t)
		defer cleanup()

		_, err := svc.ReturnBorrowing(42)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_DeleteBorrowing(t *testing.T) {
	svc, _, cleanup := setupTestService(t)
	defer cleanup()

	created, err := svc.CreateBorrowing(BorrowingInput{MemberID: 1, BookID: 2})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBorrowing(created.ID))

	_, err = svc.GetBorrowing(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.DeleteBorrowing(created.ID), ErrNotFound)
}

func TestService_ListBorrowings(t *testing.T) {
	svc, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := svc.CreateBorrowing(BorrowingInput{MemberID: 1, BookID: 1})
	require.NoError(t, err)
	_, err = svc.CreateBorrowing(BorrowingInput{MemberID: 2, BookID: 1})
	require.NoError(t, err)

	all, err := svc.ListBorrowings(0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListBorrowings(2)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, uint(2), mine[0].MemberID)
}

func TestService_CreateReservation(t *testing.T) {
	t.Run("defaults to PENDING", func(t *testing.T) {
		svc, _, cleanup := setupTestService(t)
		defer cleanup()

		reservation, err := svc.CreateReservation(ReservationInput{
			MemberID:        1,
			BookID:          2,
			ReservationDate: datePtr(2025, time.June, 1),
		})
		require.NoError(t, err)

		assert.Equal(t, "RS20250001", reservation.ReservationNumber)
		assert.Equal(t, entities.ReservationStatusPending, reservation.Status)
	})

	t.Run("caller-supplied status is kept", func(t *testing.T) {
		svc, _, cleanup := setupTestService(t)
		defer cleanup()

		reservation, err := svc.CreateReservation(ReservationInput{
			MemberID: 1, BookID: 2,
			Status: entities.ReservationStatusCancelled,
		})
		require.NoError(t, err)
		assert.Equal(t, entities.ReservationStatusCancelled, reservation.Status)
	})
}

func TestService_UpdateReservation(t *testing.T) {
	svc, _, cleanup := setupTestService(t)
	defer cleanup()

	created, err := svc.CreateReservation(ReservationInput{MemberID: 1, BookID: 2})
	require.NoError(t, err)

	// Status comes straight from the caller here, unlike borrowings
	updated, err := svc.UpdateReservation(created.ID, ReservationInput{
		MemberID: 5, BookID: 6,
		Status: entities.ReservationStatusCancelled,
	})
	require.NoError(t, err)

	assert.Equal(t, uint(5), updated.MemberID)
	assert.Equal(t, entities.ReservationStatusCancelled, updated.Status)

	_, err = svc.UpdateReservation(999, ReservationInput{MemberID: 1, BookID: 2})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ReceiveReservation(t *testing.T) {
	t.Run("spawns a borrowing and cancels siblings", func(t *testing.T) {
		svc, db, cleanup := setupTestService(t)
		defer cleanup()

		target, err := svc.CreateReservation(ReservationInput{MemberID: 1, BookID: 2})
		require.NoError(t, err)
		sibling, err := svc.CreateReservation(ReservationInput{MemberID: 1, BookID: 2})
		require.NoError(t, err)
		// Same member, different book: must stay untouched
		other, err := svc.CreateReservation(ReservationInput{MemberID: 1, BookID: 3})
		require.NoError(t, err)

		received, err := svc.ReceiveReservation(target.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.ReservationStatusReceived, received.Status)

		var borrowing entities.Borrowing
		require.NoError(t, db.DB.Where("member_id = ? AND book_id = ?", 1, 2).First(&borrowing).Error)
		assert.Equal(t, entities.BorrowingStatusActive, borrowing.Status)
		assert.Equal(t, 0, borrowing.LateFee)
		assert.Nil(t, borrowing.ReturnDate)
		require.NotNil(t, borrowing.BorrowDate)
		require.NotNil(t, borrowing.DueDate)
		assert.WithinDuration(t, testToday, *borrowing.BorrowDate, time.Second)
		assert.WithinDuration(t, testToday.AddDate(0, 0, 14), *borrowing.DueDate, time.Second)
		assert.True(t, strings.HasPrefix(borrowing.BorrowingNumber, "BR2025"))

		cancelled, err := svc.GetReservation(sibling.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.ReservationStatusCancelled, cancelled.Status)

		untouched, err := svc.GetReservation(other.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.ReservationStatusPending, untouched.Status)
	})

	t.Run("existing active loan closes the reservation without a new borrowing", func(t *testing.T) {
		svc, db, cleanup := setupTestService(t)
		defer cleanup()

		_, err := svc.CreateBorrowing(BorrowingInput{
			MemberID: 1, BookID: 2,
			BorrowDate: datePtr(2025, time.May, 20),
			DueDate:    datePtr(2025, time.June, 10),
		})
		require.NoError(t, err)

		reservation, err := svc.CreateReservation(ReservationInput{MemberID: 1, BookID: 2})
		require.NoError(t, err)

		received, err := svc.ReceiveReservation(reservation.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.ReservationStatusReceived, received.Status)

		var count int64
		db.DB.Model(&entities.Borrowing{}).Where("member_id = ? AND book_id = ?", 1, 2).Count(&count)
		assert.Equal(t, int64(1), count, "no second borrowing may be created")
	})

	t.Run("non-pending reservation is rejected unchanged", func(t *testing.T) {
		svc, db, cleanup := setupTestService(t)
		defer cleanup()

		reservation, err := svc.CreateReservation(ReservationInput{
			MemberID: 1, BookID: 2,
			Status: entities.ReservationStatusReceived,
		})
		require.NoError(t, err)

		_, err = svc.ReceiveReservation(reservation.ID)
		assert.ErrorIs(t, err, ErrNotPending)

		after, err := svc.GetReservation(reservation.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.ReservationStatusReceived, after.Status)

		var count int64
		db.DB.Model(&entities.Borrowing{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _, cleanup := setupTestService(t)
		defer cleanup()

		_, err := svc.ReceiveReservation(404)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("received reservation cannot be received twice", func(t *testing.T) {
		svc, db, cleanup := setupTestService(t)
		defer cleanup()

		reservation, err := svc.CreateReservation(ReservationInput{MemberID: 1, BookID: 2})
		require.NoError(t, err)

		_, err = svc.ReceiveReservation(reservation.ID)
		require.NoError(t, err)

		_, err = svc.ReceiveReservation(reservation.ID)
		assert.ErrorIs(t, err, ErrNotPending)

		var count int64
		db.DB.Model(&entities.Borrowing{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestService_DeleteReservation(t *testing.T) {
	svc, _, cleanup := setupTestService(t)
	defer cleanup()

	created, err := svc.CreateReservation(ReservationInput{MemberID: 1, BookID: 2})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReservation(created.ID))
	assert.ErrorIs(t, svc.DeleteReservation(created.ID), ErrNotFound)
}

func TestService_RefreshLateFees(t *testing.T) {
	svc, _, cleanup := setupTestService(t)
	defer cleanup()

	// Overdue by 10 days: fee should land on 2 weeks
	overdue, err := svc.CreateBorrowing(BorrowingInput{
		MemberID: 1, BookID: 1,
		BorrowDate: datePtr(2025, time.May, 1),
		DueDate:    datePtr(2025, time.May, 22),
	})
	require.NoError(t, err)

	// Not yet due: untouched
	current, err := svc.CreateBorrowing(BorrowingInput{
		MemberID: 1, BookID: 2,
		BorrowDate: datePtr(2025, time.May, 25),
		DueDate:    datePtr(2025, time.June, 8),
	})
	require.NoError(t, err)

	// Force a stale stored fee to prove the sweep corrects it
	overdue.LateFee = 0
	require.NoError(t, svc.borrowings.Save(overdue))

	updated, err := svc.RefreshLateFees()
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	refreshed, err := svc.GetBorrowing(overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, 200, refreshed.LateFee)

	unchanged, err := svc.GetBorrowing(current.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unchanged.LateFee)
}

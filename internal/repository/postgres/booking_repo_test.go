package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"bookinghub/internal/domain"
)

func confirmedBooking() *domain.Booking {
	paymentID := "pay_123"
	return &domain.Booking{
		BookingReference: "a3f0c1e2-0000-0000-0000-000000000001",
		Status:           domain.BookingStatusConfirmed,
		PaymentStatus:    domain.PaymentStatusCompleted,
		PaymentID:        &paymentID,
		UserID:           "user-1",
		EventID:          "ev-1",
		CreatedAt:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func eventLockRow(maxP, currentP int, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"max_participants", "current_participants", "is_active", "price", "currency"}).
		AddRow(maxP, currentP, active, "500.00", "INR")
}

func TestBookingRepository_CreateConfirmed(t *testing.T) {
	ctx := context.Background()

	t.Run("success commits booking, occupancy bump, and transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT max_participants, current_participants, is_active, price, currency`).
			WithArgs("ev-1").
			WillReturnRows(eventLockRow(10, 3, true))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("bk-uuid-1"))
		mock.ExpectExec(`UPDATE events SET current_participants = current_participants \+ 1`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO transactions`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		b := confirmedBooking()
		repo := NewBookingRepository(db)
		require.NoError(t, repo.CreateConfirmed(ctx, b))
		require.Equal(t, "bk-uuid-1", b.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("event full", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT max_participants, current_participants, is_active, price, currency`).
			WithArgs("ev-1").
			WillReturnRows(eventLockRow(10, 10, true))
		mock.ExpectRollback()

		repo := NewBookingRepository(db)
		err = repo.CreateConfirmed(ctx, confirmedBooking())
		require.ErrorIs(t, err, domain.ErrEventFull)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("event inactive", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT max_participants, current_participants, is_active, price, currency`).
			WithArgs("ev-1").
			WillReturnRows(eventLockRow(10, 3, false))
		mock.ExpectRollback()

		repo := NewBookingRepository(db)
		err = repo.CreateConfirmed(ctx, confirmedBooking())
		require.ErrorIs(t, err, domain.ErrEventInactive)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate active booking", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT max_participants, current_participants, is_active, price, currency`).
			WithArgs("ev-1").
			WillReturnRows(eventLockRow(10, 3, true))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: activeBookingIndex})
		mock.ExpectRollback()

		repo := NewBookingRepository(db)
		err = repo.CreateConfirmed(ctx, confirmedBooking())
		require.ErrorIs(t, err, domain.ErrDuplicateBooking)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_Cancel(t *testing.T) {
	ctx := context.Background()
	cancelledAt := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)

	t.Run("success releases slot", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs("bk-1", cancelledAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE events e`).
			WithArgs("bk-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewBookingRepository(db)
		require.NoError(t, repo.Cancel(ctx, "bk-1", cancelledAt))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already terminal", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs("bk-1", cancelledAt).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		repo := NewBookingRepository(db)
		err = repo.Cancel(ctx, "bk-1", cancelledAt)
		require.ErrorIs(t, err, domain.ErrBookingClosed)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_SetStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE bookings SET status = \$2, payment_status = \$3`).
					WithArgs("bk-1", "rejected", "refunded").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE bookings SET status = \$2, payment_status = \$3`).
					WithArgs("bk-1", "rejected", "refunded").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewBookingRepository(db)
			err = repo.SetStatus(ctx, "bk-1", "rejected", "refunded")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingRepository_GetActiveByUserAndEvent(t *testing.T) {
	ctx := context.Background()
	bookingCols := []string{
		"id", "booking_reference", "status", "notes", "payment_status", "payment_id",
		"cancelled_at", "user_id", "event_id", "created_at", "updated_at",
	}

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT id, booking_reference, status`).
			WithArgs("user-1", "ev-1").
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow("bk-1", "ref-1", "confirmed", "", "completed", "pay_123", nil, "user-1", "ev-1", created, created))

		repo := NewBookingRepository(db)
		got, err := repo.GetActiveByUserAndEvent(ctx, "user-1", "ev-1")
		require.NoError(t, err)
		require.Equal(t, "bk-1", got.ID)
		require.Equal(t, domain.BookingStatusConfirmed, got.Status)
		require.NotNil(t, got.PaymentID)
		require.Equal(t, "pay_123", *got.PaymentID)
		require.Nil(t, got.CancelledAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("none active", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, booking_reference, status`).
			WithArgs("user-1", "ev-1").
			WillReturnRows(sqlmock.NewRows(bookingCols))

		repo := NewBookingRepository(db)
		_, err = repo.GetActiveByUserAndEvent(ctx, "user-1", "ev-1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

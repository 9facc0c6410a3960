package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bookinghub/internal/domain"
)

var eventTestCols = []string{
	"id", "title", "description", "event_type", "start_datetime", "end_datetime",
	"location", "virtual_link", "max_participants", "current_participants", "price", "currency",
	"is_active", "user_id", "created_at", "updated_at",
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				Title:           "Morning Yoga",
				EventType:       "session",
				StartDatetime:   time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
				EndDatetime:     time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
				MaxParticipants: 10,
				Price:           decimal.NewFromInt(500),
				Currency:        "INR",
				IsActive:        true,
				UserID:          "fac-1",
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID:  "ev-uuid-1",
			wantErr: false,
		},
		{
			name: "db error",
			event: &domain.Event{
				Title:  "Retreat",
				UserID: "fac-1",
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT id, title, description`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows(eventTestCols).
				AddRow("ev-1", "Morning Yoga", "Vinyasa flow", "session",
					time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
					"Studio A", nil, 10, 3, "500.00", "INR", true, "fac-1", created, created))

		repo := NewEventRepository(db)
		got, err := repo.GetByID(ctx, "ev-1")
		require.NoError(t, err)
		require.Equal(t, "ev-1", got.ID)
		require.Equal(t, "Morning Yoga", got.Title)
		require.NotNil(t, got.Description)
		require.Equal(t, "Vinyasa flow", *got.Description)
		require.Nil(t, got.VirtualLink)
		require.True(t, got.Price.Equal(decimal.RequireFromString("500.00")))
		require.Equal(t, 3, got.CurrentParticipants)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null schedule columns", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT id, title, description`).
			WithArgs("ev-2").
			WillReturnRows(sqlmock.NewRows(eventTestCols).
				AddRow("ev-2", "Imported Event", nil, nil, nil, nil,
					nil, nil, 10, 0, "0.00", "INR", true, "fac-1", created, created))

		repo := NewEventRepository(db)
		got, err := repo.GetByID(ctx, "ev-2")
		require.NoError(t, err)
		require.Equal(t, "ev-2", got.ID)
		require.Empty(t, got.EventType)
		require.True(t, got.StartDatetime.IsZero())
		require.True(t, got.EndDatetime.IsZero())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, description`).
			WithArgs("ev-missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.GetByID(ctx, "ev-missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only provided fields", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), title = \$1, max_participants = \$2`).
			WithArgs("Evening Yoga", 20, "ev-1").
			WillReturnRows(sqlmock.NewRows(eventTestCols).
				AddRow("ev-1", "Evening Yoga", nil, "session",
					time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC), time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC),
					nil, nil, 20, 3, "500.00", "INR", true, "fac-1", created, created))

		title := "Evening Yoga"
		maxP := 20
		repo := NewEventRepository(db)
		got, err := repo.Update(ctx, "ev-1", domain.EventUpdate{Title: &title, MaxParticipants: &maxP})
		require.NoError(t, err)
		require.Equal(t, "Evening Yoga", got.Title)
		require.Equal(t, 20, got.MaxParticipants)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events SET`).
			WillReturnError(sql.ErrNoRows)

		title := "X"
		repo := NewEventRepository(db)
		_, err = repo.Update(ctx, "ev-missing", domain.EventUpdate{Title: &title})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_Deactivate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET is_active = FALSE`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET is_active = FALSE`).
					WithArgs("ev-missing").
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
			repo := NewEventRepository(db)
			err = repo.Deactivate(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

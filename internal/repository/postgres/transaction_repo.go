package postgres

import (
	"context"
	"database/sql"

	"bookinghub/internal/domain"
)

type transactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) domain.TransactionRepository {
	return &transactionRepository{
		DB: db,
	}
}

// CreateIfAbsent inserts a transaction unless one already exists for the same
// (booking_id, payment_id) pair, which makes webhook replays harmless.
func (r *transactionRepository) CreateIfAbsent(ctx context.Context, t *domain.Transaction) error {
	query := `
		INSERT INTO transactions (booking_id, payment_id, amount, currency, status, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (booking_id, payment_id) DO NOTHING
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		t.BookingID, t.PaymentID, t.Amount, t.Currency, t.Status, t.PaymentMethod, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err == sql.ErrNoRows {
		// Duplicate pair; the existing row stands.
		return nil
	}
	return err
}

func (r *transactionRepository) ListByBookingID(ctx context.Context, bookingID string) ([]*domain.Transaction, error) {
	query := `
		SELECT id, booking_id, payment_id, amount, currency, status, payment_method, created_at, updated_at
		FROM transactions
		WHERE booking_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.Transaction, 0)
	for rows.Next() {
		t := &domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.BookingID, &t.PaymentID, &t.Amount, &t.Currency,
			&t.Status, &t.PaymentMethod, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

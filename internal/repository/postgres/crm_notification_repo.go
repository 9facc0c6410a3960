package postgres

import (
	"context"
	"database/sql"

	"bookinghub/internal/domain"
)

type crmNotificationRepository struct {
	DB *sql.DB
}

func NewCRMNotificationRepository(db *sql.DB) domain.CRMNotificationRepository {
	return &crmNotificationRepository{
		DB: db,
	}
}

func (r *crmNotificationRepository) Create(ctx context.Context, n *domain.CRMNotification) error {
	query := `
		INSERT INTO crm_notifications (booking_id, status, sent_at, response)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, n.BookingID, n.Status, n.SentAt, n.Response).Scan(&n.ID)
}

func (r *crmNotificationRepository) ListByBookingID(ctx context.Context, bookingID string) ([]*domain.CRMNotification, error) {
	query := `
		SELECT id, booking_id, status, sent_at, response
		FROM crm_notifications
		WHERE booking_id = $1
		ORDER BY sent_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.CRMNotification, 0)
	for rows.Next() {
		n := &domain.CRMNotification{}
		if err := rows.Scan(&n.ID, &n.BookingID, &n.Status, &n.SentAt, &n.Response); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

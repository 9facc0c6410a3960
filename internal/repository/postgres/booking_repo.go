package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"bookinghub/internal/domain"
)

const bookingColumns = `id, booking_reference, status, notes, payment_status, payment_id,
	cancelled_at, user_id, event_id, created_at, updated_at`

// Name of the partial unique index enforcing one non-cancelled booking per
// (user_id, event_id). Violations map to ErrDuplicateBooking.
const activeBookingIndex = "bookings_user_event_active_idx"

type bookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) domain.BookingRepository {
	return &bookingRepository{
		DB: db,
	}
}

// CreateConfirmed inserts a confirmed booking, bumps the event's occupancy,
// and records the payment transaction, all under a row lock on the event so
// the last open slot cannot be oversold by concurrent requests.
func (r *bookingRepository) CreateConfirmed(ctx context.Context, b *domain.Booking) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		maxParticipants     int
		currentParticipants int
		isActive            bool
		price               sql.NullString
		currency            string
	)
	lockQuery := `
		SELECT max_participants, current_participants, is_active, price, currency
		FROM events
		WHERE id = $1
		FOR UPDATE
	`
	err = tx.QueryRowContext(ctx, lockQuery, b.EventID).Scan(
		&maxParticipants, &currentParticipants, &isActive, &price, &currency,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock event: %w", err)
	}
	if !isActive {
		return domain.ErrEventInactive
	}
	if currentParticipants >= maxParticipants {
		return domain.ErrEventFull
	}

	insertQuery := `
		INSERT INTO bookings (booking_reference, status, notes, payment_status, payment_id,
			user_id, event_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var paymentNull sql.NullString
	if b.PaymentID != nil {
		paymentNull = sql.NullString{String: *b.PaymentID, Valid: true}
	}
	err = tx.QueryRowContext(ctx, insertQuery,
		b.BookingReference, b.Status, b.Notes, b.PaymentStatus, paymentNull,
		b.UserID, b.EventID, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			if pqErr.Constraint == activeBookingIndex {
				return domain.ErrDuplicateBooking
			}
		}
		return fmt.Errorf("insert booking: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE events SET current_participants = current_participants + 1, updated_at = NOW() WHERE id = $1`,
		b.EventID,
	); err != nil {
		return fmt.Errorf("increment participants: %w", err)
	}

	paymentID := ""
	if b.PaymentID != nil {
		paymentID = *b.PaymentID
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (booking_id, payment_id, amount, currency, status, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (booking_id, payment_id) DO NOTHING
	`, b.ID, paymentID, price.String, currency, "completed", "razorpay", b.CreatedAt, b.UpdatedAt); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	return tx.Commit()
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)
	return r.getOne(ctx, query, id)
}

func (r *bookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE booking_reference = $1`, bookingColumns)
	return r.getOne(ctx, query, reference)
}

func (r *bookingRepository) GetActiveByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE user_id = $1 AND event_id = $2 AND status <> 'cancelled'
		ORDER BY created_at DESC
		LIMIT 1
	`, bookingColumns)
	return r.getOne(ctx, query, userID, eventID)
}

func (r *bookingRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Booking, error) {
	b, err := scanBooking(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) ListDetailsByUserID(ctx context.Context, userID string) ([]*domain.BookingDetail, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			%s,
			f.id, f.name, f.email
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		JOIN users f ON f.id = e.user_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`, prefixColumns("b", bookingColumns), prefixColumns("e", eventColumns))
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]*domain.BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *bookingRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventBookingRow, error) {
	query := `
		SELECT b.id, u.id, u.name, u.email, b.status, b.created_at
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		WHERE b.event_id = $1
		ORDER BY b.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.EventBookingRow, 0)
	for rows.Next() {
		row := &domain.EventBookingRow{User: &domain.PartySummary{}}
		if err := rows.Scan(&row.BookingID, &row.User.ID, &row.User.Name, &row.User.Email, &row.Status, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Cancel marks the booking cancelled and releases its event slot, floored at
// zero. Terminal bookings are left untouched and reported as closed.
func (r *bookingRepository) Cancel(ctx context.Context, bookingID string, cancelledAt time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET status = 'cancelled', cancelled_at = $2, updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('cancelled', 'rejected')
	`, bookingID, cancelledAt)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrBookingClosed
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE events e
		SET current_participants = GREATEST(e.current_participants - 1, 0), updated_at = NOW()
		FROM bookings b
		WHERE b.id = $1 AND e.id = b.event_id
	`, bookingID); err != nil {
		return fmt.Errorf("release event slot: %w", err)
	}

	return tx.Commit()
}

func (r *bookingRepository) SetStatus(ctx context.Context, bookingID, status, paymentStatus string) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE bookings SET status = $2, payment_status = $3, updated_at = NOW() WHERE id = $1
	`, bookingID, status, paymentStatus)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ConfirmFromWebhook promotes a not-yet-confirmed booking after a captured
// payment. Already-confirmed bookings are left untouched.
func (r *bookingRepository) ConfirmFromWebhook(ctx context.Context, bookingID, paymentID string) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE bookings
		SET status = 'confirmed', payment_status = 'completed', payment_id = $2, updated_at = NOW()
		WHERE id = $1 AND status <> 'confirmed'
	`, bookingID, paymentID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	var paymentNull sql.NullString
	var cancelledNull sql.NullTime
	err := row.Scan(
		&b.ID, &b.BookingReference, &b.Status, &b.Notes, &b.PaymentStatus, &paymentNull,
		&cancelledNull, &b.UserID, &b.EventID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if paymentNull.Valid {
		b.PaymentID = &paymentNull.String
	}
	if cancelledNull.Valid {
		b.CancelledAt = &cancelledNull.Time
	}
	return b, nil
}

func scanBookingDetail(rows *sql.Rows) (*domain.BookingDetail, error) {
	b := &domain.Booking{}
	e := &domain.Event{}
	fac := &domain.PartySummary{}
	var paymentNull sql.NullString
	var cancelledNull sql.NullTime
	var descNull, locNull, linkNull sql.NullString
	err := rows.Scan(
		&b.ID, &b.BookingReference, &b.Status, &b.Notes, &b.PaymentStatus, &paymentNull,
		&cancelledNull, &b.UserID, &b.EventID, &b.CreatedAt, &b.UpdatedAt,
		&e.ID, &e.Title, &descNull, &e.EventType, &e.StartDatetime, &e.EndDatetime,
		&locNull, &linkNull, &e.MaxParticipants, &e.CurrentParticipants, &e.Price, &e.Currency,
		&e.IsActive, &e.UserID, &e.CreatedAt, &e.UpdatedAt,
		&fac.ID, &fac.Name, &fac.Email,
	)
	if err != nil {
		return nil, err
	}
	if paymentNull.Valid {
		b.PaymentID = &paymentNull.String
	}
	if cancelledNull.Valid {
		b.CancelledAt = &cancelledNull.Time
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	if locNull.Valid {
		e.Location = &locNull.String
	}
	if linkNull.Valid {
		e.VirtualLink = &linkNull.String
	}
	return &domain.BookingDetail{Booking: b, Event: e, Facilitator: fac}, nil
}

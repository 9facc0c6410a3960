package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookinghub/internal/domain"
)

const eventColumns = `id, title, description, event_type, start_datetime, end_datetime,
	location, virtual_link, max_participants, current_participants, price, currency,
	is_active, user_id, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, event_type, start_datetime, end_datetime,
			location, virtual_link, max_participants, current_participants, price, currency,
			is_active, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	var descNull, locNull, linkNull sql.NullString
	if e.Description != nil {
		descNull = sql.NullString{String: *e.Description, Valid: true}
	}
	if e.Location != nil {
		locNull = sql.NullString{String: *e.Location, Valid: true}
	}
	if e.VirtualLink != nil {
		linkNull = sql.NullString{String: *e.VirtualLink, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Title, descNull, e.EventType, e.StartDatetime, e.EndDatetime,
		locNull, linkNull, e.MaxParticipants, e.CurrentParticipants, e.Price, e.Currency,
		e.IsActive, e.UserID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListActive(ctx context.Context) ([]*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE is_active ORDER BY start_datetime`, eventColumns)
	return r.list(ctx, query)
}

func (r *eventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE user_id = $1 ORDER BY created_at DESC`, eventColumns)
	return r.list(ctx, query, ownerID)
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.EventType != nil {
		add("event_type", *upd.EventType)
	}
	if upd.StartDatetime != nil {
		add("start_datetime", *upd.StartDatetime)
	}
	if upd.EndDatetime != nil {
		add("end_datetime", *upd.EndDatetime)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.VirtualLink != nil {
		add("virtual_link", *upd.VirtualLink)
	}
	if upd.MaxParticipants != nil {
		add("max_participants", *upd.MaxParticipants)
	}
	if upd.Price != nil {
		add("price", *upd.Price)
	}
	if upd.Currency != nil {
		add("currency", *upd.Currency)
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, eventID)
	}
	args = append(args, eventID)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE events SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull, locNull, linkNull, typeNull sql.NullString
	var startNull, endNull sql.NullTime
	err := row.Scan(
		&e.ID, &e.Title, &descNull, &typeNull, &startNull, &endNull,
		&locNull, &linkNull, &e.MaxParticipants, &e.CurrentParticipants, &e.Price, &e.Currency,
		&e.IsActive, &e.UserID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	// event_type and the schedule columns are nullable in the schema; rows
	// inserted outside the API may leave them empty.
	e.EventType = typeNull.String
	e.StartDatetime = startNull.Time
	e.EndDatetime = endNull.Time
	if descNull.Valid {
		e.Description = &descNull.String
	}
	if locNull.Valid {
		e.Location = &locNull.String
	}
	if linkNull.Valid {
		e.VirtualLink = &linkNull.String
	}
	return e, nil
}

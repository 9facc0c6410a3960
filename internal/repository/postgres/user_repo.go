package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"bookinghub/internal/domain"
)

const uniqueViolation = "23505"

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{
		DB: db,
	}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, google_id, role, is_active, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var hashNull sql.NullString
	if u.PasswordHash != "" {
		hashNull = sql.NullString{String: u.PasswordHash, Valid: true}
	}
	var googleNull sql.NullString
	if u.GoogleID != nil {
		googleNull = sql.NullString{String: *u.GoogleID, Valid: true}
	}
	err := r.DB.QueryRowContext(ctx, query,
		u.Email, u.Name, hashNull, googleNull, u.Role, u.IsActive, u.IsVerified, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	query := `
		SELECT id, email, name, password_hash, google_id, role, is_active, is_verified, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, name, password_hash, google_id, role, is_active, is_verified, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var hashNull, googleNull sql.NullString
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &hashNull, &googleNull, &u.Role,
		&u.IsActive, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if hashNull.Valid {
		u.PasswordHash = hashNull.String
	}
	if googleNull.Valid {
		u.GoogleID = &googleNull.String
	}
	return u, nil
}

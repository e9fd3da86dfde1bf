package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ctvnews/newsroom/internal/core/domain"
)

// UserRepository implements ports.UserRepository.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// LockForCreate takes a table lock that conflicts with itself and with
// inserts, then counts accounts. Two concurrent registrations therefore
// cannot both observe an empty table.
func (r *UserRepository) LockForCreate(ctx context.Context) (int64, error) {
	if _, err := r.db.ExecContext(ctx, `LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const q = `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	created := *user
	err := r.db.QueryRowContext(ctx, q, user.Username, user.Email, user.PasswordHash, string(user.Role)).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, translate(err, domain.ErrUserExists, nil)
	}
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
		SELECT id, username, email, password_hash, role, created_at
		FROM users
		WHERE email = $1`

	var (
		u    domain.User
		role string
	)
	err := r.db.QueryRowContext(ctx, q, email).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	u.Role = domain.Role(role)
	return &u, nil
}

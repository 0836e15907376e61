package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, username, email, password_hash, COALESCE(role, 'admin'), COALESCE(is_active, 1), created_at, last_login`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var (
		user      models.User
		lastLogin time.Time
	)
	ll := ts(&lastLogin)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role,
		&user.IsActive, ts(&user.CreatedAt), ll)
	if err != nil {
		return nil, err
	}
	if ll.valid {
		user.LastLogin = &lastLogin
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = "admin"
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, email, role, is_active) VALUES (?, ?, ?, ?, 1)`,
		u.Username, u.PasswordHash, u.Email, u.Role)
	if err != nil {
		return constraintErr(err, "username", u.Username)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = int(id)
	u.IsActive = true
	return nil
}

// GetActiveByUsername returns the user only if the account is active.
func (r *UserRepository) GetActiveByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? AND is_active = 1`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user", username)
	}
	return user, err
}

// GetActive returns an active user by id.
func (r *UserRepository) GetActive(ctx context.Context, id int) (*models.User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ? AND is_active = 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user", id)
	}
	return user, err
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

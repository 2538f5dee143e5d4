package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/RInot-Aikcraft/cours/internal/models"
)

// UserRepository provides database access for account management.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, display_name, username, email, password_hash, contact, role, created_at, updated_at`

// FindByUsername returns a user by exact username match.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// List returns all accounts without credential fields.
func (r *UserRepository) List(ctx context.Context) ([]models.PublicUser, error) {
	const query = `SELECT id, display_name, username, email, contact, role, created_at FROM users ORDER BY id`
	users := []models.PublicUser{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Recent returns the newest accounts, most recent first.
func (r *UserRepository) Recent(ctx context.Context, limit int) ([]models.PublicUser, error) {
	const query = `SELECT id, display_name, username, email, contact, role, created_at FROM users ORDER BY created_at DESC LIMIT $1`
	users := []models.PublicUser{}
	if err := r.db.SelectContext(ctx, &users, query, limit); err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}
	return users, nil
}

// Count returns the total number of accounts.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

// CountSince returns the number of accounts created at or after the given time.
func (r *UserRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users WHERE created_at >= $1`, since); err != nil {
		return 0, fmt.Errorf("count users since: %w", err)
	}
	return total, nil
}

// UsernameExists tests exact-match existence of a username.
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM users WHERE username = $1 LIMIT 1`, username); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check username: %w", err)
	}
	return true, nil
}

// EmailExists tests exact-match existence of an email.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM users WHERE email = $1 LIMIT 1`, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check email: %w", err)
	}
	return true, nil
}

// UsernamesWithPrefix returns every stored username starting with the prefix.
// Suggestion generation filters candidates against this single result set.
func (r *UserRepository) UsernamesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	usernames := []string{}
	if err := r.db.SelectContext(ctx, &usernames, `SELECT username FROM users WHERE username LIKE $1 || '%'`, prefix); err != nil {
		return nil, fmt.Errorf("usernames with prefix: %w", err)
	}
	return usernames, nil
}

// Create inserts a new account and fills in the generated id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	const query = `INSERT INTO users (display_name, username, email, password_hash, contact, role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.GetContext(ctx, &user.ID, query,
		user.DisplayName, user.Username, user.Email, user.PasswordHash, user.Contact, user.Role, user.CreatedAt, user.UpdatedAt); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update modifies profile fields of an account. Returns sql.ErrNoRows when
// the account does not exist.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE users SET display_name = $2, username = $3, email = $4, contact = $5, role = $6, updated_at = $7 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, user.ID, user.DisplayName, user.Username, user.Email, user.Contact, user.Role, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res, "update user")
}

// Delete removes an account. Returns sql.ErrNoRows when nothing matched.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res, "delete user")
}

// requireRow maps a zero-row mutation onto sql.ErrNoRows so services can
// surface NotFound instead of silent success.
func requireRow(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

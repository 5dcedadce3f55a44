package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jlucero/shop-api/internal/model"
	"github.com/jlucero/shop-api/internal/utils"
)

// UserRepo persists user records in the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,first_name,last_name,password_hash,is_active,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create hashes the password and inserts a new user, returning its ID.
// A duplicate email surfaces as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, firstName, lastName, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, first_name, last_name, password_hash) VALUES (?,?,?,?)",
		email, firstName, lastName, hash)
	if err != nil {
		// MySQL error 1062: duplicate entry for a unique key.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
	if err == sql.ErrNoRows {
		return u, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches an active user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? AND is_active=1 LIMIT 1", id))
	if err == sql.ErrNoRows {
		return u, ErrUserNotFound
	}
	return u, err
}

// ListActive returns all active users ordered by id.
func (r *UserRepo) ListActive(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE is_active=1 ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
			&u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateProfile applies the non-nil fields to the user row. Passing all
// nil pointers is a no-op that still reports success. Changing the email
// to one already taken surfaces as ErrEmailExists.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, firstName, lastName, email *string) error {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if firstName != nil {
		sets = append(sets, "first_name=?")
		args = append(args, *firstName)
	}
	if lastName != nil {
		sets = append(sets, "last_name=?")
		args = append(args, *lastName)
	}
	if email != nil {
		sets = append(sets, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(*email)))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ",")+" WHERE id=? AND is_active=1", args...)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "no such user" from "values unchanged".
		var exists bool
		if err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM users WHERE id=? AND is_active=1", id).Scan(&exists); err == sql.ErrNoRows {
			return ErrUserNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the user row. Dependent products and blacklist rows are
// removed by ON DELETE CASCADE foreign keys.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

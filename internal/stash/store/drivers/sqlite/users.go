package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/oakmount/stash/internal/stash/domain"
	"github.com/oakmount/stash/internal/stash/store"
)

type usersRepo struct {
	db DBTX
}

const userColumns = `id, name, email, password_hash, active, created_at, updated_at, deleted_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var active int64
	var deletedAt sql.NullTime

	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &active,
		&u.CreatedAt, &u.UpdatedAt, &deletedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Active = active != 0
	u.DeletedAt = mapNullTimePtr(deletedAt)
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, now, now,
	)
	return mapConflict(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE id = ? AND deleted_at IS NULL`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE email = ? AND deleted_at IS NULL`, email)
	return scanUser(row)
}

func (r *usersRepo) UpdateName(ctx context.Context, userID, name string) error {
	return r.mutate(ctx, `
		UPDATE users SET name = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		name, time.Now().UTC(), userID)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return r.mutate(ctx, `
		UPDATE users SET password_hash = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		newHash, time.Now().UTC(), userID)
}

func (r *usersRepo) SoftDeleteUser(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	return r.mutate(ctx, `
		UPDATE users SET active = 0, deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		now, now, userID)
}

func (r *usersRepo) PurgeDeletedUsers(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM users WHERE deleted_at IS NOT NULL AND deleted_at < ?`, cutoff)
	return err
}

// mutate runs an UPDATE that must touch exactly one live row and maps the
// zero-row case to ErrNotFound.
func (r *usersRepo) mutate(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

package sqlite

import (
	"context"
	"time"

	"github.com/oakmount/stash/internal/stash/domain"
	"github.com/oakmount/stash/internal/stash/store"
)

type itemsRepo struct {
	db DBTX
}

const itemColumns = `id, owner_id, title, description, status, created_at, updated_at`

func (r *itemsRepo) CreateItem(ctx context.Context, it domain.Item) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO items (id, owner_id, title, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.OwnerID, it.Title, it.Description, string(it.Status), now, now,
	)
	return err
}

func (r *itemsRepo) GetItemForOwner(ctx context.Context, ownerID, itemID string) (domain.Item, error) {
	// Owner scoping happens in the query itself: a foreign item and a
	// missing item are the same ErrNotFound.
	row := r.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE id = ? AND owner_id = ? AND status != 'deleted'`,
		itemID, ownerID)

	var it domain.Item
	var status string
	err := row.Scan(&it.ID, &it.OwnerID, &it.Title, &it.Description, &status,
		&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return domain.Item{}, mapNotFound(err)
	}
	it.Status = domain.ItemStatus(status)
	return it, nil
}

func (r *itemsRepo) ListItemsByOwner(ctx context.Context, ownerID string) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE owner_id = ? AND status != 'deleted'
		ORDER BY id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		var it domain.Item
		var status string
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Title, &it.Description, &status,
			&it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		it.Status = domain.ItemStatus(status)
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *itemsRepo) UpdateItem(ctx context.Context, it domain.Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE items SET title = ?, description = ?, status = ?, updated_at = ?
		WHERE id = ? AND owner_id = ? AND status != 'deleted'`,
		it.Title, it.Description, string(it.Status), time.Now().UTC(),
		it.ID, it.OwnerID)
	if err != nil {
		return err
	}
	return oneRow(res.RowsAffected())
}

func (r *itemsRepo) SoftDeleteItem(ctx context.Context, ownerID, itemID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE items SET status = 'deleted', updated_at = ?
		WHERE id = ? AND owner_id = ? AND status != 'deleted'`,
		time.Now().UTC(), itemID, ownerID)
	if err != nil {
		return err
	}
	return oneRow(res.RowsAffected())
}

func (r *itemsRepo) PurgeDeletedItems(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM items WHERE status = 'deleted' AND updated_at < ?`, cutoff)
	return err
}

func oneRow(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

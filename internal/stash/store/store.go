package store

import (
	"context"
	"errors"
	"time"

	"github.com/oakmount/stash/internal/stash/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres later) implement this. It exposes sub-repositories to keep
// concerns tidy and testable.
type Store interface {
	Users() Users
	Items() Items

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Prefer this
	// over Tx for multi-step operations.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repos, plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id, excluding soft-deleted accounts.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up an account for login. Email must already be
	// lower-cased by the caller. Excludes soft-deleted accounts.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// UpdateName mutates the display name and bumps updated_at.
	UpdateName(ctx context.Context, userID, name string) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	// The hash is stored in exactly one place; callers re-hash on change.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// SoftDeleteUser marks the account deleted and inactive.
	SoftDeleteUser(ctx context.Context, userID string) error

	// PurgeDeletedUsers hard-deletes accounts soft-deleted before the
	// cutoff. Items cascade per schema. Housekeeping only.
	PurgeDeletedUsers(ctx context.Context, cutoff time.Time) error
}

type Items interface {
	// CreateItem inserts a new item (id is ULID, owner set by the service).
	CreateItem(ctx context.Context, it domain.Item) error

	// GetItemForOwner returns the item only when owned by ownerID and not
	// soft-deleted; any other case is ErrNotFound. The ownership check
	// lives in the query so there is no window to leak existence.
	GetItemForOwner(ctx context.Context, ownerID, itemID string) (domain.Item, error)

	// ListItemsByOwner returns the owner's non-deleted items, newest first.
	ListItemsByOwner(ctx context.Context, ownerID string) ([]domain.Item, error)

	// UpdateItem rewrites title/description/status for an owned item and
	// bumps updated_at. ErrNotFound when absent or owned by someone else.
	UpdateItem(ctx context.Context, it domain.Item) error

	// SoftDeleteItem flips the status to deleted for an owned item.
	SoftDeleteItem(ctx context.Context, ownerID, itemID string) error

	// PurgeDeletedItems hard-deletes items soft-deleted before the cutoff.
	// Housekeeping only.
	PurgeDeletedItems(ctx context.Context, cutoff time.Time) error
}

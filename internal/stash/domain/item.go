package domain

import "time"

// ItemStatus enumerates the lifecycle states of an item.
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusArchived ItemStatus = "archived"

	// ItemStatusDeleted is the soft-deleted state. Deleted items are
	// invisible to the API; housekeeping purges them later.
	ItemStatusDeleted ItemStatus = "deleted"
)

// ValidItemStatus reports whether s is a status a client may set.
// Deletion goes through the delete operation, not a status update.
func ValidItemStatus(s ItemStatus) bool {
	return s == ItemStatusActive || s == ItemStatusArchived
}

// Item is a user-owned record. OwnerID is set at creation and immutable
// thereafter.
type Item struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Status      ItemStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package service

import (
	"context"
	"strings"

	"github.com/oakmount/stash/internal/stash/domain"
	"github.com/oakmount/stash/internal/stash/store"
	"github.com/oakmount/stash/pkg/idx"
	"github.com/oakmount/stash/pkg/slogx"
)

const maxTitleLength = 200

// ItemService is the ownership-scoped CRUD layer over items. Every
// operation takes the authenticated owner ID; a cross-tenant access is
// indistinguishable from a missing record.
type ItemService struct {
	Store store.Store
}

// ItemPatch is a partial update. Nil fields keep their current value.
type ItemPatch struct {
	Title       *string
	Description *string
	Status      *domain.ItemStatus
}

// List returns the owner's items, newest first. Never nil.
func (s *ItemService) List(ctx context.Context, ownerID string) ([]domain.Item, error) {
	return s.Store.Items().ListItemsByOwner(ctx, ownerID)
}

// Get returns one owned item or store.ErrNotFound.
func (s *ItemService) Get(ctx context.Context, ownerID, itemID string) (domain.Item, error) {
	return s.Store.Items().GetItemForOwner(ctx, ownerID, itemID)
}

// Create persists a new item. The owner is forced to the authenticated
// identity; anything the client claims about ownership is ignored upstream.
func (s *ItemService) Create(ctx context.Context, ownerID, title, description string) (domain.Item, error) {
	log := slogx.FromContext(ctx)

	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return domain.Item{}, err
	}

	it := domain.Item{
		ID:          idx.New().String(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      domain.ItemStatusActive,
	}

	if err := s.Store.Items().CreateItem(ctx, it); err != nil {
		return domain.Item{}, err
	}

	log.Info("item created", "item_id", it.ID, "owner_id", ownerID)
	return s.Store.Items().GetItemForOwner(ctx, ownerID, it.ID)
}

// Update applies a partial patch onto an owned item. Ownership is
// re-checked inside the transaction before any field changes.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID string, patch ItemPatch) (domain.Item, error) {
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if err := validateTitle(trimmed); err != nil {
			return domain.Item{}, err
		}
		patch.Title = &trimmed
	}
	if patch.Status != nil && !domain.ValidItemStatus(*patch.Status) {
		return domain.Item{}, &ValidationError{
			Field:  "status",
			Reason: `must be "active" or "archived"`,
		}
	}

	var updated domain.Item
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Items().GetItemForOwner(ctx, ownerID, itemID)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			current.Title = *patch.Title
		}
		if patch.Description != nil {
			current.Description = *patch.Description
		}
		if patch.Status != nil {
			current.Status = *patch.Status
		}

		if err := tx.Items().UpdateItem(ctx, current); err != nil {
			return err
		}

		updated, err = tx.Items().GetItemForOwner(ctx, ownerID, itemID)
		return err
	})
	if err != nil {
		return domain.Item{}, err
	}
	return updated, nil
}

// Delete soft-deletes an owned item or returns store.ErrNotFound.
func (s *ItemService) Delete(ctx context.Context, ownerID, itemID string) error {
	log := slogx.FromContext(ctx)

	if err := s.Store.Items().SoftDeleteItem(ctx, ownerID, itemID); err != nil {
		return err
	}

	log.Info("item deleted", "item_id", itemID, "owner_id", ownerID)
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if len(title) > maxTitleLength {
		return &ValidationError{Field: "title", Reason: "too long"}
	}
	return nil
}

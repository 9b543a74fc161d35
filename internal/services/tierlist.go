package services

import (
	"context"
	"fmt"
	"strings"

	"tierlist-client/internal/models"
	"tierlist-client/internal/tierrank"

	"github.com/rs/zerolog/log"
)

// Direction is the way an item is moved between tiers.
type Direction string

const (
	MoveUp   Direction = "up"
	MoveDown Direction = "down"
)

// TierlistService handles tierlist and item operations against the
// remote API.
type TierlistService struct {
	gateway Gateway
}

// NewTierlistService creates a new tierlist service.
func NewTierlistService(gateway Gateway) *TierlistService {
	return &TierlistService{gateway: gateway}
}

// Create creates a tierlist owned by ownerID. An empty or
// whitespace-only name is rejected before any network call.
func (s *TierlistService) Create(ctx context.Context, ownerID int64, name, description string, isPublic bool) (*models.Tierlist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	body := models.TierlistCreate{
		Name:        name,
		Description: description,
		IsPublic:    isPublic,
	}

	var created models.Tierlist
	if err := s.gateway.Post(ctx, fmt.Sprintf("/api/tiers/user/%d", ownerID), body, &created); err != nil {
		return nil, fmt.Errorf("failed to create tierlist: %w", err)
	}

	log.Info().
		Int64("tierlist_id", created.ID).
		Str("name", created.Name).
		Msg("Tierlist created")

	return &created, nil
}

// Update applies a partial update. Only non-nil patch fields change;
// ownership is not patchable.
func (s *TierlistService) Update(ctx context.Context, id int64, patch models.TierlistPatch) (*models.Tierlist, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, ErrEmptyName
	}

	var updated models.Tierlist
	if err := s.gateway.Patch(ctx, fmt.Sprintf("/api/tiers/%d", id), patch, &updated); err != nil {
		return nil, fmt.Errorf("failed to update tierlist %d: %w", id, err)
	}
	return &updated, nil
}

// Get fetches one tierlist by id.
func (s *TierlistService) Get(ctx context.Context, id int64) (*models.Tierlist, error) {
	var tl models.Tierlist
	if err := s.gateway.Get(ctx, fmt.Sprintf("/api/tiers/%d", id), &tl); err != nil {
		return nil, fmt.Errorf("failed to get tierlist %d: %w", id, err)
	}
	return &tl, nil
}

// Items fetches the items of a tierlist.
func (s *TierlistService) Items(ctx context.Context, id int64) ([]models.Item, error) {
	var items []models.Item
	if err := s.gateway.Get(ctx, fmt.Sprintf("/api/tiers/%d/items", id), &items); err != nil {
		return nil, fmt.Errorf("failed to get items of tierlist %d: %w", id, err)
	}
	return items, nil
}

// ByUser fetches all tierlists owned by a user.
func (s *TierlistService) ByUser(ctx context.Context, userID int64) ([]models.Tierlist, error) {
	var lists []models.Tierlist
	if err := s.gateway.Get(ctx, fmt.Sprintf("/api/tiers/user/%d", userID), &lists); err != nil {
		return nil, fmt.Errorf("failed to get tierlists of user %d: %w", userID, err)
	}
	return lists, nil
}

// Public fetches all publicly visible tierlists.
func (s *TierlistService) Public(ctx context.Context) ([]models.Tierlist, error) {
	var lists []models.Tierlist
	if err := s.gateway.Get(ctx, "/api/tiers/public", &lists); err != nil {
		return nil, fmt.Errorf("failed to get public tierlists: %w", err)
	}
	return lists, nil
}

// Delete removes a tierlist and all of its items. The store has no
// cascading delete, so items are removed one by one first; if any item
// delete fails the sequence halts with a *PartialDeleteError and the
// tierlist itself is not deleted.
func (s *TierlistService) Delete(ctx context.Context, id int64) error {
	items, err := s.Items(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to enumerate items before delete: %w", err)
	}

	for i, item := range items {
		if err := s.DeleteItem(ctx, item.ID); err != nil {
			return &PartialDeleteError{
				TierlistID:   id,
				FailedItemID: item.ID,
				Deleted:      i,
				Remaining:    len(items) - i,
				Err:          err,
			}
		}
	}

	if err := s.gateway.Delete(ctx, fmt.Sprintf("/api/tiers/%d", id)); err != nil {
		return fmt.Errorf("failed to delete tierlist %d: %w", id, err)
	}

	log.Info().
		Int64("tierlist_id", id).
		Int("items_deleted", len(items)).
		Msg("Tierlist deleted")

	return nil
}

// AddItem adds a named item to a tierlist at the given rank.
func (s *TierlistService) AddItem(ctx context.Context, tierlistID int64, rank tierrank.Rank, name string) (*models.Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if !rank.Valid() {
		return nil, ErrInvalidRank
	}

	body := models.ItemCreate{
		Name:       name,
		Rank:       int(rank),
		TierlistID: tierlistID,
	}

	var created models.Item
	if err := s.gateway.Post(ctx, "/api/items", body, &created); err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	return &created, nil
}

// DeleteItem removes a single item.
func (s *TierlistService) DeleteItem(ctx context.Context, itemID int64) error {
	if err := s.gateway.Delete(ctx, fmt.Sprintf("/api/items/%d", itemID)); err != nil {
		return fmt.Errorf("failed to delete item %d: %w", itemID, err)
	}
	return nil
}

// MoveItem moves an item one tier up or down, clamped at the bounds.
// A move that is already at its boundary returns the unchanged rank
// without issuing a network call.
func (s *TierlistService) MoveItem(ctx context.Context, item models.Item, dir Direction) (tierrank.Rank, error) {
	current := tierrank.Rank(item.Rank)

	var target tierrank.Rank
	switch dir {
	case MoveUp:
		target = current.Up()
	case MoveDown:
		target = current.Down()
	default:
		return current, fmt.Errorf("unknown move direction %q", dir)
	}

	if target == current {
		return current, nil
	}

	var updated models.Item
	if err := s.gateway.Put(ctx, fmt.Sprintf("/api/items/%d/rank/%d", item.ID, target), &updated); err != nil {
		return current, fmt.Errorf("failed to move item %d: %w", item.ID, err)
	}
	return tierrank.Rank(updated.Rank), nil
}

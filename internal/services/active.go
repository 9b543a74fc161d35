package services

import (
	"context"
	"errors"
	"fmt"

	"tierlist-client/internal/api"
	"tierlist-client/internal/models"

	"github.com/rs/zerolog/log"
)

// State is a screen's view of one tierlist's active-ness. Every screen
// mount starts at StateUnknown; only reconciler results move it.
type State int

const (
	StateUnknown State = iota
	StateInactive
	StateActive
	StateActiveDetailsUnavailable
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActive:
		return "active"
	case StateActiveDetailsUnavailable:
		return "active (details unavailable)"
	}
	return "unknown"
}

// ActiveService reconciles the per-user active-tierlist marker. The
// server enforces the at-most-one invariant; the client only reads the
// marker and routes activation through the dedicated endpoint.
type ActiveService struct {
	gateway   Gateway
	tierlists *TierlistService
}

// NewActiveService creates a new active-tierlist service.
func NewActiveService(gateway Gateway, tierlists *TierlistService) *ActiveService {
	return &ActiveService{
		gateway:   gateway,
		tierlists: tierlists,
	}
}

// Get resolves the user's active tierlist in two steps: fetch the
// marker, then fetch the tierlist it points at. No marker returns
// (nil, nil). A marker that resolves but whose tierlist fetch fails
// returns a *DetailsUnavailableError so the two cases stay distinct.
func (s *ActiveService) Get(ctx context.Context, userID int64) (*models.Tierlist, error) {
	var marker models.ActiveTier
	err := s.gateway.Get(ctx, fmt.Sprintf("/api/users/%d/activetier", userID), &marker)
	if err != nil {
		if api.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active marker: %w", err)
	}
	if marker.TierlistID == 0 {
		return nil, nil
	}

	tl, err := s.tierlists.Get(ctx, marker.TierlistID)
	if err != nil {
		return nil, &DetailsUnavailableError{TierlistID: marker.TierlistID, Err: err}
	}
	return tl, nil
}

// Set marks a tierlist as the user's active one and re-fetches to
// confirm. Superseding any previous active tierlist is the server's
// contract; the client never unsets locally.
func (s *ActiveService) Set(ctx context.Context, userID, tierlistID int64) (*models.Tierlist, error) {
	if err := s.gateway.Put(ctx, fmt.Sprintf("/api/users/%d/activetier/%d", userID, tierlistID), nil); err != nil {
		return nil, fmt.Errorf("failed to set active tierlist: %w", err)
	}

	log.Info().
		Int64("user_id", userID).
		Int64("tierlist_id", tierlistID).
		Msg("Active tierlist set")

	active, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return active, nil
}

// StateOf derives the active-ness state of one tierlist from a
// reconciler read result.
func StateOf(tierlistID int64, active *models.Tierlist, err error) State {
	if err != nil {
		var unavailable *DetailsUnavailableError
		if errors.As(err, &unavailable) && unavailable.TierlistID == tierlistID {
			return StateActiveDetailsUnavailable
		}
		return StateUnknown
	}
	if active != nil && active.ID == tierlistID {
		return StateActive
	}
	return StateInactive
}

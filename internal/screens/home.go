package screens

import (
	"context"
	"errors"
	"sync"

	"tierlist-client/internal/models"
	"tierlist-client/internal/services"

	"github.com/rs/zerolog/log"
)

// HomeRow is one tierlist of the signed-in user together with its
// active-ness as far as this screen knows it.
type HomeRow struct {
	Tierlist models.Tierlist
	State    services.State
}

// HomeScreen shows the user's tierlists and which one is active.
type HomeScreen struct {
	Screen

	tierlists *services.TierlistService
	active    *services.ActiveService
	userID    int64

	Rows    []HomeRow
	Active  *models.Tierlist
	Loading bool
	Err     error

	// ActiveErr holds a failed active-marker read. The tierlists are
	// still shown; only their active-ness is unknown.
	ActiveErr error
}

// NewHomeScreen constructs and mounts the home screen.
func NewHomeScreen(tierlists *services.TierlistService, active *services.ActiveService, userID int64) *HomeScreen {
	h := &HomeScreen{
		tierlists: tierlists,
		active:    active,
		userID:    userID,
	}
	h.Mount()
	return h
}

// Load fetches the user's tierlists and the active marker. The two
// reads are independent, so they run concurrently; each result lands
// through the mount guard.
func (h *HomeScreen) Load(ctx context.Context) {
	guard := h.Guard()
	guard.Apply(func() {
		h.Loading = true
		h.Err = nil
		h.ActiveErr = nil
	})

	var (
		wg        sync.WaitGroup
		lists     []models.Tierlist
		listsErr  error
		active    *models.Tierlist
		activeErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		lists, listsErr = h.tierlists.ByUser(ctx, h.userID)
	}()
	go func() {
		defer wg.Done()
		active, activeErr = h.active.Get(ctx, h.userID)
	}()
	wg.Wait()

	applied := guard.Apply(func() {
		h.Loading = false
		if listsErr != nil {
			h.Err = listsErr
			return
		}

		h.Active = active
		// A details-unavailable failure still names the active tierlist,
		// so it shows up per row. Anything else leaves active-ness
		// unknown across the board.
		var unavailable *services.DetailsUnavailableError
		if activeErr != nil && !errors.As(activeErr, &unavailable) {
			h.ActiveErr = activeErr
		}
		h.Rows = make([]HomeRow, 0, len(lists))
		for _, tl := range lists {
			h.Rows = append(h.Rows, HomeRow{
				Tierlist: tl,
				State:    services.StateOf(tl.ID, active, activeErr),
			})
		}
	})
	if !applied {
		log.Debug().Msg("Discarded stale home screen result")
	}
}

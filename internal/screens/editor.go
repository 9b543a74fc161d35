package screens

import (
	"context"
	"errors"

	"tierlist-client/internal/models"
	"tierlist-client/internal/services"
	"tierlist-client/internal/tierrank"

	"github.com/rs/zerolog/log"
)

// EditorScreen shows one tierlist bucketed into its seven tiers and
// applies add/move/delete edits. Every successful write refetches the
// items rather than patching local state; the server's copy is the only
// source of truth.
type EditorScreen struct {
	Screen

	tierlists *services.TierlistService
	scheme    tierrank.Scheme

	Tierlist *models.Tierlist
	Items    []models.Item
	Buckets  map[tierrank.Rank][]models.Item
	Counts   map[string]int
	Loading  bool
	Err      error

	// busy suppresses duplicate submissions while a write is in
	// flight; the client offers no idempotency beyond this.
	busy bool
}

// NewEditorScreen constructs and mounts an editor for one tierlist.
func NewEditorScreen(tierlists *services.TierlistService, scheme tierrank.Scheme) *EditorScreen {
	e := &EditorScreen{
		tierlists: tierlists,
		scheme:    scheme,
	}
	e.Mount()
	return e
}

// Load fetches the tierlist and its items.
func (e *EditorScreen) Load(ctx context.Context, tierlistID int64) {
	guard := e.Guard()
	guard.Apply(func() {
		e.Loading = true
		e.Err = nil
	})

	tl, err := e.tierlists.Get(ctx, tierlistID)
	var items []models.Item
	if err == nil {
		items, err = e.tierlists.Items(ctx, tierlistID)
	}

	guard.Apply(func() {
		e.Loading = false
		if err != nil {
			e.Err = err
			return
		}
		e.Tierlist = tl
		e.setItems(items)
	})
}

// AddItem adds an item at the given rank and refetches.
func (e *EditorScreen) AddItem(ctx context.Context, rank tierrank.Rank, name string) error {
	return e.write(ctx, func() error {
		_, err := e.tierlists.AddItem(ctx, e.Tierlist.ID, rank, name)
		return err
	})
}

// MoveItem moves an item one tier and refetches. Boundary moves are
// no-ops inside the service and cause no refetch.
func (e *EditorScreen) MoveItem(ctx context.Context, item models.Item, dir services.Direction) error {
	current := tierrank.Rank(item.Rank)
	return e.write(ctx, func() error {
		rank, err := e.tierlists.MoveItem(ctx, item, dir)
		if err == nil && rank == current {
			return errNoChange
		}
		return err
	})
}

// RemoveItem deletes an item and refetches.
func (e *EditorScreen) RemoveItem(ctx context.Context, itemID int64) error {
	return e.write(ctx, func() error {
		return e.tierlists.DeleteItem(ctx, itemID)
	})
}

// errNoChange marks a write that turned out to be a no-op; the refetch
// is skipped because nothing server-side changed.
var errNoChange = errors.New("no change")

// write runs one edit under the busy flag, then refetches the items.
// A write arriving while another is in flight (a double-tap) is
// dropped.
func (e *EditorScreen) write(ctx context.Context, op func() error) error {
	guard := e.Guard()

	start := false
	guard.Apply(func() {
		if !e.busy && e.Tierlist != nil {
			e.busy = true
			start = true
		}
	})
	if !start {
		return nil
	}
	defer guard.Apply(func() { e.busy = false })

	if err := op(); err != nil {
		if errors.Is(err, errNoChange) {
			return nil
		}
		guard.Apply(func() { e.Err = err })
		return err
	}

	items, err := e.tierlists.Items(ctx, e.Tierlist.ID)
	applied := guard.Apply(func() {
		if err != nil {
			e.Err = err
			return
		}
		e.Err = nil
		e.setItems(items)
	})
	if !applied {
		log.Debug().Msg("Discarded stale editor refetch")
	}
	return err
}

// Busy reports whether a write is in flight; the caller disables the
// triggering control while true.
func (e *EditorScreen) Busy() bool {
	guard := e.Guard()
	busy := false
	guard.Apply(func() { busy = e.busy })
	return busy
}

func (e *EditorScreen) setItems(items []models.Item) {
	e.Items = items
	e.Buckets = tierrank.BucketByRank(items)
	e.Counts = tierrank.CountPerLabel(items, e.scheme)
}

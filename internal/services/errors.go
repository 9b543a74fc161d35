package services

import (
	"errors"
	"fmt"
)

// Validation errors detected client-side; these never reach the network.
var (
	ErrEmptyName        = errors.New("name must not be empty")
	ErrInvalidRank      = errors.New("rank must be between 1 and 7")
	ErrEmptyPassword    = errors.New("password must not be empty")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// PartialDeleteError reports a fan-out delete that halted partway: some
// items were removed, the failing one and everything after it remain,
// and the parent tierlist was deliberately left in place.
type PartialDeleteError struct {
	TierlistID   int64
	FailedItemID int64
	Deleted      int
	Remaining    int
	Err          error
}

func (e *PartialDeleteError) Error() string {
	return fmt.Sprintf("tierlist %d not deleted: removing item %d failed after %d of %d items (%d left): %v",
		e.TierlistID, e.FailedItemID, e.Deleted, e.Deleted+e.Remaining, e.Remaining, e.Err)
}

func (e *PartialDeleteError) Unwrap() error {
	return e.Err
}

// DetailsUnavailableError reports an active-tierlist read where the
// marker resolved to an id but fetching that tierlist failed. Distinct
// from "no active tierlist" so the UI can show a degraded state instead
// of pretending nothing is active.
type DetailsUnavailableError struct {
	TierlistID int64
	Err        error
}

func (e *DetailsUnavailableError) Error() string {
	return fmt.Sprintf("active tierlist %d known but details unavailable: %v", e.TierlistID, e.Err)
}

func (e *DetailsUnavailableError) Unwrap() error {
	return e.Err
}

package screens

import (
	"context"

	"tierlist-client/internal/models"
	"tierlist-client/internal/services"
)

// PublicScreen shows the publicly visible tierlists of all users.
type PublicScreen struct {
	Screen

	tierlists *services.TierlistService

	Lists   []models.Tierlist
	Loading bool
	Err     error
}

// NewPublicScreen constructs and mounts the public browsing screen.
func NewPublicScreen(tierlists *services.TierlistService) *PublicScreen {
	p := &PublicScreen{tierlists: tierlists}
	p.Mount()
	return p
}

// Load fetches the public listing.
func (p *PublicScreen) Load(ctx context.Context) {
	guard := p.Guard()
	guard.Apply(func() {
		p.Loading = true
		p.Err = nil
	})

	lists, err := p.tierlists.Public(ctx)

	guard.Apply(func() {
		p.Loading = false
		if err != nil {
			p.Err = err
			return
		}
		p.Lists = lists
	})
}

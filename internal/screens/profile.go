package screens

import (
	"context"

	"tierlist-client/internal/models"
	"tierlist-client/internal/services"
)

// ProfileScreen shows the signed-in user's profile and applies
// self-service edits.
type ProfileScreen struct {
	Screen

	users *services.UserService

	User    *models.User
	Loading bool
	Err     error
}

// NewProfileScreen constructs and mounts the profile screen.
func NewProfileScreen(users *services.UserService) *ProfileScreen {
	p := &ProfileScreen{users: users}
	p.Mount()
	return p
}

// Load fetches the current user.
func (p *ProfileScreen) Load(ctx context.Context) {
	guard := p.Guard()
	guard.Apply(func() {
		p.Loading = true
		p.Err = nil
	})

	user, err := p.users.Current(ctx)

	guard.Apply(func() {
		p.Loading = false
		if err != nil {
			p.Err = err
			return
		}
		p.User = user
	})
}

// Update patches the profile and refetches it.
func (p *ProfileScreen) Update(ctx context.Context, patch models.UserPatch) error {
	guard := p.Guard()

	var id int64
	ok := guard.Apply(func() {
		if p.User != nil {
			id = p.User.ID
		}
	})
	if !ok || id == 0 {
		return nil
	}

	updated, err := p.users.Update(ctx, id, patch)
	guard.Apply(func() {
		if err != nil {
			p.Err = err
			return
		}
		p.Err = nil
		p.User = updated
	})
	return err
}

package services

import (
	"context"
	"fmt"
	"strings"

	"tierlist-client/internal/models"

	"github.com/rs/zerolog/log"
)

// SessionClearer is the slice of the session store the user service
// needs after an account deletion.
type SessionClearer interface {
	Clear() error
}

// UserService handles user self-service operations.
type UserService struct {
	gateway Gateway
	session SessionClearer
}

// NewUserService creates a new user service.
func NewUserService(gateway Gateway, session SessionClearer) *UserService {
	return &UserService{
		gateway: gateway,
		session: session,
	}
}

// Current fetches the user the stored credential belongs to.
func (s *UserService) Current(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.gateway.Get(ctx, "/api/users/current", &user); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return &user, nil
}

// Update applies a partial update to the user's own profile.
func (s *UserService) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	if patch.Username != nil && strings.TrimSpace(*patch.Username) == "" {
		return nil, ErrEmptyName
	}

	var updated models.User
	if err := s.gateway.Patch(ctx, fmt.Sprintf("/api/users/%d", id), patch, &updated); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return &updated, nil
}

// ChangePassword sets a new password. The empty and mismatch checks are
// client-side validation and never reach the network.
func (s *UserService) ChangePassword(ctx context.Context, id int64, password, confirm string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	body := models.PasswordChange{Password: password}
	if err := s.gateway.Patch(ctx, fmt.Sprintf("/api/users/%d/password", id), body, nil); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// DeleteAccount removes the user server-side and clears the local
// session.
func (s *UserService) DeleteAccount(ctx context.Context, id int64) error {
	if err := s.gateway.Delete(ctx, fmt.Sprintf("/api/users/%d", id)); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if err := s.session.Clear(); err != nil {
		log.Error().Err(err).Msg("Failed to clear session after account deletion")
	}

	log.Info().Int64("user_id", id).Msg("Account deleted")
	return nil
}

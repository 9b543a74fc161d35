package cmd

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"tierlist-client/internal/api"
	"tierlist-client/internal/services"

	"github.com/stretchr/testify/assert"
)

func renderedError(err error) string {
	var buf strings.Builder
	renderErrorTo(&buf, err)
	return buf.String()
}

func TestRenderSessionExpired(t *testing.T) {
	out := renderedError(fmt.Errorf("failed to get current user: %w", api.ErrSessionExpired))
	assert.Contains(t, out, "Session expired")
	assert.Contains(t, out, "login")
}

func TestRenderPartialDeleteWrappingServerResponse(t *testing.T) {
	// The exact shape a halted fan-out delete produces: the partial
	// error wraps the failing item's server response.
	err := &services.PartialDeleteError{
		TierlistID:   10,
		FailedItemID: 3,
		Deleted:      1,
		Remaining:    2,
		Err: fmt.Errorf("failed to delete item 3: %w",
			&api.APIError{Status: http.StatusInternalServerError}),
	}

	out := renderedError(err)
	assert.Contains(t, out, "Delete stopped partway")
	assert.Contains(t, out, "1 item(s) removed")
	assert.Contains(t, out, "2 left")
	assert.NotContains(t, out, "Please try again",
		"a halted delete must not render as a generic rejected request")
}

func TestRenderRejectedRequest(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusBadRequest, "The server rejected the request data."},
		{http.StatusForbidden, "You are not authorized to do that."},
		{http.StatusNotFound, "That record was not found."},
		{http.StatusBadGateway, "The request failed. Please try again."},
	}

	for _, tt := range tests {
		err := fmt.Errorf("failed to get tierlist 5: %w", &api.APIError{Status: tt.status})
		assert.Contains(t, renderedError(err), tt.want, "status %d", tt.status)
	}
}

func TestRenderGenericError(t *testing.T) {
	out := renderedError(fmt.Errorf("request to /api/tiers/public failed: connection refused"))
	assert.Contains(t, out, "Error: ")
	assert.Contains(t, out, "connection refused")
}

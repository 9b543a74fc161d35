package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession is an in-memory stand-in for the sqlite session store.
type fakeSession struct {
	mu    sync.Mutex
	token string
}

func (f *fakeSession) Credential() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.token != ""
}

func (f *fakeSession) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) (*Client, *fakeSession) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	sess := &fakeSession{token: token}
	return NewClient(server.URL, sess, 5*time.Second), sess
}

func TestBearerHeaderAttachedWhenCredentialPresent(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}, "tok-123")

	_, err := client.Do(context.Background(), http.MethodGet, "/api/users/current", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestNoHeaderWithoutCredential(t *testing.T) {
	var gotAuth string
	hasHeader := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasHeader = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}, "")

	_, err := client.Do(context.Background(), http.MethodGet, "/api/tiers/public", nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.False(t, hasHeader)
}

func TestUnauthorizedClearsSession(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "stale-token")

	_, err := client.Do(context.Background(), http.MethodGet, "/api/users/current", nil)
	require.ErrorIs(t, err, ErrSessionExpired)

	_, ok := sess.Credential()
	assert.False(t, ok, "credential must be cleared after a 401")
}

func TestNoAuthenticatedCallsAfterExpiry(t *testing.T) {
	calls := 0
	var secondAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		secondAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}, "stale-token")

	_, err := client.Do(context.Background(), http.MethodGet, "/api/users/current", nil)
	require.ErrorIs(t, err, ErrSessionExpired)

	// The cleared session means the next call goes out unauthenticated.
	_, err = client.Do(context.Background(), http.MethodGet, "/api/tiers/public", nil)
	require.NoError(t, err)
	assert.Empty(t, secondAuth)
}

func TestNoContentIsSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, "tok")

	err := client.Delete(context.Background(), "/api/items/5")
	assert.NoError(t, err)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		status  int
		message string
	}{
		{http.StatusBadRequest, "The server rejected the request data."},
		{http.StatusForbidden, "You are not authorized to do that."},
		{http.StatusNotFound, "That record was not found."},
		{http.StatusTeapot, "The request failed. Please try again."},
	}

	for _, tt := range tests {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"error":"nope"}`))
		}, "tok")

		_, err := client.Do(context.Background(), http.MethodGet, "/api/tiers/1", nil)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr, "status %d", tt.status)
		assert.Equal(t, tt.status, apiErr.Status)
		assert.Equal(t, tt.message, apiErr.Message())
	}
}

func TestDecodeIntoOut(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 12, "name": "My Rankings"}`))
	}, "tok")

	var out struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, client.Get(context.Background(), "/api/tiers/12", &out))
	assert.Equal(t, int64(12), out.ID)
	assert.Equal(t, "My Rankings", out.Name)
}

func TestTransportFailureIsGeneric(t *testing.T) {
	sess := &fakeSession{token: "tok"}
	client := NewClient("http://127.0.0.1:1", sess, 500*time.Millisecond)

	_, err := client.Do(context.Background(), http.MethodGet, "/api/tiers/public", nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSessionExpired))
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))

	// A transport failure must not clear the stored session.
	_, ok := sess.Credential()
	assert.True(t, ok)
}

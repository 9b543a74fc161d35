package screens_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"tierlist-client/internal/api"
	"tierlist-client/internal/apitest"
	"tierlist-client/internal/models"
	"tierlist-client/internal/screens"
	"tierlist-client/internal/services"
	"tierlist-client/internal/tierrank"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

type env struct {
	server    *apitest.Server
	user      *models.User
	tierlists *services.TierlistService
	users     *services.UserService
	active    *services.ActiveService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	server := apitest.NewServer()
	t.Cleanup(server.Close)

	user := server.SeedUser("ranker")
	sess := &fakeSession{token: server.Token(user.ID)}
	gateway := api.NewClient(server.URL(), sess, 5*time.Second)
	tierlists := services.NewTierlistService(gateway)

	return &env{
		server:    server,
		user:      user,
		tierlists: tierlists,
		users:     services.NewUserService(gateway, sess),
		active:    services.NewActiveService(gateway, tierlists),
	}
}

func TestGuardDiscardsResultsFromPreviousMount(t *testing.T) {
	var s screens.Screen
	s.Mount()
	stale := s.Guard()

	// A remount supersedes every previously issued guard.
	s.Mount()
	fresh := s.Guard()

	ran := stale.Apply(func() { t.Fatal("stale result must not apply") })
	assert.False(t, ran)
	assert.True(t, fresh.Apply(func() {}))

	// After unmount nothing applies.
	s.Unmount()
	assert.False(t, fresh.Apply(func() {}))
}

func TestHomeScreenLoadsListsAndActiveness(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first := e.server.SeedTierlist(e.user.ID, "first", false)
	second := e.server.SeedTierlist(e.user.ID, "second", true)
	_, err := e.active.Set(ctx, e.user.ID, second.ID)
	require.NoError(t, err)

	home := screens.NewHomeScreen(e.tierlists, e.active, e.user.ID)
	home.Load(ctx)

	require.NoError(t, home.Err)
	assert.False(t, home.Loading)
	require.Len(t, home.Rows, 2)
	assert.Equal(t, first.ID, home.Rows[0].Tierlist.ID)
	assert.Equal(t, services.StateInactive, home.Rows[0].State)
	assert.Equal(t, services.StateActive, home.Rows[1].State)
	require.NotNil(t, home.Active)
	assert.Equal(t, second.ID, home.Active.ID)
}

func TestHomeScreenDegradedActiveState(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tl := e.server.SeedTierlist(e.user.ID, "flaky", false)
	_, err := e.active.Set(ctx, e.user.ID, tl.ID)
	require.NoError(t, err)
	e.server.FailTierlistGet(tl.ID)

	home := screens.NewHomeScreen(e.tierlists, e.active, e.user.ID)
	home.Load(ctx)

	require.NoError(t, home.Err, "a degraded active read must not fail the whole screen")
	require.Len(t, home.Rows, 1)
	assert.Equal(t, services.StateActiveDetailsUnavailable, home.Rows[0].State)
	assert.Nil(t, home.Active)
	assert.NoError(t, home.ActiveErr, "a degraded read is reported per row, not screen-wide")
}

func TestHomeScreenSurfacesActiveMarkerFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first := e.server.SeedTierlist(e.user.ID, "first", false)
	e.server.SeedTierlist(e.user.ID, "second", true)
	e.server.FailActiveGet(e.user.ID)

	home := screens.NewHomeScreen(e.tierlists, e.active, e.user.ID)
	home.Load(ctx)

	require.NoError(t, home.Err, "the lists still loaded, so the screen is not in error")
	require.Len(t, home.Rows, 2)
	assert.Equal(t, first.ID, home.Rows[0].Tierlist.ID)
	assert.Equal(t, services.StateUnknown, home.Rows[0].State)
	assert.Equal(t, services.StateUnknown, home.Rows[1].State)
	assert.Error(t, home.ActiveErr)
	assert.Nil(t, home.Active)
}

func TestEditorScreenBucketsAndWrites(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tl := e.server.SeedTierlist(e.user.ID, "edit me", false)
	e.server.SeedItem(tl.ID, "keeper", 1)
	moved := e.server.SeedItem(tl.ID, "mover", 3)

	editor := screens.NewEditorScreen(e.tierlists, tierrank.SchemeSPlus)
	editor.Load(ctx, tl.ID)
	require.NoError(t, editor.Err)
	require.NotNil(t, editor.Tierlist)
	assert.Len(t, editor.Buckets[tierrank.Rank(1)], 1)
	assert.Equal(t, 1, editor.Counts["A"])

	// An add lands in its bucket after the refetch.
	require.NoError(t, editor.AddItem(ctx, 5, "newcomer"))
	assert.Len(t, editor.Buckets[tierrank.Rank(5)], 1)

	// A move re-buckets.
	require.NoError(t, editor.MoveItem(ctx, *moved, services.MoveUp))
	assert.Empty(t, editor.Buckets[tierrank.Rank(3)])
	assert.Len(t, editor.Buckets[tierrank.Rank(2)], 1)
	assert.Equal(t, 1, editor.Counts["S"])
}

func TestEditorBoundaryMoveSkipsNetworkAndRefetch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tl := e.server.SeedTierlist(e.user.ID, "clamped", false)
	top := e.server.SeedItem(tl.ID, "top", 1)

	editor := screens.NewEditorScreen(e.tierlists, tierrank.SchemeSPlus)
	editor.Load(ctx, tl.ID)
	require.NoError(t, editor.Err)
	e.server.ResetCalls()

	require.NoError(t, editor.MoveItem(ctx, *top, services.MoveUp))
	assert.Empty(t, e.server.Calls(), "boundary move must not touch the network")
}

func TestPublicScreen(t *testing.T) {
	e := newEnv(t)
	e.server.SeedTierlist(e.user.ID, "hidden", false)
	pub := e.server.SeedTierlist(e.user.ID, "visible", true)

	browse := screens.NewPublicScreen(e.tierlists)
	browse.Load(context.Background())

	require.NoError(t, browse.Err)
	require.Len(t, browse.Lists, 1)
	assert.Equal(t, pub.ID, browse.Lists[0].ID)
}

func TestProfileScreenUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	profile := screens.NewProfileScreen(e.users)
	profile.Load(ctx)
	require.NoError(t, profile.Err)
	require.NotNil(t, profile.User)

	username := "renamed"
	require.NoError(t, profile.Update(ctx, models.UserPatch{Username: &username}))
	assert.Equal(t, "renamed", profile.User.Username)
}

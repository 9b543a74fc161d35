package services_test

import (
	"sync"
	"testing"
	"time"

	"tierlist-client/internal/api"
	"tierlist-client/internal/apitest"
	"tierlist-client/internal/models"
	"tierlist-client/internal/services"
)

// fakeSession keeps the credential in memory instead of sqlite.
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

type testEnv struct {
	server    *apitest.Server
	session   *fakeSession
	user      *models.User
	tierlists *services.TierlistService
	users     *services.UserService
	active    *services.ActiveService
}

// newTestEnv starts a fake API with one signed-in user and wires the
// services against it.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	server := apitest.NewServer()
	t.Cleanup(server.Close)

	user := server.SeedUser("ranker")
	sess := &fakeSession{token: server.Token(user.ID)}

	gateway := api.NewClient(server.URL(), sess, 5*time.Second)
	tierlists := services.NewTierlistService(gateway)

	return &testEnv{
		server:    server,
		session:   sess,
		user:      user,
		tierlists: tierlists,
		users:     services.NewUserService(gateway, sess),
		active:    services.NewActiveService(gateway, tierlists),
	}
}

// Package apitest provides an in-process fake of the remote tier-list
// API for tests. It implements every endpoint the client consumes over
// an in-memory store, mints real bearer tokens, records the ordered
// sequence of calls it receives, and can be told to fail specific
// operations so halting behavior is testable.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"tierlist-client/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

const jwtSecret = "apitest-secret"

// Server is the fake remote API.
type Server struct {
	mu sync.Mutex

	users     map[int64]*models.User
	passwords map[int64]string
	tierlists map[int64]*models.Tierlist
	items     map[int64]*models.Item
	active    map[int64]int64
	nextID    int64

	calls            []string
	failItemDeletes  map[int64]bool
	failTierlistGets map[int64]bool
	failActiveGets   map[int64]bool
	expired          bool

	httpServer *httptest.Server
}

// NewServer starts the fake API on a local listener.
func NewServer() *Server {
	s := &Server{
		users:            make(map[int64]*models.User),
		passwords:        make(map[int64]string),
		tierlists:        make(map[int64]*models.Tierlist),
		items:            make(map[int64]*models.Item),
		active:           make(map[int64]int64),
		failItemDeletes:  make(map[int64]bool),
		failTierlistGets: make(map[int64]bool),
		failActiveGets:   make(map[int64]bool),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Route("/api", func(r chi.Router) {
		r.Get("/tiers/public", s.handlePublicTierlists)

		r.Group(func(r chi.Router) {
			r.Use(s.auth)

			r.Get("/users/current", s.handleCurrentUser)
			r.Patch("/users/{id}", s.handlePatchUser)
			r.Patch("/users/{id}/password", s.handlePatchPassword)
			r.Delete("/users/{id}", s.handleDeleteUser)
			r.Get("/users/{id}/activetier", s.handleGetActive)
			r.Put("/users/{id}/activetier/{tierlistID}", s.handleSetActive)

			r.Get("/tiers/user/{id}", s.handleUserTierlists)
			r.Post("/tiers/user/{id}", s.handleCreateTierlist)
			r.Get("/tiers/{id}", s.handleGetTierlist)
			r.Patch("/tiers/{id}", s.handlePatchTierlist)
			r.Delete("/tiers/{id}", s.handleDeleteTierlist)
			r.Get("/tiers/{id}/items", s.handleTierlistItems)

			r.Post("/items", s.handleCreateItem)
			r.Put("/items/{id}/rank/{rank}", s.handleSetItemRank)
			r.Delete("/items/{id}", s.handleDeleteItem)
		})
	})

	s.httpServer = httptest.NewServer(r)
	return s
}

// URL returns the base URL of the fake API.
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Close shuts the fake API down.
func (s *Server) Close() {
	s.httpServer.Close()
}

// Token mints a bearer token the fake API will accept for userID.
func (s *Server) Token(userID int64) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	if err != nil {
		panic(fmt.Sprintf("apitest: failed to sign token: %v", err))
	}
	return token
}

// SeedUser adds a user and returns it.
func (s *Server) SeedUser(username string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u := &models.User{ID: s.nextID, Username: username}
	s.users[u.ID] = u
	return u
}

// SeedTierlist adds a tierlist owned by userID and returns it.
func (s *Server) SeedTierlist(userID int64, name string, isPublic bool) *models.Tierlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	tl := &models.Tierlist{
		ID:        s.nextID,
		Name:      name,
		IsPublic:  isPublic,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	s.tierlists[tl.ID] = tl
	return tl
}

// SeedItem adds an item to a tierlist and returns it.
func (s *Server) SeedItem(tierlistID int64, name string, rank int) *models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	item := &models.Item{ID: s.nextID, Name: name, Rank: rank, TierlistID: tierlistID}
	s.items[item.ID] = item
	return item
}

// Calls returns the ordered method+path log of everything received.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// ResetCalls clears the call log.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// FailItemDelete makes deleting the given item return a 500.
func (s *Server) FailItemDelete(itemID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failItemDeletes[itemID] = true
}

// FailTierlistGet makes fetching the given tierlist return a 500.
func (s *Server) FailTierlistGet(tierlistID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failTierlistGets[tierlistID] = true
}

// FailActiveGet makes reading the given user's active marker return a 500.
func (s *Server) FailActiveGet(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failActiveGets[userID] = true
}

// Expire makes every authenticated call return 401 from now on.
func (s *Server) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = true
}

// ActiveOf returns the active tierlist id recorded for a user.
func (s *Server) ActiveOf(userID int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.active[userID]
	return id, ok
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		expired := s.expired
		s.mu.Unlock()
		if expired {
			respondError(w, http.StatusUnauthorized, "token expired")
			return
		}

		header := r.Header.Get("Authorization")
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "authorization header required")
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) callerID(r *http.Request) int64 {
	header := r.Header.Get("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) != 2 {
		return 0
	}
	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return 0
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0
	}
	return int64(id)
}

func urlID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

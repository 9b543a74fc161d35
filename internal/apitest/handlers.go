package apitest

import (
	"encoding/json"
	"net/http"
	"sort"

	"tierlist-client/internal/models"
)

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[s.callerID(r)]
	if !ok {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handlePatchUser(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var patch models.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = patch.Email
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handlePatchPassword(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var body models.PasswordChange
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	s.passwords[id] = body.Password
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	delete(s.users, id)
	delete(s.passwords, id)
	delete(s.active, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetActive(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failActiveGets[id] {
		respondError(w, http.StatusInternalServerError, "active tier lookup failed")
		return
	}

	tierlistID, ok := s.active[id]
	if !ok {
		respondError(w, http.StatusNotFound, "no active tierlist")
		return
	}
	respondJSON(w, http.StatusOK, models.ActiveTier{UserID: id, TierlistID: tierlistID})
}

func (s *Server) handleSetActive(w http.ResponseWriter, r *http.Request) {
	userID, err := urlID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	tierlistID, err := urlID(r, "tierlistID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tierlist id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tierlists[tierlistID]; !ok {
		respondError(w, http.StatusNotFound, "tierlist not found")
		return
	}
	// Single assignment supersedes any previous active tierlist.
	s.active[userID] = tierlistID
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUserTierlists(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lists := make([]models.Tierlist, 0)
	for _, tl := range s.tierlists {
		if tl.UserID == id {
			lists = append(lists, *tl)
		}
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].ID < lists[j].ID })
	respondJSON(w, http.StatusOK, lists)
}

func (s *Server) handleCreateTierlist(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var body models.TierlistCreate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	tl := &models.Tierlist{
		ID:          s.nextID,
		Name:        body.Name,
		Description: body.Description,
		IsPublic:    body.IsPublic,
		UserID:      id,
	}
	s.tierlists[tl.ID] = tl
	respondJSON(w, http.StatusCreated, tl)
}

func (s *Server) handleGetTierlist(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tierlist id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failTierlistGets[id] {
		respondError(w, http.StatusInternalServerError, "injected failure")
		return
	}
	tl, ok := s.tierlists[id]
	if !ok {
		respondError(w, http.StatusNotFound, "tierlist not found")
		return
	}
	respondJSON(w, http.StatusOK, tl)
}

func (s *Server) handlePatchTierlist(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tierlist id")
		return
	}

	var patch models.TierlistPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tl, ok := s.tierlists[id]
	if !ok {
		respondError(w, http.StatusNotFound, "tierlist not found")
		return
	}
	if patch.Name != nil {
		tl.Name = *patch.Name
	}
	if patch.Description != nil {
		tl.Description = *patch.Description
	}
	if patch.IsPublic != nil {
		tl.IsPublic = *patch.IsPublic
	}
	respondJSON(w, http.StatusOK, tl)
}

func (s *Server) handleDeleteTierlist(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tierlist id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tierlists[id]; !ok {
		respondError(w, http.StatusNotFound, "tierlist not found")
		return
	}
	delete(s.tierlists, id)
	for userID, tid := range s.active {
		if tid == id {
			delete(s.active, userID)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTierlistItems(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tierlist id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.Item, 0)
	for _, item := range s.items {
		if item.TierlistID == id {
			items = append(items, *item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var body models.ItemCreate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if body.Rank < 1 || body.Rank > 7 {
		respondError(w, http.StatusBadRequest, "rank out of range")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tierlists[body.TierlistID]; !ok {
		respondError(w, http.StatusNotFound, "tierlist not found")
		return
	}
	s.nextID++
	item := &models.Item{ID: s.nextID, Name: body.Name, Rank: body.Rank, TierlistID: body.TierlistID}
	s.items[item.ID] = item
	respondJSON(w, http.StatusCreated, item)
}

func (s *Server) handleSetItemRank(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	rank, err := urlID(r, "rank")
	if err != nil || rank < 1 || rank > 7 {
		respondError(w, http.StatusBadRequest, "rank out of range")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		respondError(w, http.StatusNotFound, "item not found")
		return
	}
	item.Rank = int(rank)
	respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failItemDeletes[id] {
		respondError(w, http.StatusInternalServerError, "injected failure")
		return
	}
	if _, ok := s.items[id]; !ok {
		respondError(w, http.StatusNotFound, "item not found")
		return
	}
	delete(s.items, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePublicTierlists(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists := make([]models.Tierlist, 0)
	for _, tl := range s.tierlists {
		if tl.IsPublic {
			lists = append(lists, *tl)
		}
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].ID < lists[j].ID })
	respondJSON(w, http.StatusOK, lists)
}

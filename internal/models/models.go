package models

import "time"

// User represents the authenticated account as returned by the server.
type User struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
	IsAdmin  bool    `json:"isAdmin"`
}

// Tierlist represents a named collection of ranked items owned by one user.
// Items is only populated when the items endpoint has been queried.
type Tierlist struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"isPublic"`
	UserID      int64     `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	Items       []Item    `json:"items,omitempty"`
}

// Item is a single ranked entry inside a tierlist. Rank is always in [1,7].
type Item struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Rank       int    `json:"rank"`
	TierlistID int64  `json:"tierlistId"`
}

// ActiveTier is the per-user marker pointing at the active tierlist.
type ActiveTier struct {
	UserID     int64 `json:"userId"`
	TierlistID int64 `json:"tierlistId"`
}

// TierlistCreate is the request body for creating a tierlist.
type TierlistCreate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsPublic    bool   `json:"isPublic"`
}

// TierlistPatch is the request body for a partial tierlist update.
// Nil fields are omitted and left unchanged by the server.
type TierlistPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
}

// ItemCreate is the request body for adding an item to a tierlist.
type ItemCreate struct {
	Name       string `json:"name"`
	Rank       int    `json:"rank"`
	TierlistID int64  `json:"tierlistId"`
}

// UserPatch is the request body for a partial user update.
type UserPatch struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// PasswordChange is the request body for the password endpoint.
type PasswordChange struct {
	Password string `json:"password"`
}

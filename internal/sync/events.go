package sync

import "time"

const (
	EventSearchAdded     = "search.added"
	EventSearchCleared   = "search.cleared"
	EventWishlistAdded   = "wishlist.added"
	EventWishlistRemoved = "wishlist.removed"
	EventSessionStarted  = "session.started"
	EventSessionCleared  = "session.cleared"
)

// Event tells a profile's other tabs and devices that one of its slots changed.
type Event struct {
	Type      string    `json:"type"`
	ProfileID string    `json:"profile_id"`
	Term      string    `json:"term,omitempty"`
	Title     string    `json:"title,omitempty"`
	Store     string    `json:"store,omitempty"`
	Price     string    `json:"price,omitempty"`
	At        time.Time `json:"at"`
}

// Resolver maps a subscriber's token to its profile id.
type Resolver func(token string) (profileID string, err error)

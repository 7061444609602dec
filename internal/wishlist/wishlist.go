// Package wishlist keeps the user's toggled products in the wishlist slot.
package wishlist

import (
	"context"
	"sync"
	"time"

	"pricecompare/internal/history"
	"pricecompare/internal/localstore"
)

type Wishlist struct {
	list *history.List[Item]
	now  func() time.Time
}

func New(b localstore.Backend, mu sync.Locker) *Wishlist {
	return &Wishlist{
		list: history.NewList(b, localstore.SlotWishlist, Item.SameAs,
			history.WithLocker[Item](mu)),
		now: time.Now,
	}
}

// Toggle adds the item stamped with the current time when no entry shares its
// title and store, and removes every such entry otherwise.
func (w *Wishlist) Toggle(ctx context.Context, it Item) (added bool, err error) {
	it.AddedAt = w.now().UTC()
	return w.list.Toggle(ctx, it)
}

func (w *Wishlist) List(ctx context.Context) []Item {
	return w.list.Items(ctx)
}

func (w *Wishlist) Contains(ctx context.Context, title, store string) bool {
	return w.list.Contains(ctx, Item{Title: title, Store: store})
}

// Import appends items whose (title, store) is not wishlisted yet, keeping their
// own timestamps. Items without one are stamped with the current time.
func (w *Wishlist) Import(ctx context.Context, items []Item) (int, error) {
	now := w.now().UTC()
	batch := make([]Item, 0, len(items))
	for _, it := range items {
		if it.AddedAt.IsZero() {
			it.AddedAt = now
		}
		batch = append(batch, it)
	}
	return w.list.Merge(ctx, batch)
}

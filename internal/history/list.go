// Package history implements ordered, deduplicated, optionally capped lists
// persisted in a localstore slot.
package history

import (
	"context"
	"encoding/json"
	"sync"

	"pricecompare/internal/localstore"
)

// List is a read-modify-write view over one slot holding a JSON array of T.
// Elements that fail to decode, or that Keep rejects, are dropped on read.
type List[T any] struct {
	backend localstore.Backend
	slot    localstore.Slot
	limit   int // 0 means unbounded
	same    func(a, b T) bool
	keep    func(T) bool
	mu      sync.Locker
}

type Option[T any] func(*List[T])

// WithLimit caps the list at n entries; n <= 0 leaves it unbounded.
func WithLimit[T any](n int) Option[T] {
	return func(l *List[T]) { l.limit = n }
}

func WithFilter[T any](keep func(T) bool) Option[T] {
	return func(l *List[T]) { l.keep = keep }
}

// WithLocker serializes mutations through mu, typically one lock per profile
// shared by every List built for it.
func WithLocker[T any](mu sync.Locker) Option[T] {
	return func(l *List[T]) { l.mu = mu }
}

func NewList[T any](b localstore.Backend, slot localstore.Slot, same func(a, b T) bool, opts ...Option[T]) *List[T] {
	l := &List[T]{backend: b, slot: slot, same: same}
	for _, opt := range opts {
		opt(l)
	}
	if l.mu == nil {
		l.mu = &sync.Mutex{}
	}
	return l
}

// Items returns the stored entries, or an empty slice.
func (l *List[T]) Items(ctx context.Context) []T {
	raw := localstore.Read(ctx, l.backend, l.slot, []json.RawMessage{})

	out := make([]T, 0, len(raw))
	for _, elem := range raw {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			continue
		}
		if l.keep != nil && !l.keep(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func (l *List[T]) Contains(ctx context.Context, v T) bool {
	for _, it := range l.Items(ctx) {
		if l.same(it, v) {
			return true
		}
	}
	return false
}

// Promote removes every entry equal to v, puts v first and truncates to the
// limit. Truncation happens after removal, so re-adding an existing entry never
// evicts another one.
func (l *List[T]) Promote(ctx context.Context, v T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := l.Items(ctx)
	out := make([]T, 0, len(items)+1)
	out = append(out, v)
	for _, it := range items {
		if !l.same(it, v) {
			out = append(out, it)
		}
	}
	if l.limit > 0 && len(out) > l.limit {
		out = out[:l.limit]
	}
	return localstore.Write(ctx, l.backend, l.slot, out)
}

// Toggle appends v when no equal entry exists and otherwise removes all equal
// entries. It reports whether v was added. When a limit is set, appending drops
// the oldest entries.
func (l *List[T]) Toggle(ctx context.Context, v T) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := l.Items(ctx)
	kept := make([]T, 0, len(items)+1)
	for _, it := range items {
		if !l.same(it, v) {
			kept = append(kept, it)
		}
	}

	added := len(kept) == len(items)
	if added {
		kept = append(kept, v)
		if l.limit > 0 && len(kept) > l.limit {
			kept = kept[len(kept)-l.limit:]
		}
	}

	if err := localstore.Write(ctx, l.backend, l.slot, kept); err != nil {
		return false, err
	}
	return added, nil
}

func (l *List[T]) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return localstore.Remove(ctx, l.backend, l.slot)
}

// Merge appends every entry of vs that is not already present, in order, and
// reports how many were appended. The limit applies as in Toggle.
func (l *List[T]) Merge(ctx context.Context, vs []T) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := l.Items(ctx)
	added := 0
	for _, v := range vs {
		present := false
		for _, it := range items {
			if l.same(it, v) {
				present = true
				break
			}
		}
		if !present {
			items = append(items, v)
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}
	if l.limit > 0 && len(items) > l.limit {
		items = items[len(items)-l.limit:]
	}
	if err := localstore.Write(ctx, l.backend, l.slot, items); err != nil {
		return 0, err
	}
	return added, nil
}

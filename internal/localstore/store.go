// Package localstore keeps named slots of JSON-encoded state for one device
// profile, the way a page keeps values in the browser's local storage.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pricecompare/internal/logging"
)

// Slot names a value in the store. The set is closed.
type Slot string

const (
	SlotSearchHistory Slot = "search_history"
	SlotWishlist      Slot = "wishlist"
	SlotUser          Slot = "user"
	SlotLoginTime     Slot = "login_time"
)

var ErrUnknownSlot = errors.New("localstore: unknown slot")

func (s Slot) Valid() bool {
	switch s {
	case SlotSearchHistory, SlotWishlist, SlotUser, SlotLoginTime:
		return true
	default:
		return false
	}
}

// Backend is the raw substrate. Get reports ok=false for an absent slot.
type Backend interface {
	Get(ctx context.Context, slot Slot) (raw string, ok bool, err error)
	Set(ctx context.Context, slot Slot, raw string) error
	Delete(ctx context.Context, slot Slot) error
}

// Provider hands out the Backend holding one profile's slots.
type Provider interface {
	ForProfile(profileID string) Backend
}

// Read decodes the slot into a T. Absent, empty or malformed data and backend
// failures all yield def.
func Read[T any](ctx context.Context, b Backend, slot Slot, def T) T {
	raw, ok, err := b.Get(ctx, slot)
	if err != nil {
		logging.Logger().Warn("localstore read failed", "slot", string(slot), "err", err)
		return def
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		logging.Logger().Debug("localstore malformed slot", "slot", string(slot), "err", err)
		return def
	}
	return v
}

// Write replaces the slot with the JSON encoding of v.
func Write[T any](ctx context.Context, b Backend, slot Slot, v T) error {
	if !slot.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", slot, err)
	}
	if err := b.Set(ctx, slot, string(data)); err != nil {
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	return nil
}

func Remove(ctx context.Context, b Backend, slot Slot) error {
	if !slot.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	if err := b.Delete(ctx, slot); err != nil {
		return fmt.Errorf("remove slot %s: %w", slot, err)
	}
	return nil
}

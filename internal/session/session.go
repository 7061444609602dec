// Package session holds the signed-in markers a page keeps next to its lists:
// the user record and the login time. Clearing them is the logout step.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pricecompare/internal/localstore"
)

var ErrNoUser = errors.New("session: user name required")

type User struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type Session struct {
	User      User      `json:"user"`
	LoginTime time.Time `json:"login_time"`
}

// Start writes the user and login time slots.
func Start(ctx context.Context, b localstore.Backend, u User, now time.Time) (Session, error) {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return Session{}, ErrNoUser
	}

	s := Session{User: u, LoginTime: now.UTC()}
	if err := localstore.Write(ctx, b, localstore.SlotUser, s.User); err != nil {
		return Session{}, fmt.Errorf("write user: %w", err)
	}
	if err := localstore.Write(ctx, b, localstore.SlotLoginTime, s.LoginTime); err != nil {
		return Session{}, fmt.Errorf("write login time: %w", err)
	}
	return s, nil
}

// Current reports the stored session. A missing or unreadable user means no session.
func Current(ctx context.Context, b localstore.Backend) (Session, bool) {
	u := localstore.Read(ctx, b, localstore.SlotUser, User{})
	if u.Name == "" {
		return Session{}, false
	}
	at := localstore.Read(ctx, b, localstore.SlotLoginTime, time.Time{})
	return Session{User: u, LoginTime: at}, true
}

// Clear removes both markers. Both deletes are attempted.
func Clear(ctx context.Context, b localstore.Backend) error {
	return errors.Join(
		localstore.Remove(ctx, b, localstore.SlotUser),
		localstore.Remove(ctx, b, localstore.SlotLoginTime),
	)
}

package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pricecompare/internal/localstore"
	"pricecompare/internal/profile"
)

func TestStartCurrentClear(t *testing.T) {
	ctx := context.Background()
	b := localstore.NewMemoryBackend()
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	if _, err := Start(ctx, b, User{Name: "  "}, at); !errors.Is(err, ErrNoUser) {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}

	if _, err := Start(ctx, b, User{Name: "asha", Email: "asha@example.com"}, at); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s, ok := Current(ctx, b)
	if !ok || s.User.Name != "asha" || !s.LoginTime.Equal(at) {
		t.Fatalf("unexpected session %+v ok=%v", s, ok)
	}

	if err := Clear(ctx, b); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := Current(ctx, b); ok {
		t.Fatal("expected no session after Clear")
	}
	for _, slot := range []localstore.Slot{localstore.SlotUser, localstore.SlotLoginTime} {
		if _, present, _ := b.Get(ctx, slot); present {
			t.Fatalf("slot %s still present", slot)
		}
	}
}

func TestClearWithoutSession(t *testing.T) {
	if err := Clear(context.Background(), localstore.NewMemoryBackend()); err != nil {
		t.Fatalf("Clear on empty store: %v", err)
	}
}

func TestSessionEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := profile.TokenService{Secret: []byte("s"), Issuer: "test", Duration: time.Hour}
	_, token, _, err := tokens.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	r := gin.New()
	me := r.Group("/me", profile.Middleware(tokens))
	NewHandler(localstore.NewMemoryProvider(), nil).RegisterRoutes(me)

	do := func(method, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/me/session", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(http.MethodGet, ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before login, got %d", w.Code)
	}
	if w := do(http.MethodPost, `{"user": {}}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty user, got %d", w.Code)
	}
	if w := do(http.MethodPost, `{"user": {"name": "asha"}}`); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(http.MethodGet, ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "asha") {
		t.Fatalf("unexpected session read %d %s", w.Code, w.Body.String())
	}
	if w := do(http.MethodDelete, ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 on logout, got %d", w.Code)
	}
	if w := do(http.MethodGet, ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after logout, got %d", w.Code)
	}
}

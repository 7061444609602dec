package wishlist

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pricecompare/internal/localstore"
	"pricecompare/internal/profile"
	"pricecompare/internal/sync"
)

type apiClient struct {
	t         *testing.T
	router    *gin.Engine
	token     string
	profileID string
}

func newAPI(t *testing.T, store localstore.Provider) *apiClient {
	return newAPIWithHub(t, store, nil)
}

func newAPIWithHub(t *testing.T, store localstore.Provider, hub *sync.Hub) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := profile.TokenService{Secret: []byte("s"), Issuer: "test", Duration: time.Hour}
	id, token, _, err := tokens.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	r := gin.New()
	NewHandler(store, nil, hub).RegisterRoutes(r.Group("/me", profile.Middleware(tokens)))
	return &apiClient{t: t, router: r, token: token, profileID: id}
}

func (a *apiClient) do(method, path, body string) (int, map[string]any) {
	a.t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", "application/json")
	a.router.ServeHTTP(w, req)

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		a.t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return w.Code, out
}

func TestWishlistEndpoints(t *testing.T) {
	api := newAPI(t, localstore.NewMemoryProvider())

	code, body := api.do(http.MethodPost, "/me/wishlist/toggle", `{"title":"Pixel 9","price":64999,"store":"Amazon"}`)
	if code != http.StatusOK || body["added"] != true {
		t.Fatalf("first toggle: %d %v", code, body)
	}

	code, body = api.do(http.MethodGet, "/me/wishlist/contains?title=Pixel+9&store=Amazon", "")
	if code != http.StatusOK || body["wishlisted"] != true {
		t.Fatalf("contains: %d %v", code, body)
	}

	code, body = api.do(http.MethodGet, "/me/wishlist", "")
	items, _ := body["items"].([]any)
	if code != http.StatusOK || len(items) != 1 {
		t.Fatalf("list: %d %v", code, body)
	}
	first := items[0].(map[string]any)
	if first["price"] != "64999" || first["store"] != "Amazon" {
		t.Fatalf("unexpected stored item %v", first)
	}

	code, body = api.do(http.MethodPost, "/me/wishlist/toggle", `{"title":"Pixel 9","price":"64,999","store":"Amazon"}`)
	if code != http.StatusOK || body["added"] != false {
		t.Fatalf("second toggle: %d %v", code, body)
	}

	code, body = api.do(http.MethodGet, "/me/wishlist", "")
	if items, _ := body["items"].([]any); code != http.StatusOK || len(items) != 0 {
		t.Fatalf("expected empty list, got %d %v", code, body)
	}
}

func TestWishlistToggleValidation(t *testing.T) {
	api := newAPI(t, localstore.NewMemoryProvider())

	for _, body := range []string{
		`{"title":"Pixel 9","store":"Amazon"}`,
		`{"title":"","price":"1","store":"Amazon"}`,
		`{"title":"Pixel 9","price":null,"store":"Amazon"}`,
	} {
		if code, _ := api.do(http.MethodPost, "/me/wishlist/toggle", body); code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, code)
		}
	}

	if code, _ := api.do(http.MethodGet, "/me/wishlist/contains?title=x", ""); code != http.StatusBadRequest {
		t.Fatalf("expected 400 without store, got %d", code)
	}
}

func TestWishlistRequiresToken(t *testing.T) {
	api := newAPI(t, localstore.NewMemoryProvider())
	api.token = "not-a-token"
	if code, _ := api.do(http.MethodGet, "/me/wishlist", ""); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestWishlistEventsArriveInToggleOrder(t *testing.T) {
	hub := sync.NewHub()
	api := newAPIWithHub(t, localstore.NewMemoryProvider(), hub)

	server, client := net.Pipe()
	t.Cleanup(func() { _ = client.Close() })
	hub.Add(server, api.profileID)
	t.Cleanup(func() { hub.Remove(server) })

	lines := make(chan string, 16)
	go func() {
		sc := bufio.NewScanner(client)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	const body = `{"title":"Kettle","price":"1299","store":"Walmart"}`
	for i := 0; i < 3; i++ {
		if code, _ := api.do(http.MethodPost, "/me/wishlist/toggle", body); code != http.StatusOK {
			t.Fatalf("toggle %d: status %d", i, code)
		}
	}

	want := []string{sync.EventWishlistAdded, sync.EventWishlistRemoved, sync.EventWishlistAdded}
	for i, typ := range want {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatalf("feed closed after %d events", i)
			}
			var ev sync.Event
			if err := json.Unmarshal([]byte(line), &ev); err != nil {
				t.Fatalf("decode %q: %v", line, err)
			}
			if ev.Type != typ || ev.Title != "Kettle" {
				t.Fatalf("event %d: expected %s, got %+v", i, typ, ev)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

package wishlist

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"pricecompare/internal/localstore"
)

func newTestWishlist(b localstore.Backend) *Wishlist {
	w := New(b, nil)
	w.now = func() time.Time { return time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC) }
	return w
}

func TestToggleAddsThenRemoves(t *testing.T) {
	ctx := context.Background()
	w := newTestWishlist(localstore.NewMemoryBackend())
	item := Item{Title: "Pixel 9", Price: "64999", Store: "Amazon"}

	added, err := w.Toggle(ctx, item)
	if err != nil || !added {
		t.Fatalf("first toggle = %v, %v", added, err)
	}
	if !w.Contains(ctx, "Pixel 9", "Amazon") {
		t.Fatal("expected item to be wishlisted")
	}
	got := w.List(ctx)
	if len(got) != 1 || !got[0].AddedAt.Equal(time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected list %+v", got)
	}

	// price differs but identity is (title, store)
	added, err = w.Toggle(ctx, Item{Title: "Pixel 9", Price: "1", Store: "Amazon"})
	if err != nil || added {
		t.Fatalf("second toggle = %v, %v", added, err)
	}
	if len(w.List(ctx)) != 0 {
		t.Fatal("expected empty wishlist")
	}
}

func TestIdentityIsExactAndCaseSensitive(t *testing.T) {
	ctx := context.Background()
	w := newTestWishlist(localstore.NewMemoryBackend())

	_, _ = w.Toggle(ctx, Item{Title: "Kettle", Price: "999", Store: "Walmart"})
	_, _ = w.Toggle(ctx, Item{Title: "kettle", Price: "999", Store: "Walmart"})
	_, _ = w.Toggle(ctx, Item{Title: "Kettle", Price: "999", Store: "Amazon"})

	if n := len(w.List(ctx)); n != 3 {
		t.Fatalf("expected 3 distinct items, got %d", n)
	}
	if w.Contains(ctx, "Kettle ", "Walmart") {
		t.Fatal("no normalization expected")
	}
}

func TestToggleTwiceRestoresContent(t *testing.T) {
	ctx := context.Background()
	w := newTestWishlist(localstore.NewMemoryBackend())
	_, _ = w.Toggle(ctx, Item{Title: "A", Price: "1", Store: "S"})
	_, _ = w.Toggle(ctx, Item{Title: "B", Price: "2", Store: "S"})
	before := w.List(ctx)

	x := Item{Title: "C", Price: "3", Store: "S"}
	_, _ = w.Toggle(ctx, x)
	_, _ = w.Toggle(ctx, x)

	after := w.List(ctx)
	if len(after) != len(before) {
		t.Fatalf("expected %d items, got %d", len(before), len(after))
	}
	for i := range before {
		if !before[i].SameAs(after[i]) {
			t.Fatalf("item %d changed: %+v vs %+v", i, before[i], after[i])
		}
	}
}

func TestMalformedSlotReadsEmpty(t *testing.T) {
	ctx := context.Background()
	b := localstore.NewMemoryBackend()
	_ = b.Set(ctx, localstore.SlotWishlist, `[{"title": "broken"`)

	w := newTestWishlist(b)
	if got := w.List(ctx); len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
	if w.Contains(ctx, "broken", "") {
		t.Fatal("malformed data must not match")
	}

	added, err := w.Toggle(ctx, Item{Title: "Fan", Price: "1200", Store: "Amazon"})
	if err != nil || !added {
		t.Fatalf("toggle after malformed = %v, %v", added, err)
	}
}

func TestReadDropsIncompleteEntries(t *testing.T) {
	ctx := context.Background()
	b := localstore.NewMemoryBackend()
	raw := `[
		{"title": "TV", "price": "30000", "store": "Amazon", "date": "2026-01-02T03:04:05.000Z"},
		{"title": "Radio", "store": "Amazon"},
		{"price": "10", "store": "Walmart"},
		"just a string",
		{"title": "Iron", "price": 1499.5, "store": "Walmart", "date": "yesterday"}
	]`
	_ = b.Set(ctx, localstore.SlotWishlist, raw)

	got := newTestWishlist(b).List(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 valid items, got %+v", got)
	}
	if got[0].Title != "TV" || got[0].AddedAt.IsZero() {
		t.Fatalf("unexpected first item %+v", got[0])
	}
	if got[1].Price != "1499.5" || !got[1].AddedAt.IsZero() {
		t.Fatalf("expected numeric price as text and zero date, got %+v", got[1])
	}
}

func TestStoredLayout(t *testing.T) {
	ctx := context.Background()
	b := localstore.NewMemoryBackend()
	w := newTestWishlist(b)
	_, _ = w.Toggle(ctx, Item{Title: "Mixer", Price: "2499", Store: "Walmart"})

	raw, ok, _ := b.Get(ctx, localstore.SlotWishlist)
	if !ok {
		t.Fatal("expected wishlist slot")
	}
	var stored []map[string]string
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("stored slot is not a list of string maps: %v", err)
	}
	want := map[string]string{
		"title": "Mixer",
		"price": "2499",
		"store": "Walmart",
		"date":  "2026-03-04T10:30:00.000Z",
	}
	if len(stored) != 1 {
		t.Fatalf("expected one entry, got %v", stored)
	}
	for k, v := range want {
		if stored[0][k] != v {
			t.Fatalf("field %s: expected %q, got %q", k, v, stored[0][k])
		}
	}
}

func TestPriceText(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{`"₹1,299"`, "₹1,299", true},
		{`1299`, "1299", true},
		{` 12.50 `, "12.50", true},
		{`null`, "", false},
		{``, "", false},
		{`true`, "", false},
	}
	for _, tc := range cases {
		got, ok := PriceText(json.RawMessage(tc.raw))
		if got != tc.want || ok != tc.ok {
			t.Fatalf("PriceText(%s) = %q, %v; want %q, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	items := []Item{
		{Title: "Lamp, desk", Price: "799", Store: "Amazon", AddedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "Rug", Price: "1500", Store: "Walmart"},
	}
	if err := ExportCSV(&buf, items); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %q", buf.String())
	}
	if lines[1] != `"Lamp, desk",799,Amazon,2026-01-01T00:00:00Z` {
		t.Fatalf("unexpected row %q", lines[1])
	}
	if lines[2] != "Rug,1500,Walmart," {
		t.Fatalf("unexpected row %q", lines[2])
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, []Item{{Title: "Pan", Price: "450", Store: "Amazon"}}); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	var back []Item
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(back) != 1 || back[0].Title != "Pan" {
		t.Fatalf("unexpected export %+v", back)
	}
}

func TestImportCSVThenMerge(t *testing.T) {
	in := "Store,Title,Price,Date\n" +
		"Amazon,\"Lamp, desk\",799,2026-01-01T00:00:00Z\n" +
		"Walmart,Rug,,\n" +
		"Walmart,Rug,1500,not-a-date\n"

	items, err := ImportCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if len(items) != 2 || items[0].Title != "Lamp, desk" || !items[1].AddedAt.IsZero() {
		t.Fatalf("unexpected import %+v", items)
	}

	ctx := context.Background()
	w := newTestWishlist(localstore.NewMemoryBackend())
	if _, err := w.Toggle(ctx, Item{Title: "Rug", Price: "1400", Store: "Walmart"}); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	n, err := w.Import(ctx, items)
	if err != nil || n != 1 {
		t.Fatalf("Import = %d, %v", n, err)
	}
	got := w.List(ctx)
	if len(got) != 2 || got[0].Price != "1400" || got[1].Title != "Lamp, desk" {
		t.Fatalf("unexpected wishlist %+v", got)
	}
	if !got[1].AddedAt.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("imported timestamp lost: %v", got[1].AddedAt)
	}
}

func TestImportCSVRequiresColumns(t *testing.T) {
	if _, err := ImportCSV(strings.NewReader("title,store\nRug,Walmart\n")); err == nil {
		t.Fatal("expected missing price column error")
	}
}

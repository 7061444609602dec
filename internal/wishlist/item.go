package wishlist

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// isoMillis matches the ISO-8601 form browsers produce for stored dates.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

var ErrMissingField = errors.New("wishlist: item missing required field")

// Item is one wishlisted product. Identity is (Title, Store); Price and
// AddedAt are carried along but never compared.
type Item struct {
	Title   string    `json:"title"`
	Price   string    `json:"price"`
	Store   string    `json:"store"`
	AddedAt time.Time `json:"date"`
}

func (it Item) SameAs(other Item) bool {
	return it.Title == other.Title && it.Store == other.Store
}

type wireItem struct {
	Title *string         `json:"title"`
	Price json.RawMessage `json:"price"`
	Store *string         `json:"store"`
	Date  string          `json:"date"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	var date string
	if !it.AddedAt.IsZero() {
		date = it.AddedAt.UTC().Format(isoMillis)
	}
	return json.Marshal(struct {
		Title string `json:"title"`
		Price string `json:"price"`
		Store string `json:"store"`
		Date  string `json:"date"`
	}{it.Title, it.Price, it.Store, date})
}

// UnmarshalJSON rejects entries without title, store or price. Price may be a
// JSON string or number. An unparseable date leaves AddedAt zero.
func (it *Item) UnmarshalJSON(data []byte) error {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Title == nil || w.Store == nil {
		return ErrMissingField
	}
	price, ok := PriceText(w.Price)
	if !ok {
		return ErrMissingField
	}

	*it = Item{Title: *w.Title, Price: price, Store: *w.Store}
	if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(w.Date)); err == nil {
		it.AddedAt = t.UTC()
	}
	return nil
}

// PriceText turns a raw JSON price (string or number) into its text form.
func PriceText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	return n.String(), true
}

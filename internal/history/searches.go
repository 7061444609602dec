package history

import (
	"context"
	"strings"
	"sync"

	"pricecompare/internal/localstore"
)

// SearchLimit is how many recent searches are kept.
const SearchLimit = 5

// Searches is the recent-search list: most recent first, unique ignoring case.
type Searches struct {
	list *List[string]
}

func NewSearches(b localstore.Backend, mu sync.Locker) *Searches {
	return &Searches{list: NewList(b, localstore.SlotSearchHistory, strings.EqualFold,
		WithLimit[string](SearchLimit),
		WithFilter(func(s string) bool { return strings.TrimSpace(s) != "" }),
		WithLocker[string](mu),
	)}
}

// Add records a search as typed. Blank terms are ignored. Re-searching a term
// moves it to the front with the latest casing.
func (s *Searches) Add(ctx context.Context, term string) error {
	if strings.TrimSpace(term) == "" {
		return nil
	}
	return s.list.Promote(ctx, term)
}

func (s *Searches) List(ctx context.Context) []string {
	return s.list.Items(ctx)
}

func (s *Searches) Clear(ctx context.Context) error {
	return s.list.Clear(ctx)
}

package history

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"pricecompare/internal/localstore"
)

func sameInt(a, b int) bool { return a == b }

func TestListToggleIsInvolution(t *testing.T) {
	ctx := context.Background()
	l := NewList(localstore.NewMemoryBackend(), localstore.SlotWishlist, sameInt)

	for _, v := range []int{1, 2, 3} {
		if added, err := l.Toggle(ctx, v); err != nil || !added {
			t.Fatalf("Toggle(%d) = %v, %v", v, added, err)
		}
	}
	before := l.Items(ctx)

	if added, _ := l.Toggle(ctx, 2); added {
		t.Fatal("expected removal")
	}
	if l.Contains(ctx, 2) {
		t.Fatal("2 should be gone")
	}
	if added, _ := l.Toggle(ctx, 2); !added {
		t.Fatal("expected re-add")
	}

	// content-equal, re-added entry goes last
	if got := l.Items(ctx); !reflect.DeepEqual(got, []int{1, 3, 2}) || len(got) != len(before) {
		t.Fatalf("unexpected items %v", got)
	}
}

func TestListToggleRemovesAllDuplicates(t *testing.T) {
	ctx := context.Background()
	b := localstore.NewMemoryBackend()
	_ = b.Set(ctx, localstore.SlotWishlist, `[5, 1, 5, 5]`)

	l := NewList(b, localstore.SlotWishlist, sameInt)
	added, err := l.Toggle(ctx, 5)
	if err != nil || added {
		t.Fatalf("Toggle = %v, %v", added, err)
	}
	if got := l.Items(ctx); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("expected [1], got %v", got)
	}
}

func TestListToggleWithLimitDropsOldest(t *testing.T) {
	ctx := context.Background()
	l := NewList(localstore.NewMemoryBackend(), localstore.SlotWishlist, sameInt, WithLimit[int](2))

	for _, v := range []int{1, 2, 3} {
		_, _ = l.Toggle(ctx, v)
	}
	if got := l.Items(ctx); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Fatalf("expected [2 3], got %v", got)
	}
}

func TestListConcurrentPromoteKeepsEveryWrite(t *testing.T) {
	ctx := context.Background()
	b := localstore.NewMemoryBackend()
	locks := NewLocks()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			l := NewList(b, localstore.SlotWishlist, sameInt, WithLocker[int](locks.For("p1")))
			_ = l.Promote(ctx, v)
		}(i)
	}
	wg.Wait()

	got := NewList(b, localstore.SlotWishlist, sameInt).Items(ctx)
	if len(got) != 20 {
		t.Fatalf("expected 20 entries, lost updates: %v", got)
	}
}

func TestLocksSameKeySameMutex(t *testing.T) {
	l := NewLocks()
	if l.For("a") != l.For("a") {
		t.Fatal("expected identical mutex for the same key")
	}
	if l.For("a") == l.For("b") {
		t.Fatal("expected distinct mutexes for different keys")
	}
}

func TestListMergeSkipsPresent(t *testing.T) {
	ctx := context.Background()
	l := NewList(localstore.NewMemoryBackend(), localstore.SlotWishlist, sameInt)
	if _, err := l.Toggle(ctx, 2); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	n, err := l.Merge(ctx, []int{1, 2, 3, 1})
	if err != nil || n != 2 {
		t.Fatalf("Merge = %d, %v", n, err)
	}
	if got := l.Items(ctx); !reflect.DeepEqual(got, []int{2, 1, 3}) {
		t.Fatalf("unexpected items %v", got)
	}

	if n, err := l.Merge(ctx, []int{3}); err != nil || n != 0 {
		t.Fatalf("second Merge = %d, %v", n, err)
	}
}

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"pricecompare/internal/localstore"
	"pricecompare/internal/wishlist"
	"pricecompare/pkg/utils"
)

// import-csv restores a wishlist CSV (as written by `wishlist export -format csv`)
// straight into a profile's slot, without going through the API.
func main() {
	_ = godotenv.Load()

	var (
		in        = flag.String("in", "data/wishlist.csv", "input CSV path")
		profileID = flag.String("profile", "", "profile id to import into")
	)
	flag.Parse()

	pid := strings.TrimSpace(*profileID)
	if _, err := uuid.Parse(pid); err != nil {
		log.Fatalf("a valid -profile id is required: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := localstore.Open(ctx, utils.LoadStoreConfig())
	if err != nil {
		log.Fatalf("open store failed: %v", err)
	}
	defer store.Close()

	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("open %s: %v", *in, err)
	}
	defer f.Close()

	items, err := wishlist.ImportCSV(f)
	if err != nil {
		log.Fatalf("read csv failed: %v", err)
	}

	n, err := wishlist.New(store.ForProfile(pid), nil).Import(ctx, items)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	log.Printf("✅ imported %d of %d items from %s into %s", n, len(items), *in, pid)
}

package localstore

import (
	"context"
	"errors"
	"fmt"

	"pricecompare/pkg/database"
	"pricecompare/pkg/utils"
)

var ErrUnknownDriver = errors.New("localstore: unknown store driver")

// Store is an opened backend family with the hooks servers need for readiness
// checks and shutdown.
type Store struct {
	Provider
	Name  string
	Ping  func(ctx context.Context) error
	Close func()
}

// Open connects the configured driver and applies its schema.
func Open(ctx context.Context, cfg utils.StoreConfig) (*Store, error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := database.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := database.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres migrate: %w", err)
		}
		return &Store{
			Provider: NewPostgresProvider(pool),
			Name:     "postgres",
			Ping:     pool.Ping,
			Close:    pool.Close,
		}, nil
	case "sqlite":
		dbCfg := database.DefaultConfig()
		db, err := database.Open(dbCfg)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite migrate: %w", err)
		}
		return &Store{
			Provider: NewSQLiteProvider(db),
			Name:     dbCfg.Path,
			Ping:     db.PingContext,
			Close:    func() { _ = db.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

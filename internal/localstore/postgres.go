package localstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBackend stores one profile's slots in Postgres.
type PostgresBackend struct {
	pool      *pgxpool.Pool
	profileID string
}

func NewPostgresBackend(pool *pgxpool.Pool, profileID string) *PostgresBackend {
	return &PostgresBackend{pool: pool, profileID: profileID}
}

func (b *PostgresBackend) Get(ctx context.Context, slot Slot) (string, bool, error) {
	var raw string
	err := b.pool.QueryRow(ctx,
		`SELECT value FROM local_slots WHERE profile_id = $1 AND slot = $2`,
		b.profileID, string(slot)).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get slot: %w", err)
	}
	return raw, true, nil
}

func (b *PostgresBackend) Set(ctx context.Context, slot Slot, raw string) error {
	const q = `
INSERT INTO local_slots (profile_id, slot, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (profile_id, slot) DO UPDATE SET
    value = EXCLUDED.value,
    updated_at = now();
`
	if _, err := b.pool.Exec(ctx, q, b.profileID, string(slot), raw); err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Delete(ctx context.Context, slot Slot) error {
	if _, err := b.pool.Exec(ctx,
		`DELETE FROM local_slots WHERE profile_id = $1 AND slot = $2`,
		b.profileID, string(slot)); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

type PostgresProvider struct {
	Pool *pgxpool.Pool
}

func NewPostgresProvider(pool *pgxpool.Pool) *PostgresProvider {
	return &PostgresProvider{Pool: pool}
}

func (p *PostgresProvider) ForProfile(profileID string) Backend {
	return NewPostgresBackend(p.Pool, profileID)
}

package localstore

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteBackend stores one profile's slots in the local_slots table.
type SQLiteBackend struct {
	DB        *sql.DB
	ProfileID string
}

func NewSQLiteBackend(db *sql.DB, profileID string) *SQLiteBackend {
	return &SQLiteBackend{DB: db, ProfileID: profileID}
}

func (b *SQLiteBackend) Get(ctx context.Context, slot Slot) (string, bool, error) {
	row := b.DB.QueryRowContext(ctx, `
		SELECT value FROM local_slots
		WHERE profile_id = ? AND slot = ?
	`, b.ProfileID, string(slot))

	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get slot: %w", err)
	}
	return raw, true, nil
}

func (b *SQLiteBackend) Set(ctx context.Context, slot Slot, raw string) error {
	_, err := b.DB.ExecContext(ctx, `
		INSERT INTO local_slots (profile_id, slot, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(profile_id, slot) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, b.ProfileID, string(slot), raw)
	if err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Delete(ctx context.Context, slot Slot) error {
	_, err := b.DB.ExecContext(ctx, `
		DELETE FROM local_slots
		WHERE profile_id = ? AND slot = ?
	`, b.ProfileID, string(slot))
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

type SQLiteProvider struct {
	DB *sql.DB
}

func NewSQLiteProvider(db *sql.DB) *SQLiteProvider {
	return &SQLiteProvider{DB: db}
}

func (p *SQLiteProvider) ForProfile(profileID string) Backend {
	return NewSQLiteBackend(p.DB, profileID)
}

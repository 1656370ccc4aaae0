package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

const createSnapshotTable = `
	CREATE TABLE IF NOT EXISTS patient_snapshots (
		snapshot_key TEXT PRIMARY KEY,
		payload      JSONB NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// PostgresSnapshot stores the collection as one JSONB row keyed by snapshot_key.
type PostgresSnapshot struct {
	db  *sql.DB
	key string
}

func NewPostgresSnapshot(db *sql.DB, key string) *PostgresSnapshot {
	return &PostgresSnapshot{db: db, key: key}
}

// EnsureSchema creates the snapshot table if missing.
func (r *PostgresSnapshot) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSnapshotTable); err != nil {
		return fmt.Errorf("failed to create patient_snapshots: %w", err)
	}
	return nil
}

func (r *PostgresSnapshot) Load(ctx context.Context) ([]domain.Patient, error) {
	query := `SELECT payload FROM patient_snapshots WHERE snapshot_key = $1`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, r.key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.Patient{}, nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return DecodeSnapshot(payload)
}

func (r *PostgresSnapshot) Save(ctx context.Context, patients []domain.Patient) error {
	b, err := EncodeSnapshot(patients)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO patient_snapshots (snapshot_key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (snapshot_key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, r.key, string(b)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"namereg/internal/registrar/models"
	"namereg/pkg/platform/sentinel"
)

// Postgres is the durable mirror of committed registrar state. The in-memory
// store stays authoritative; this store exists so a restarted process can
// reload records and so external tooling can query them with SQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Schema is the mirror's DDL, applied by Migrate.
const Schema = `
CREATE TABLE IF NOT EXISTS name_records (
	label            TEXT PRIMARY KEY,
	name_id          BIGINT NOT NULL,
	full_name        TEXT NOT NULL,
	owner_account    TEXT NOT NULL,
	resolver_ref     TEXT NOT NULL DEFAULT '',
	expiry_at        TIMESTAMPTZ NOT NULL,
	is_premium       BOOLEAN NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL,
	last_renewed_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_name_records_owner ON name_records (owner_account);

CREATE TABLE IF NOT EXISTS primary_names (
	account  TEXT PRIMARY KEY,
	label    TEXT NOT NULL
);
`

// Migrate applies the mirror schema.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply mirror schema: %w", err)
	}
	return nil
}

// UpsertName mirrors one committed record, keyed by label: a full-expiry
// takeover overwrites the stale row the same way the authoritative store
// overwrites the stale record.
func (p *Postgres) UpsertName(ctx context.Context, rec models.NameRecord) error {
	query := `
		INSERT INTO name_records
			(label, name_id, full_name, owner_account, resolver_ref, expiry_at, is_premium, created_at, last_renewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (label) DO UPDATE SET
			name_id = EXCLUDED.name_id,
			full_name = EXCLUDED.full_name,
			owner_account = EXCLUDED.owner_account,
			resolver_ref = EXCLUDED.resolver_ref,
			expiry_at = EXCLUDED.expiry_at,
			is_premium = EXCLUDED.is_premium,
			created_at = EXCLUDED.created_at,
			last_renewed_at = EXCLUDED.last_renewed_at
	`
	_, err := p.db.ExecContext(ctx, query,
		rec.Label, int64(rec.NameID), rec.FullName, rec.Owner, rec.Resolver,
		rec.ExpiryAt, rec.IsPremium, rec.CreatedAt, rec.LastRenewedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert name record: %w", err)
	}
	return nil
}

// FindByLabel reads one mirrored record.
func (p *Postgres) FindByLabel(ctx context.Context, label string) (*models.NameRecord, error) {
	query := `
		SELECT name_id, full_name, owner_account, resolver_ref, expiry_at, is_premium, created_at, last_renewed_at
		FROM name_records WHERE label = $1
	`
	var rec models.NameRecord
	var nameID int64
	rec.Label = label
	err := p.db.QueryRowContext(ctx, query, label).Scan(
		&nameID, &rec.FullName, &rec.Owner, &rec.Resolver,
		&rec.ExpiryAt, &rec.IsPremium, &rec.CreatedAt, &rec.LastRenewedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find name record: %w", err)
	}
	rec.NameID = uint64(nameID)
	return &rec, nil
}

// ListByOwner reads all mirrored records for one account.
func (p *Postgres) ListByOwner(ctx context.Context, owner string) ([]models.NameRecord, error) {
	query := `
		SELECT label, name_id, full_name, resolver_ref, expiry_at, is_premium, created_at, last_renewed_at
		FROM name_records WHERE owner_account = $1 ORDER BY name_id
	`
	rows, err := p.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("list name records: %w", err)
	}
	defer rows.Close()

	var out []models.NameRecord
	for rows.Next() {
		rec := models.NameRecord{Owner: owner}
		var nameID int64
		if err := rows.Scan(
			&rec.Label, &nameID, &rec.FullName, &rec.Resolver,
			&rec.ExpiryAt, &rec.IsPremium, &rec.CreatedAt, &rec.LastRenewedAt,
		); err != nil {
			return nil, fmt.Errorf("scan name record: %w", err)
		}
		rec.NameID = uint64(nameID)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SavePrimary mirrors a primary-name assignment.
func (p *Postgres) SavePrimary(ctx context.Context, account, label string) error {
	query := `
		INSERT INTO primary_names (account, label)
		VALUES ($1, $2)
		ON CONFLICT (account) DO UPDATE SET label = EXCLUDED.label
	`
	if _, err := p.db.ExecContext(ctx, query, account, label); err != nil {
		return fmt.Errorf("save primary name: %w", err)
	}
	return nil
}

// DeletePrimary mirrors a primary-name clearing.
func (p *Postgres) DeletePrimary(ctx context.Context, account string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM primary_names WHERE account = $1`, account); err != nil {
		return fmt.Errorf("delete primary name: %w", err)
	}
	return nil
}

// PrimaryLabel reads a mirrored primary-name assignment.
func (p *Postgres) PrimaryLabel(ctx context.Context, account string) (string, error) {
	var label string
	err := p.db.QueryRowContext(ctx, `SELECT label FROM primary_names WHERE account = $1`, account).Scan(&label)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("find primary name: %w", err)
	}
	return label, nil
}

// Health verifies database reachability.
func (p *Postgres) Health(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

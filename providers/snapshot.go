package providers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/kykrueger/dbrestrict/restrictions"
)

const snapshotFormatVersion = "1"

const (
	createMetadataTable = `
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	createTableRestrictionsTable = `
		CREATE TABLE IF NOT EXISTS table_restrictions (
			table_name TEXT PRIMARY KEY,
			columns_json TEXT NOT NULL
		);
	`
)

// SaveSnapshot writes the restriction map to a SQLite file, replacing an
// existing one
func SaveSnapshot(ctx context.Context, snapshotPath string, r *restrictions.Restrictions) error {
	dir := filepath.Dir(snapshotPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if _, err := os.Stat(snapshotPath); err == nil {
		if err := os.Remove(snapshotPath); err != nil {
			return fmt.Errorf("failed to remove existing snapshot: %w", err)
		}
	}

	db, err := sql.Open("sqlite", snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to create snapshot database: %w", err)
	}
	defer db.Close()

	for _, stmt := range []string{createMetadataTable, createTableRestrictionsTable} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize snapshot schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	metadata := map[string]string{
		"created_at": time.Now().Format(time.RFC3339),
		"version":    snapshotFormatVersion,
	}
	for key, value := range metadata {
		if _, err := tx.ExecContext(ctx, "INSERT INTO metadata (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("failed to insert metadata: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO table_restrictions (table_name, columns_json) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, table := range DescribeRestrictions(r) {
		columnsJSON, err := json.Marshal(table.Columns)
		if err != nil {
			return fmt.Errorf("failed to marshal columns of table %s: %w", table.Name, err)
		}
		if _, err := stmt.ExecContext(ctx, table.Name, string(columnsJSON)); err != nil {
			return fmt.Errorf("failed to insert table %s: %w", table.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadSnapshot reads a restriction map written by SaveSnapshot
func LoadSnapshot(ctx context.Context, snapshotPath string, opts ...restrictions.Option) (*restrictions.Restrictions, error) {
	if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("snapshot file does not exist: %s", snapshotPath)
	}

	db, err := sql.Open("sqlite", snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	defer db.Close()

	var version string
	err = db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = 'version'").Scan(&version)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot version: %w", err)
	}
	if version != snapshotFormatVersion {
		return nil, fmt.Errorf("unsupported snapshot version: %s", version)
	}

	rows, err := db.QueryContext(ctx, "SELECT table_name, columns_json FROM table_restrictions ORDER BY table_name")
	if err != nil {
		return nil, fmt.Errorf("failed to query table restrictions: %w", err)
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		var table Table
		var columnsJSON string
		if err := rows.Scan(&table.Name, &columnsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan table restrictions: %w", err)
		}
		if err := json.Unmarshal([]byte(columnsJSON), &table.Columns); err != nil {
			return nil, fmt.Errorf("failed to unmarshal columns of table %s: %w", table.Name, err)
		}
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return BuildRestrictions(tables, opts...), nil
}

// SnapshotProvider loads restrictions from a SQLite snapshot file
type SnapshotProvider struct{}

// NewSnapshotProvider creates a new snapshot provider
func NewSnapshotProvider() RestrictionProvider {
	return &SnapshotProvider{}
}

// Name returns the provider name
func (p *SnapshotProvider) Name() string {
	return "snapshot"
}

// IsAvailable always returns true for the snapshot provider
func (p *SnapshotProvider) IsAvailable() bool {
	return true
}

// LoadRestrictions reads params.SnapshotPath
func (p *SnapshotProvider) LoadRestrictions(ctx context.Context, params LoadParams) (*restrictions.Restrictions, error) {
	if params.SnapshotPath == "" {
		return nil, fmt.Errorf("snapshot provider requires a snapshot path")
	}
	logger := params.logger()
	logger.Debug("loading snapshot", "path", params.SnapshotPath)
	return LoadSnapshot(ctx, params.SnapshotPath, restrictions.WithLogger(logger))
}

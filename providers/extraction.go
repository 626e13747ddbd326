package providers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kykrueger/dbrestrict/restrictions"
)

const (
	tablesQuery = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	columnsQuery = `
		SELECT
			c.table_name,
			c.column_name,
			CASE WHEN c.data_type = 'character varying' THEN c.character_maximum_length END AS max_length,
			c.is_nullable = 'NO' AS not_null
		FROM information_schema.columns c
		JOIN information_schema.tables t ON
			t.table_schema = c.table_schema AND t.table_name = c.table_name
		WHERE c.table_schema = 'public'
		AND t.table_type = 'BASE TABLE'
		ORDER BY c.table_name, c.ordinal_position
	`

	domainChecksQuery = `
		SELECT
			c.table_name,
			c.column_name,
			pg_get_constraintdef(con.oid)
		FROM information_schema.columns c
		JOIN pg_type typ ON typ.typname = c.domain_name
		JOIN pg_constraint con ON con.contypid = typ.oid
		WHERE c.table_schema = 'public'
		AND con.contype = 'c'
		ORDER BY c.table_name, c.column_name, con.conname
	`

	tableChecksQuery = `
		SELECT
			rel.relname,
			pg_get_constraintdef(con.oid)
		FROM pg_constraint con
		JOIN pg_class rel ON rel.oid = con.conrelid
		JOIN pg_namespace nsp ON nsp.oid = rel.relnamespace
		WHERE nsp.nspname = 'public'
		AND con.contype = 'c'
		ORDER BY rel.relname, con.conname
	`
)

// PostgresProvider reads the restrictions of the public schema from a live
// PostgreSQL database
type PostgresProvider struct{}

// NewPostgresProvider creates a new postgres provider
func NewPostgresProvider() RestrictionProvider {
	return &PostgresProvider{}
}

// Name returns the provider name
func (p *PostgresProvider) Name() string {
	return "postgres"
}

// IsAvailable always returns true, a connection is checked on load
func (p *PostgresProvider) IsAvailable() bool {
	return true
}

// LoadRestrictions queries the catalog through params.DB
func (p *PostgresProvider) LoadRestrictions(ctx context.Context, params LoadParams) (*restrictions.Restrictions, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("postgres provider requires database connection")
	}
	return ExtractRestrictionsFromDB(ctx, params.DB, params.logger())
}

// ExtractRestrictionsFromDB extracts restrictions using catalog queries
func ExtractRestrictionsFromDB(ctx context.Context, db *sql.DB, logger *slog.Logger) (*restrictions.Restrictions, error) {
	logger.Debug("starting restriction extraction")
	b := restrictions.NewBuilder()

	tables, err := getTables(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	logger.Debug("found database tables", "count", len(tables), "tables", tables)
	for _, tableName := range tables {
		b.AddTable(tableName)
	}

	if err := getColumns(ctx, db, b); err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	// domain checks first, a table check on the same column replaces them
	if err := getDomainChecks(ctx, db, b, logger); err != nil {
		return nil, fmt.Errorf("failed to get domain check constraints: %w", err)
	}
	if err := getTableChecks(ctx, db, b, logger); err != nil {
		return nil, fmt.Errorf("failed to get table check constraints: %w", err)
	}

	r := b.Build(restrictions.WithLogger(logger))
	logger.Info("restriction extraction completed", "tables", len(r.Tables()))
	return r, nil
}

func getTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

func getColumns(ctx context.Context, db *sql.DB, b *restrictions.Builder) error {
	rows, err := db.QueryContext(ctx, columnsQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var tableName, columnName string
		var maxLength sql.NullInt64
		var notNull bool
		if err := rows.Scan(&tableName, &columnName, &maxLength, &notNull); err != nil {
			return err
		}

		b.AddColumn(tableName, columnName)
		if maxLength.Valid {
			b.SetLength(tableName, columnName, int(maxLength.Int64))
		}
		if notNull {
			b.SetNotNull(tableName, columnName)
		}
	}
	return rows.Err()
}

func getDomainChecks(ctx context.Context, db *sql.DB, b *restrictions.Builder, logger *slog.Logger) error {
	rows, err := db.QueryContext(ctx, domainChecksQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var tableName, columnName, definition string
		if err := rows.Scan(&tableName, &columnName, &definition); err != nil {
			return err
		}

		_, values, err := restrictions.ParseCheckConstraint(definition)
		if err != nil {
			logger.Debug("skipping domain check constraint", "table", tableName, "column", columnName, "error", err)
			continue
		}
		b.SetAllowedValues(tableName, columnName, values)
	}
	return rows.Err()
}

func getTableChecks(ctx context.Context, db *sql.DB, b *restrictions.Builder, logger *slog.Logger) error {
	rows, err := db.QueryContext(ctx, tableChecksQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var tableName, definition string
		if err := rows.Scan(&tableName, &definition); err != nil {
			return err
		}

		columnName, values, err := restrictions.ParseCheckConstraint(definition)
		if err != nil {
			logger.Debug("skipping check constraint", "table", tableName, "error", err)
			continue
		}
		b.SetAllowedValues(tableName, columnName, values)
	}
	return rows.Err()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kykrueger/dbrestrict/providers"
	"github.com/kykrueger/dbrestrict/restrictions"
)

// errUsage marks errors caused by arguments naming something the
// restriction map does not know
var errUsage = errors.New("usage error")

func newRegistry() *providers.ProviderRegistry {
	registry := providers.NewProviderRegistry()
	registry.Register(providers.NewScriptProvider())
	registry.Register(providers.NewSnapshotProvider())
	return registry
}

// newDatabaseRegistry holds the providers reading a running database
func newDatabaseRegistry() *providers.ProviderRegistry {
	registry := providers.NewProviderRegistry()
	registry.Register(providers.NewPostgresProvider())
	registry.Register(providers.NewPgDumpProvider())
	return registry
}

func isSnapshotPath(path string) bool {
	return strings.HasSuffix(path, ".db")
}

// loadRestrictions reads a .db snapshot or parses the DDL behind path
func loadRestrictions(ctx context.Context, path string, reader ScriptReader, logger *slog.Logger) (*restrictions.Restrictions, error) {
	registry := newRegistry()

	params := providers.LoadParams{Logger: logger}
	providerName := "ddl"
	if isSnapshotPath(path) {
		providerName = "snapshot"
		params.SnapshotPath = path
	} else {
		script, err := reader.ReadScript(path)
		if err != nil {
			return nil, err
		}
		params.Script = script
	}

	provider, _ := registry.Get(providerName)
	r, err := provider.LoadRestrictions(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load restrictions: %w", err)
	}
	return r, nil
}

func describeCore(ctx context.Context, path, format string, reader ScriptReader, logger *slog.Logger) (string, error) {
	outputFormat, err := providers.ParseFormat(format)
	if err != nil {
		return "", err
	}
	r, err := loadRestrictions(ctx, path, reader, logger)
	if err != nil {
		return "", err
	}
	return providers.FormatRestrictions(r, outputFormat)
}

// checkCore validates value, nil standing for SQL NULL, against the
// restrictions of table.column
func checkCore(ctx context.Context, path, table, column string, value *string, reader ScriptReader, logger *slog.Logger) (string, error) {
	r, err := loadRestrictions(ctx, path, reader, logger)
	if err != nil {
		return "", err
	}

	t, ok := r.Table(table)
	if !ok {
		return "", fmt.Errorf("%w: unknown table %s", errUsage, table)
	}
	if !t.HasColumn(column) {
		return "", fmt.Errorf("%w: unknown column %s.%s", errUsage, table, column)
	}

	if err := r.Check(table, column, value); err != nil {
		return "", err
	}
	return fmt.Sprintf("value of column %s.%s is valid\n", table, column), nil
}

func snapshotCore(ctx context.Context, path, snapshotPath string, reader ScriptReader, logger *slog.Logger) (string, error) {
	if isSnapshotPath(path) {
		return "", fmt.Errorf("%w: %s is already a snapshot", errUsage, path)
	}
	r, err := loadRestrictions(ctx, path, reader, logger)
	if err != nil {
		return "", err
	}
	if err := providers.SaveSnapshot(ctx, snapshotPath, r); err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}
	logger.Info("snapshot saved", "path", snapshotPath, "tables", len(r.Tables()))
	return fmt.Sprintf("saved restrictions of %d tables to %s\n", len(r.Tables()), snapshotPath), nil
}

// verifyCore executes the DDL behind path on a real database and compares the
// restrictions the database reports with the parsed ones. The differences are
// returned as output together with an error when there are any.
func verifyCore(ctx context.Context, path, providerName string, reader ScriptReader, dbManager DatabaseManager, logger *slog.Logger) (string, error) {
	registry := newDatabaseRegistry()
	provider, exists := registry.Get(providerName)
	if !exists {
		return "", fmt.Errorf("%w: unknown database provider %s, available: %s",
			errUsage, providerName, strings.Join(registry.ListAvailable(), ", "))
	}
	if !provider.IsAvailable() {
		return "", fmt.Errorf("provider '%s' is not available in this environment", providerName)
	}

	script, err := reader.ReadScript(path)
	if err != nil {
		return "", err
	}
	expected := restrictions.Parse(script, restrictions.WithLogger(logger))

	if err := dbManager.Setup(ctx); err != nil {
		return "", fmt.Errorf("failed to setup database: %w", err)
	}
	defer func() {
		if err := dbManager.Close(ctx); err != nil {
			logger.Error("failed to cleanup database", "error", err)
		}
	}()

	if err := dbManager.ExecScript(ctx, script); err != nil {
		return "", fmt.Errorf("failed to execute ddl: %w", err)
	}

	actual, err := provider.LoadRestrictions(ctx, providers.LoadParams{
		DB:               dbManager.GetDB(),
		ConnectionString: dbManager.GetConnectionString(),
		Logger:           logger,
	})
	if err != nil {
		return "", fmt.Errorf("failed to extract restrictions: %w", err)
	}

	differences := restrictions.Diff(expected, actual)
	if len(differences) == 0 {
		return fmt.Sprintf("restrictions of %d tables match the database\n", len(expected.Tables())), nil
	}

	var sb strings.Builder
	for _, d := range differences {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String(), fmt.Errorf("found %d differences between parsed and database restrictions", len(differences))
}

package providers

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/kykrueger/dbrestrict/restrictions"
)

// PgDumpProvider dumps the schema with the pg_dump binary and parses the
// resulting DDL
type PgDumpProvider struct{}

// NewPgDumpProvider creates a new pg_dump provider
func NewPgDumpProvider() RestrictionProvider {
	return &PgDumpProvider{}
}

// Name returns the provider name
func (p *PgDumpProvider) Name() string {
	return "pg_dump"
}

// IsAvailable checks if pg_dump is available in PATH
func (p *PgDumpProvider) IsAvailable() bool {
	_, err := exec.LookPath("pg_dump")
	return err == nil
}

// LoadRestrictions runs pg_dump against params.ConnectionString
func (p *PgDumpProvider) LoadRestrictions(ctx context.Context, params LoadParams) (*restrictions.Restrictions, error) {
	if params.ConnectionString == "" {
		return nil, fmt.Errorf("pg_dump provider requires connection string")
	}

	logger := params.logger()
	logger.Debug("extracting restrictions using pg_dump provider")

	if _, err := url.Parse(params.ConnectionString); err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	args := []string{
		"--schema-only",    // Only dump schema, no data
		"--schema=public",  // Restrictions are only read from the public schema
		"--no-owner",       // Don't include ownership information
		"--no-privileges",  // Don't include privilege information
		"--no-tablespaces", // Don't include tablespace information
		"--no-comments",    // Don't include comments
		params.ConnectionString,
	}

	cmd := exec.CommandContext(ctx, "pg_dump", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("executing pg_dump", "command", cmd.String())

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pg_dump failed: %w\nstderr: %s", err, stderr.String())
	}

	script := cleanupPgDumpOutput(stdout.String())
	r := restrictions.Parse(script, restrictions.WithLogger(logger))
	logger.Info("parsed pg_dump output", "tables", len(r.Tables()))
	return r, nil
}

// cleanupPgDumpOutput drops the session setup and sequence statements of a
// dump and removes the public schema qualifier
func cleanupPgDumpOutput(sql string) string {
	lines := strings.Split(sql, "\n")
	var cleaned []string
	skipStatement := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if skipStatement {
			if strings.HasSuffix(trimmed, ";") {
				skipStatement = false
			}
			continue
		}

		// Skip empty lines and comments
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}

		// Skip SET and SELECT statements, sequences and extensions
		if strings.HasPrefix(trimmed, "SET ") ||
			strings.HasPrefix(trimmed, "SELECT ") ||
			strings.HasPrefix(trimmed, "CREATE SEQUENCE") ||
			strings.HasPrefix(trimmed, "ALTER SEQUENCE") ||
			strings.HasPrefix(trimmed, "CREATE EXTENSION") ||
			strings.HasPrefix(trimmed, "COMMENT ON EXTENSION") {
			skipStatement = !strings.HasSuffix(trimmed, ";")
			continue
		}

		cleaned = append(cleaned, line)
	}

	result := strings.Join(cleaned, "\n")

	result = strings.ReplaceAll(result, "CREATE TABLE public.", "CREATE TABLE ")
	result = strings.ReplaceAll(result, "CREATE DOMAIN public.", "CREATE DOMAIN ")
	result = strings.ReplaceAll(result, "ALTER TABLE ONLY public.", "ALTER TABLE ONLY ")
	result = strings.ReplaceAll(result, "ALTER TABLE public.", "ALTER TABLE ")

	return strings.TrimSpace(result) + "\n"
}

package main

import (
	"context"
	"database/sql"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// DatabaseManager handles database lifecycle and operations
type DatabaseManager interface {
	// Setup creates and initializes the database connection
	Setup(ctx context.Context) error
	// Close cleans up database resources
	Close(ctx context.Context) error
	// ExecScript executes a DDL script against the database
	ExecScript(ctx context.Context, script string) error
	// GetDB returns the underlying database connection
	GetDB() *sql.DB
	// GetConnectionString returns the connection string of the database
	GetConnectionString() string
}

// ScriptReader loads the DDL script behind a path
type ScriptReader interface {
	// ReadScript returns the DDL of a .sql file or of a migration directory
	ReadScript(path string) (string, error)
}

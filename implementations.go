package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresSettings selects the container started by PostgreSQLManager
type PostgresSettings struct {
	Image    string
	Database string
	Username string
	Password string
}

func postgresSettings(cfg *Config) PostgresSettings {
	return PostgresSettings{
		Image:    cfg.Postgres.Image,
		Database: cfg.Postgres.Database,
		Username: cfg.Postgres.Username,
		Password: cfg.Postgres.Password,
	}
}

// PostgreSQLManager runs a throwaway PostgreSQL server in a container
type PostgreSQLManager struct {
	settings  PostgresSettings
	container testcontainers.Container
	db        *sql.DB
	connStr   string
}

func NewPostgreSQLManager(settings PostgresSettings) DatabaseManager {
	return &PostgreSQLManager{settings: settings}
}

func (p *PostgreSQLManager) Setup(ctx context.Context) error {
	slog.Debug("starting postgresql container", "image", p.settings.Image)
	container, err := postgres.Run(ctx,
		p.settings.Image,
		postgres.WithDatabase(p.settings.Database),
		postgres.WithUsername(p.settings.Username),
		postgres.WithPassword(p.settings.Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute)),
	)
	if err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}
	p.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return fmt.Errorf("failed to get connection string: %w", err)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	p.db = db

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	p.connStr = connStr

	slog.Info("postgresql container ready")
	return nil
}

func (p *PostgreSQLManager) Close(ctx context.Context) error {
	if p.db != nil {
		p.db.Close()
	}
	if p.container != nil {
		return p.container.Terminate(ctx)
	}
	return nil
}

func (p *PostgreSQLManager) ExecScript(ctx context.Context, script string) error {
	if p.db == nil {
		return fmt.Errorf("database is not set up")
	}
	if _, err := p.db.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("failed to execute script: %w", err)
	}
	slog.Debug("script executed successfully", "size", len(script))
	return nil
}

func (p *PostgreSQLManager) GetDB() *sql.DB {
	return p.db
}

func (p *PostgreSQLManager) GetConnectionString() string {
	return p.connStr
}

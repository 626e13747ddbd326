package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const verifiableScript = `
create domain code as varchar(60);
create domain status as character varying(10) check (value in ('NEW', 'DONE'));

create table samples (
    id bigint,
    code code not null,
    state status,
    kind varchar(1),
    note text,
    constraint samples_pk primary key (id)
);

alter table samples add constraint samples_kind_ck check (kind in ('A', 'B'));

create table notes (
    id bigint primary key,
    body varchar(200)
);
`

func TestPostgreSQLManagerIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgresql integration test in short mode")
	}
	if !isDockerAvailable() {
		t.Skip("docker not available, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	dbManager := NewPostgreSQLManager(postgresSettings(cfg))

	require.NoError(t, dbManager.Setup(ctx))
	defer func() {
		if err := dbManager.Close(ctx); err != nil {
			t.Logf("failed to cleanup database: %v", err)
		}
	}()

	assert.NotNil(t, dbManager.GetDB())
	assert.Contains(t, dbManager.GetConnectionString(), "sslmode=disable")

	require.NoError(t, dbManager.ExecScript(ctx, "create table scratch (c varchar(3));"))
	err = dbManager.ExecScript(ctx, "create tabel broken;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute script")
}

func TestVerifyIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping verify integration test in short mode")
	}
	if !isDockerAvailable() {
		t.Skip("docker not available, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	output, err := verifyCore(ctx, "schema.sql", "postgres", staticScript(verifiableScript),
		NewPostgreSQLManager(postgresSettings(cfg)), quietLogger())
	require.NoError(t, err, output)
	assert.Equal(t, "restrictions of 2 tables match the database\n", output)
}

func TestPostgreSQLManagerWithoutSetup(t *testing.T) {
	dbManager := NewPostgreSQLManager(PostgresSettings{Image: "postgres:16-alpine"})

	err := dbManager.ExecScript(context.Background(), "select 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is not set up")
	assert.Nil(t, dbManager.GetDB())
	assert.NoError(t, dbManager.Close(context.Background()))
}

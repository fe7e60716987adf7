//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestSEOScoreWithMySQL runs the CLI against a MySQL cache and history backend.
func TestSEOScoreWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "seoscore",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/seoscore?parseTime=true", host, port.Port())
	runBackendScenario(t, "mysql", connStr)
}

// TestSEOScoreWithPostgres runs the CLI against a PostgreSQL cache and history backend.
func TestSEOScoreWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runBackendScenario(t, "postgresql", connStr)
}

// runBackendScenario clears both stores, analyzes a site and reads back the status.
func runBackendScenario(t *testing.T, backend, connStr string) {
	t.Helper()
	env := []string{
		"SEOSCORE_CACHE_BACKEND=" + backend,
		"SEOSCORE_CACHE_DB_CONNECT=" + connStr,
		"SEOSCORE_ANALYSIS_BACKEND=" + backend,
		"SEOSCORE_ANALYSIS_DB_CONNECT=" + connStr,
		"SEOSCORE_COLOR=no",
	}
	site := writeSite(t)

	_, err := runCommand(t, env, "cache", "clear")
	require.NoError(t, err)

	_, err = runCommand(t, env, "history", "clear")
	require.NoError(t, err)

	_, err = runCommand(t, env, "history", "migrate")
	require.NoError(t, err)

	_, err = runCommand(t, env, "analyze", site, "--limit", "5")
	require.NoError(t, err)

	output, err := runCommand(t, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, output, backend)

	output, err = runCommand(t, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "Total Runs: 1")
}

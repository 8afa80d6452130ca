//go:build integration

// Package testinfra starts throwaway containers for integration tests.
//
//	go test -tags integration ./internal/repositories/...
package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"amazonia/internal/config"
	"amazonia/internal/infra"
)

const (
	postgresImage = "pgvector/pgvector:pg16"
	postgresPort  = "5432/tcp"
)

// IsDockerAvailable checks if the Docker daemon is reachable.
func IsDockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "docker", "info").Run() == nil
}

// Postgres is a migrated database running in a container.
type Postgres struct {
	DB        *gorm.DB
	URL       string
	container testcontainers.Container
}

// StartPostgres runs Postgres with pgvector and applies the schema.
func StartPostgres(ctx context.Context) (*Postgres, error) {
	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{postgresPort},
		Env: map[string]string{
			"POSTGRES_USER":     "amazonia",
			"POSTGRES_PASSWORD": "amazonia",
			"POSTGRES_DB":       "amazonia",
		},
		// The entrypoint restarts the server once after initdb.
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(postgresPort),
		).WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	pg := &Postgres{
		URL:       fmt.Sprintf("postgres://amazonia:amazonia@%s:%s/amazonia?sslmode=disable", host, port.Port()),
		container: container,
	}
	pg.DB, err = infra.InitPostgresql(config.DatabaseConfig{
		URL:             pg.URL,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		pg.Terminate(ctx)
		return nil, err
	}
	if err := infra.Migrate(pg.DB); err != nil {
		pg.Terminate(ctx)
		return nil, err
	}
	return pg, nil
}

// Terminate closes the pool and removes the container.
func (p *Postgres) Terminate(ctx context.Context) {
	if p.DB != nil {
		infra.ClosePostgresql(p.DB)
	}
	if p.container != nil {
		p.container.Terminate(ctx) //nolint:errcheck
	}
}

//go:build integration

// Package pgtest starts a throwaway PostgreSQL for integration tests, migrated and seeded
// with a small location dataset.
package pgtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"charmi-backend/internal/domains/location/model"
	"charmi-backend/internal/infrastructure/importer"
	"charmi-backend/internal/infrastructure/migrations"
)

// Seeded location ids. Kadikoy and Besiktas lie in Istanbul, Mitte in Berlin.
const (
	Turkey   int64 = 1
	Germany  int64 = 2
	Istanbul int64 = 34
	Berlin   int64 = 10
	Kadikoy  int64 = 340
	Besiktas int64 = 341
	Mitte    int64 = 100
)

func Seed() *importer.Dataset {
	return &importer.Dataset{
		Countries: []model.Country{{ID: Turkey, Name: "Turkey"}, {ID: Germany, Name: "Germany"}},
		Cities: []model.City{
			{ID: Istanbul, Name: "Istanbul", CountryID: Turkey},
			{ID: Berlin, Name: "Berlin", CountryID: Germany},
		},
		Districts: []model.District{
			{ID: Kadikoy, DistrictName: "Kadikoy", CityID: Istanbul},
			{ID: Besiktas, DistrictName: "Besiktas", CityID: Istanbul},
			{ID: Mitte, DistrictName: "Mitte", CityID: Berlin},
		},
	}
}

// NewPool returns a pool to a fresh, migrated and seeded database. The container is
// terminated when the test finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("charmi_test"),
		postgres.WithUsername("charmi"),
		postgres.WithPassword("charmi"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := migrations.Run(ctx, pool, migrations.Files()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := importer.Import(ctx, pool, Seed()); err != nil {
		t.Fatalf("seed locations: %v", err)
	}
	return pool
}

// CreateUser inserts a user and returns its id.
func CreateUser(t *testing.T, pool *pgxpool.Pool, email string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (email, full_name) VALUES ($1, $2) RETURNING id`,
		email, "Test User",
	).Scan(&id)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

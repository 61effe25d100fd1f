package integration

import (
	"context"
	"testing"
	"time"

	"autoparts/internal/database"
	"autoparts/internal/model"
	"autoparts/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, connects a pool and
// applies the schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// seedUser inserts a shop customer and returns it.
func seedUser(t *testing.T, db *TestDB, id string) *model.User {
	t.Helper()

	repo := repository.NewUserRepository(db.Pool, zerolog.Nop())
	user, err := repo.Upsert(context.Background(), &model.User{
		ID:         id,
		FirstName:  "Test",
		TgUsername: "test_" + id,
		Role:       model.RoleUser,
	})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// seedProduct inserts a catalogue product with the given price.
func seedProduct(t *testing.T, db *TestDB, name string, price decimal.Decimal) *model.Product {
	t.Helper()

	ctx := context.Background()
	repo := repository.NewProductRepository(db.Pool, zerolog.Nop())

	category := &model.Category{ID: uuid.New(), Name: "parts-" + uuid.NewString()[:8]}
	if err := repo.CreateCategory(ctx, category); err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	product := &model.Product{
		ID:          uuid.New(),
		Name:        name,
		Price:       price,
		CategoryID:  category.ID,
		IsAvailable: true,
	}
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

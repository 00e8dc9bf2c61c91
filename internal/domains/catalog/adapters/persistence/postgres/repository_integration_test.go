//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-order-desk/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-order-desk/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-order-desk/internal/platform/postgres"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("orderdesk_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestRepository_SaveKeepsDecimalPrice(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db, platformpostgres.NewSequence(db))
	ctx := context.Background()

	id, err := repo.NextID(ctx)
	require.NoError(t, err)
	product, err := domain.NewProduct(id, domain.Details{
		Name:        "Widget",
		Description: "Steel widget",
		Price:       decimal.RequireFromString("19.90"),
		Stock:       12,
	})
	require.NoError(t, err)

	saved, err := repo.Save(ctx, product)
	require.NoError(t, err)
	assert.True(t, saved.Entity.Price.Equal(decimal.RequireFromString("19.90")))
	assert.Equal(t, 12, saved.Entity.Stock)
	assert.True(t, saved.Entity.Active)

	moved, err := repo.MoveStock(ctx, id, -5)
	require.NoError(t, err)
	assert.Equal(t, 7, moved.Entity.Stock)
	_, err = repo.MoveStock(ctx, id, -8)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// a stale snapshot must not put the removed units back
	require.NoError(t, product.Deactivate())
	updated, err := repo.Save(ctx, product)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Entity.Stock)
	assert.False(t, updated.Entity.Active)

	set, err := repo.SetStock(ctx, id, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Entity.Stock)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

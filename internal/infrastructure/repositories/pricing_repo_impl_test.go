package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
)

func TestServicePricingRepository_UpsertKeepsHistory(t *testing.T) {
	db := newTestDB(t)
	createPricingTable(t, db)
	repo := NewServicePricingRepository(db)
	ctx := context.Background()

	_, err := repo.GetActive(ctx)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	first := &entities.ServicePricing{
		ID:               uuid.New(),
		SmallPriceCents:  3000,
		MediumPriceCents: 4500,
		LargePriceCents:  6000,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, first))

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(4500), active.MediumPriceCents)

	second := &entities.ServicePricing{
		ID:               uuid.New(),
		SmallPriceCents:  3500,
		MediumPriceCents: 5000,
		LargePriceCents:  7000,
		CreatedAt:        time.Now().Add(time.Second),
		UpdatedAt:        time.Now().Add(time.Second),
	}
	require.NoError(t, repo.Upsert(ctx, second))

	active, err = repo.GetActive(ctx)
	require.NoError(t, err)
	require.Equal(t, second.ID, active.ID)
	require.Equal(t, int64(5000), active.MediumPriceCents)

	// superseded configuration stays in the table, deactivated
	var count int64
	require.NoError(t, db.Table("service_pricings").Count(&count).Error)
	require.Equal(t, int64(2), count)
}

func TestServicePricingRepository_DBErrorBranches(t *testing.T) {
	db := newTestDB(t)
	// intentionally skip table creation
	repo := NewServicePricingRepository(db)
	ctx := context.Background()

	_, err := repo.GetActive(ctx)
	require.Error(t, err)
	err = repo.Upsert(ctx, &entities.ServicePricing{ID: uuid.New()})
	require.Error(t, err)
}

package rescue

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
)

func setupRescueTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	schema := `
CREATE TABLE IF NOT EXISTS rescue_items (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  type TEXT NOT NULL,
  quantity TEXT NOT NULL,
  original_price NUMERIC NOT NULL,
  rescue_price NUMERIC NOT NULL,
  city TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'available',
  is_hot INTEGER NOT NULL DEFAULT 0,
  claimed_by TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS rescue_items`).Error)
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func newRescueItem(t *testing.T, db *gorm.DB, status enums.RescueItemStatus) *models.RescueItem {
	t.Helper()

	item := &models.RescueItem{
		ID:            uuid.New(),
		VendorID:      uuid.New(),
		Title:         "Leftover biryani",
		Description:   "Ten plates from the lunch rush",
		Type:          enums.RescueItemTypePrepared,
		Quantity:      "10 plates",
		OriginalPrice: decimal.NewFromInt(500),
		RescuePrice:   decimal.NewFromInt(200),
		City:          "mumbai",
		Status:        status,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestClaimTransitionsAvailableItem(t *testing.T) {
	db := setupRescueTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := newRescueItem(t, db, enums.RescueItemStatusAvailable)
	claimant := uuid.New()

	affected, err := repo.Claim(ctx, item.ID, claimant)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	reloaded, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RescueItemStatusClaimed, reloaded.Status)
	require.NotNil(t, reloaded.ClaimedBy)
	assert.Equal(t, claimant, *reloaded.ClaimedBy)
}

func TestClaimIsAtMostOnce(t *testing.T) {
	db := setupRescueTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := newRescueItem(t, db, enums.RescueItemStatusAvailable)

	const racers = 10
	var wg sync.WaitGroup
	wins := make(chan uuid.UUID, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimant := uuid.New()
			affected, err := repo.Claim(ctx, item.ID, claimant)
			require.NoError(t, err)
			if affected == 1 {
				wins <- claimant
			}
		}()
	}
	wg.Wait()
	close(wins)

	var winners []uuid.UUID
	for w := range wins {
		winners = append(winners, w)
	}
	require.Len(t, winners, 1, "exactly one racer should win the claim")

	reloaded, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RescueItemStatusClaimed, reloaded.Status)
	require.NotNil(t, reloaded.ClaimedBy)
	assert.Equal(t, winners[0], *reloaded.ClaimedBy)
}

func TestClaimSkipsOwnListing(t *testing.T) {
	db := setupRescueTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := newRescueItem(t, db, enums.RescueItemStatusAvailable)

	affected, err := repo.Claim(ctx, item.ID, item.VendorID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)
}

func TestClaimSkipsUnavailableItem(t *testing.T) {
	db := setupRescueTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := newRescueItem(t, db, enums.RescueItemStatusCompleted)

	affected, err := repo.Claim(ctx, item.ID, uuid.New())
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)
}

func TestCompleteOnlyFromClaimed(t *testing.T) {
	db := setupRescueTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	available := newRescueItem(t, db, enums.RescueItemStatusAvailable)
	affected, err := repo.Complete(ctx, available.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)

	claimed := newRescueItem(t, db, enums.RescueItemStatusAvailable)
	_, err = repo.Claim(ctx, claimed.ID, uuid.New())
	require.NoError(t, err)

	affected, err = repo.Complete(ctx, claimed.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	reloaded, err := repo.FindByID(ctx, claimed.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RescueItemStatusCompleted, reloaded.Status)
}

func TestListByCityFiltersAvailability(t *testing.T) {
	db := setupRescueTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	newRescueItem(t, db, enums.RescueItemStatusAvailable)
	newRescueItem(t, db, enums.RescueItemStatusClaimed)

	rows, err := repo.ListByCity(ctx, "mumbai", enums.RescueItemStatusAvailable, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.RescueItemStatusAvailable, rows[0].Status)
}

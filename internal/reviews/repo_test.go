package reviews

import (
	"context"
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

func setupReviewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS reviews`).Error)
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS users`).Error)
	require.NoError(t, db.Exec(`
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'vendor',
  city TEXT NOT NULL,
  profile_image TEXT,
  rating NUMERIC NOT NULL DEFAULT 0.0,
  review_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`).Error)
	require.NoError(t, db.Exec(`
CREATE TABLE reviews (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  buyer_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT,
  rescue_item_id TEXT,
  created_at DATETIME
);`).Error)
	return db
}

func newVendorRow(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	vendor := &models.User{
		ID:           uuid.New(),
		Username:     "ramesh",
		Email:        "ramesh@example.com",
		PasswordHash: "x",
		Role:         enums.UserRoleVendor,
		City:         "mumbai",
		Rating:       decimal.Zero,
	}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

func TestApplyRatingAggregateFoldsRunningAverage(t *testing.T) {
	db := setupReviewTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := newVendorRow(t, db)

	for _, rating := range []int{5, 4, 3} {
		affected, err := repo.ApplyRatingAggregate(ctx, vendor.ID, rating)
		require.NoError(t, err)
		require.EqualValues(t, 1, affected)
	}

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", vendor.ID).Error)
	assert.Equal(t, 3, reloaded.ReviewCount)
	// 5 -> 5.0; (5.0+4)/2 -> 4.5; (4.5*2+3)/3 -> 4.0
	assert.True(t, reloaded.Rating.Equal(decimal.NewFromFloat(4.0)),
		"expected 4.0, got %s", reloaded.Rating)
}

func TestApplyRatingAggregateUnknownVendor(t *testing.T) {
	db := setupReviewTestDB(t)
	repo := NewRepository(db)

	affected, err := repo.ApplyRatingAggregate(context.Background(), uuid.New(), 5)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)
}

func TestListByVendorReturnsNewestFirst(t *testing.T) {
	db := setupReviewTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := newVendorRow(t, db)
	for i := 1; i <= 3; i++ {
		_, err := repo.Create(ctx, &models.Review{
			ID:       uuid.New(),
			VendorID: vendor.ID,
			BuyerID:  uuid.New(),
			Rating:   i + 2,
		})
		require.NoError(t, err)
	}
	// Another vendor's review must not leak into the feed.
	_, err := repo.Create(ctx, &models.Review{
		ID:       uuid.New(),
		VendorID: uuid.New(),
		BuyerID:  uuid.New(),
		Rating:   1,
	})
	require.NoError(t, err)

	rows, err := repo.ListByVendor(ctx, vendor.ID, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, vendor.ID, row.VendorID)
	}
}

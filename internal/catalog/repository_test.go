package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eyad6789/book-store-platfotms-sub000/pkg/db/models"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/enums"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	vendors := `
CREATE TABLE IF NOT EXISTS vendors (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	books := `
CREATE TABLE IF NOT EXISTS books (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  title TEXT NOT NULL,
  author TEXT NOT NULL,
  isbn TEXT,
  description TEXT,
  categories TEXT,
  price_cents INTEGER NOT NULL,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  sold_count INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(vendors).Error)
	require.NoError(t, db.Exec(books).Error)
	return db
}

func newVendor(t *testing.T, db *gorm.DB, status enums.VendorStatus, active bool) *models.Vendor {
	t.Helper()

	vendor := &models.Vendor{
		ID:       uuid.New(),
		Name:     "Paper Trail Books",
		Email:    fmt.Sprintf("vendor_%s@example.com", uuid.NewString()),
		Status:   status,
		IsActive: active,
	}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

func newBook(t *testing.T, db *gorm.DB, vendorID uuid.UUID, stock int) *models.Book {
	t.Helper()

	book := &models.Book{
		ID:            uuid.New(),
		VendorID:      vendorID,
		Title:         "The Test Harness",
		Author:        "A. Writer",
		PriceCents:    1500,
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func TestDecrementStockGuardsAgainstOversell(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := newVendor(t, db, enums.VendorStatusApproved, true)
	book := newBook(t, db, vendor.ID, 3)

	ok, err := repo.DecrementStock(ctx, book.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, book.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	reloaded, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.StockQuantity)
	assert.Equal(t, 2, reloaded.SoldCount)
}

func TestDecrementStockExactRemainderReachesZero(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := newVendor(t, db, enums.VendorStatusApproved, true)
	book := newBook(t, db, vendor.ID, 5)

	ok, err := repo.DecrementStock(ctx, book.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	reloaded, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.StockQuantity)
}

func TestRestoreStockUnwindsDecrement(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := newVendor(t, db, enums.VendorStatusApproved, true)
	book := newBook(t, db, vendor.ID, 10)

	ok, err := repo.DecrementStock(ctx, book.ID, 4)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, repo.RestoreStock(ctx, book.ID, 4))

	reloaded, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.StockQuantity)
	assert.Equal(t, 0, reloaded.SoldCount)
}

func TestRestoreStockFloorsSoldCountAtZero(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := newVendor(t, db, enums.VendorStatusApproved, true)
	book := newBook(t, db, vendor.ID, 1)

	require.NoError(t, repo.RestoreStock(ctx, book.ID, 3))

	reloaded, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.StockQuantity)
	assert.Equal(t, 0, reloaded.SoldCount)
}

func TestFindSellableByIDsPreloadsVendor(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	approved := newVendor(t, db, enums.VendorStatusApproved, true)
	suspended := newVendor(t, db, enums.VendorStatusSuspended, true)
	first := newBook(t, db, approved.ID, 5)
	second := newBook(t, db, suspended.ID, 5)

	books, err := repo.FindSellableByIDs(ctx, []uuid.UUID{first.ID, second.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, books, 2)

	byID := map[uuid.UUID]models.Book{}
	for _, b := range books {
		byID[b.ID] = b
	}
	require.NotNil(t, byID[first.ID].Vendor)
	assert.True(t, byID[first.ID].Vendor.Sellable())
	require.NotNil(t, byID[second.ID].Vendor)
	assert.False(t, byID[second.ID].Vendor.Sellable())
}

func TestListByVendorReturnsOnlyOwnBooks(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mine := newVendor(t, db, enums.VendorStatusApproved, true)
	other := newVendor(t, db, enums.VendorStatusApproved, true)
	newBook(t, db, mine.ID, 1)
	newBook(t, db, mine.ID, 2)
	newBook(t, db, other.ID, 3)

	books, err := repo.ListByVendor(ctx, mine.ID)
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

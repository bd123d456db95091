package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eyad6789/book-store-platfotms-sub000/pkg/enums"
	pkgerrors "github.com/eyad6789/book-store-platfotms-sub000/pkg/errors"
)

func newCatalogService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func TestCreateBookRequiresSellableVendor(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	pending := newVendor(t, db, enums.VendorStatusPending, true)
	inactive := newVendor(t, db, enums.VendorStatusApproved, false)

	input := CreateBookInput{Title: "Go Notes", Author: "R. Pike", PriceCents: 900, StockQuantity: 2, IsActive: true}

	_, err := svc.CreateBook(ctx, pending.ID, input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	_, err = svc.CreateBook(ctx, inactive.ID, input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestCreateBookValidatesInput(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	vendor := newVendor(t, db, enums.VendorStatusApproved, true)

	cases := []struct {
		name  string
		input CreateBookInput
	}{
		{"missing title", CreateBookInput{Author: "A", PriceCents: 100}},
		{"missing author", CreateBookInput{Title: "T", PriceCents: 100}},
		{"negative price", CreateBookInput{Title: "T", Author: "A", PriceCents: -1}},
		{"negative stock", CreateBookInput{Title: "T", Author: "A", PriceCents: 100, StockQuantity: -5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBook(ctx, vendor.ID, tc.input)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestCreateAndGetBookRoundTrip(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	vendor := newVendor(t, db, enums.VendorStatusApproved, true)

	created, err := svc.CreateBook(ctx, vendor.ID, CreateBookInput{
		Title:         "  The Go Programming Language ",
		Author:        "Donovan",
		PriceCents:    4500,
		StockQuantity: 12,
		IsActive:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "The Go Programming Language", created.Title)
	assert.Equal(t, vendor.ID, created.VendorID)

	got, err := svc.GetBook(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 12, got.StockQuantity)
}

func TestUpdateBookRejectsForeignVendor(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	owner := newVendor(t, db, enums.VendorStatusApproved, true)
	intruder := newVendor(t, db, enums.VendorStatusApproved, true)
	book := newBook(t, db, owner.ID, 3)

	title := "Hijacked"
	_, err := svc.UpdateBook(ctx, intruder.ID, book.ID, UpdateBookInput{Title: &title})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestUpdateBookAppliesPartialFields(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	vendor := newVendor(t, db, enums.VendorStatusApproved, true)
	book := newBook(t, db, vendor.ID, 3)

	price := 2000
	inactive := false
	updated, err := svc.UpdateBook(ctx, vendor.ID, book.ID, UpdateBookInput{
		PriceCents: &price,
		IsActive:   &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, 2000, updated.PriceCents)
	assert.False(t, updated.IsActive)
	assert.Equal(t, book.Title, updated.Title)
}

func TestUpdateBookLeavesStockCountersAlone(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	vendor := newVendor(t, db, enums.VendorStatusApproved, true)
	book := newBook(t, db, vendor.ID, 5)

	// An order commits between the vendor reading the listing and saving the
	// edit. The price-only update must not resurrect the pre-order counters.
	repo := NewRepository(db)
	ok, err := repo.DecrementStock(ctx, book.ID, 3)
	require.NoError(t, err)
	require.True(t, ok)

	price := 1800
	updated, err := svc.UpdateBook(ctx, vendor.ID, book.ID, UpdateBookInput{PriceCents: &price})
	require.NoError(t, err)
	assert.Equal(t, 1800, updated.PriceCents)
	assert.Equal(t, 2, updated.StockQuantity)
	assert.Equal(t, 3, updated.SoldCount)

	reloaded, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.StockQuantity)
	assert.Equal(t, 3, reloaded.SoldCount)
}

func TestUpdateColumnsNeverIncludesUneditedCounters(t *testing.T) {
	price := 1200
	changes := updateColumns(UpdateBookInput{PriceCents: &price})
	assert.Equal(t, map[string]any{"price_cents": 1200}, changes)

	stock := 7
	changes = updateColumns(UpdateBookInput{StockQuantity: &stock})
	assert.Equal(t, map[string]any{"stock_quantity": 7}, changes)

	assert.Empty(t, updateColumns(UpdateBookInput{}))
}

func TestGetBookNotFound(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.GetBook(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

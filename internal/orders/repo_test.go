package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eyad6789/book-store-platfotms-sub000/pkg/db/models"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/enums"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:orders_%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
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
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  order_number TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL DEFAULT 'cash_on_delivery',
  subtotal_cents INTEGER NOT NULL,
  shipping_cents INTEGER NOT NULL DEFAULT 0,
  tax_cents INTEGER NOT NULL DEFAULT 0,
  total_cents INTEGER NOT NULL,
  delivery_address TEXT NOT NULL,
  delivery_phone TEXT NOT NULL,
  delivery_notes TEXT,
  tracking_number TEXT,
  delivered_at DATETIME,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	lineItems := `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  book_id TEXT NOT NULL,
  title TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	outboxEvents := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	for _, stmt := range []string{vendors, books, orders, lineItems, outboxEvents} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestVendor(t *testing.T, db *gorm.DB) *models.Vendor {
	t.Helper()

	vendor := &models.Vendor{
		ID:       uuid.New(),
		Name:     "Inkwell Books",
		Email:    fmt.Sprintf("vendor_%s@example.com", uuid.NewString()),
		Status:   enums.VendorStatusApproved,
		IsActive: true,
	}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

func newTestBook(t *testing.T, db *gorm.DB, vendorID uuid.UUID, priceCents, stock int) *models.Book {
	t.Helper()

	book := &models.Book{
		ID:            uuid.New(),
		VendorID:      vendorID,
		Title:         "A Repo Test Book",
		Author:        "Q. Author",
		PriceCents:    priceCents,
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func newTestOrder(t *testing.T, db *gorm.DB, customerID uuid.UUID, bookID uuid.UUID) *models.Order {
	t.Helper()

	repo := NewRepository(db)
	number, err := generateOrderNumber(time.Now())
	require.NoError(t, err)
	order := &models.Order{
		CustomerID:      customerID,
		OrderNumber:     number,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		PaymentMethod:   enums.PaymentMethodCashOnDelivery,
		SubtotalCents:   3000,
		TotalCents:      3000,
		DeliveryAddress: "12 Shelf Street",
		DeliveryPhone:   "+15551234567",
		Items: []models.OrderLineItem{
			{BookID: bookID, Title: "A Repo Test Book", Quantity: 2, UnitPriceCents: 1500, TotalCents: 3000},
		},
	}
	created, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestCreateOrderPersistsLineItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := newTestVendor(t, db)
	book := newTestBook(t, db, vendor.ID, 1500, 10)
	order := newTestOrder(t, db, uuid.New(), book.ID)

	require.NotEqual(t, uuid.Nil, order.ID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, order.ID, order.Items[0].OrderID)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, book.ID, found.Items[0].BookID)
	assert.Equal(t, 3000, found.TotalCents)
}

func TestCreateOrderRejectsDuplicateNumber(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := newTestVendor(t, db)
	book := newTestBook(t, db, vendor.ID, 1500, 10)
	first := newTestOrder(t, db, uuid.New(), book.ID)

	_, err := repo.CreateOrder(ctx, &models.Order{
		CustomerID:      uuid.New(),
		OrderNumber:     first.OrderNumber,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		PaymentMethod:   enums.PaymentMethodCashOnDelivery,
		SubtotalCents:   1000,
		TotalCents:      1000,
		DeliveryAddress: "34 Stack Lane",
		DeliveryPhone:   "+15557654321",
	})
	require.Error(t, err)
}

func TestUpdateStatusFromIsCompareAndSwap(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := newTestVendor(t, db)
	book := newTestBook(t, db, vendor.ID, 1500, 10)
	order := newTestOrder(t, db, uuid.New(), book.ID)

	applied, err := repo.UpdateStatusFrom(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusConfirmed, nil)
	require.NoError(t, err)
	assert.True(t, applied)

	// Second writer still believes the order is pending.
	applied, err = repo.UpdateStatusFrom(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusCancelled, nil)
	require.NoError(t, err)
	assert.False(t, applied)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, found.Status)
}

func TestUpdateStatusFromAppliesStamps(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := newTestVendor(t, db)
	book := newTestBook(t, db, vendor.ID, 1500, 10)
	order := newTestOrder(t, db, uuid.New(), book.ID)

	now := time.Now().UTC()
	applied, err := repo.UpdateStatusFrom(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusCancelled, map[string]any{"cancelled_at": now})
	require.NoError(t, err)
	require.True(t, applied)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found.CancelledAt)
}

func TestUpdateShipmentDetailsIgnoresDisallowedColumns(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := newTestVendor(t, db)
	book := newTestBook(t, db, vendor.ID, 1500, 10)
	order := newTestOrder(t, db, uuid.New(), book.ID)

	err := repo.UpdateShipmentDetails(ctx, order.ID, map[string]any{
		"tracking_number": "TRK-123",
		"status":          enums.OrderStatusDelivered,
		"total_cents":     0,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found.TrackingNumber)
	assert.Equal(t, "TRK-123", *found.TrackingNumber)
	assert.Equal(t, enums.OrderStatusPending, found.Status)
	assert.Equal(t, 3000, found.TotalCents)
}

func TestListByCustomerFiltersAndPaginates(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	vendor := newTestVendor(t, db)
	book := newTestBook(t, db, vendor.ID, 1500, 100)
	customerID := uuid.New()

	for i := 0; i < 3; i++ {
		newTestOrder(t, db, customerID, book.ID)
	}
	newTestOrder(t, db, uuid.New(), book.ID)

	list, err := repo.ListByCustomer(ctx, customerID, pagination.Params{Limit: 2}, CustomerOrderFilters{})
	require.NoError(t, err)
	assert.Len(t, list.Orders, 2)
	require.NotEmpty(t, list.NextCursor)

	rest, err := repo.ListByCustomer(ctx, customerID, pagination.Params{Limit: 2, Cursor: list.NextCursor}, CustomerOrderFilters{})
	require.NoError(t, err)
	assert.Len(t, rest.Orders, 1)
	assert.Empty(t, rest.NextCursor)

	status := enums.OrderStatusDelivered
	filtered, err := repo.ListByCustomer(ctx, customerID, pagination.Params{}, CustomerOrderFilters{Status: &status})
	require.NoError(t, err)
	assert.Empty(t, filtered.Orders)
}

func TestOrderContainsVendorBooks(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := newTestVendor(t, db)
	other := newTestVendor(t, db)
	book := newTestBook(t, db, owner.ID, 1500, 10)
	order := newTestOrder(t, db, uuid.New(), book.ID)

	ok, err := repo.OrderContainsVendorBooks(ctx, order.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.OrderContainsVendorBooks(ctx, order.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eyad6789/book-store-platfotms-sub000/pkg/db/models"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/enums"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/pagination"
)

// Repository defines persistence operations for orders and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, number string) (*models.Order, error)
	// UpdateStatusFrom applies the status change only when the row still holds
	// the expected current status. Returns false when another writer won.
	UpdateStatusFrom(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, stamps map[string]any) (bool, error)
	UpdateShipmentDetails(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters CustomerOrderFilters) (*CustomerOrderList, error)
	OrderContainsVendorBooks(ctx context.Context, orderID, vendorID uuid.UUID) (bool, error)
}

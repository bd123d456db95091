package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/eyad6789/book-store-platfotms-sub000/pkg/db/models"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/enums"
)

// LineItemRequest is one requested book within a placement.
type LineItemRequest struct {
	BookID   uuid.UUID
	Quantity int
}

// PlaceOrderInput captures the validated payload for placing an order.
type PlaceOrderInput struct {
	CustomerID      uuid.UUID
	Items           []LineItemRequest
	DeliveryAddress string
	DeliveryPhone   string
	DeliveryNotes   *string
	PaymentMethod   enums.PaymentMethod
}

// TransitionInput carries the contextual metadata required to move an order
// through its status lifecycle.
type TransitionInput struct {
	OrderID     uuid.UUID
	NewStatus   enums.OrderStatus
	ActorUserID uuid.UUID
	ActorRole   enums.ActorRole
}

// ShipmentUpdateInput holds the narrow fields a vendor may update without
// touching order status or money columns.
type ShipmentUpdateInput struct {
	OrderID        uuid.UUID
	TrackingNumber *string
	DeliveryNotes  *string
}

// CustomerOrderFilters describe the inputs supported by the customer list.
type CustomerOrderFilters struct {
	Status   *enums.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// CustomerOrderList wraps the paginated orders plus the next page cursor.
type CustomerOrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// InsufficientStockDetails names the first line that could not be satisfied.
type InsufficientStockDetails struct {
	BookID    uuid.UUID `json:"book_id"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
}

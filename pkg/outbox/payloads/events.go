package payloads

import (
	"github.com/google/uuid"

	"github.com/eyad6789/book-store-platfotms-sub000/pkg/enums"
)

// OrderLinePayload is the per-book snapshot carried on order events.
type OrderLinePayload struct {
	BookID         uuid.UUID `json:"book_id"`
	Title          string    `json:"title"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int       `json:"unit_price_cents"`
	TotalCents     int       `json:"total_cents"`
}

// OrderCreatedEvent is emitted once the placement transaction commits.
type OrderCreatedEvent struct {
	OrderID         uuid.UUID          `json:"order_id"`
	OrderNumber     string             `json:"order_number"`
	CustomerID      uuid.UUID          `json:"customer_id"`
	Lines           []OrderLinePayload `json:"lines"`
	SubtotalCents   int                `json:"subtotal_cents"`
	ShippingCents   int                `json:"shipping_cents"`
	TaxCents        int                `json:"tax_cents"`
	TotalCents      int                `json:"total_cents"`
	DeliveryAddress string             `json:"delivery_address"`
	DeliveryPhone   string             `json:"delivery_phone"`
}

// OrderStatusChangedEvent is emitted whenever the status state machine
// applies a transition.
type OrderStatusChangedEvent struct {
	OrderID        uuid.UUID         `json:"order_id"`
	OrderNumber    string            `json:"order_number"`
	CustomerID     uuid.UUID         `json:"customer_id"`
	PreviousStatus enums.OrderStatus `json:"previous_status"`
	NewStatus      enums.OrderStatus `json:"new_status"`
}

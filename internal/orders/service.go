package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eyad6789/book-store-platfotms-sub000/internal/catalog"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/db"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/db/models"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/enums"
	pkgerrors "github.com/eyad6789/book-store-platfotms-sub000/pkg/errors"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/metrics"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/outbox"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/outbox/payloads"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/pagination"
)

const (
	orderNumberConstraint = "ux_orders_order_number"
	orderNumberAttempts   = 3
	maxLineQuantity       = 100
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines order placement and lifecycle operations.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters CustomerOrderFilters) (*CustomerOrderList, error)
	TransitionStatus(ctx context.Context, input TransitionInput) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID, actorUserID uuid.UUID, actorRole enums.ActorRole) (*models.Order, error)
	UpdateShipment(ctx context.Context, input ShipmentUpdateInput) (*models.Order, error)
	ContainsVendorBooks(ctx context.Context, orderID, vendorID uuid.UUID) (bool, error)
}

type service struct {
	repo    Repository
	books   *catalog.Repository
	tx      txRunner
	outbox  outboxPublisher
	pricer  *Pricer
	metrics *metrics.OrderMetrics
}

// NewService builds the order service with the required dependencies.
// Metrics may be nil.
func NewService(repo Repository, books *catalog.Repository, tx txRunner, publisher outboxPublisher, pricer *Pricer, m *metrics.OrderMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if books == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("pricer required")
	}
	return &service{
		repo:    repo,
		books:   books,
		tx:      tx,
		outbox:  publisher,
		pricer:  pricer,
		metrics: m,
	}, nil
}

// PlaceOrder atomically checks eligibility, decrements stock, prices the
// order, and persists it together with its outbox event. Either every effect
// commits or none do.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	started := time.Now()
	order, err := s.placeOrder(ctx, input)
	if err != nil {
		s.metrics.ObservePlaceDuration("error", time.Since(started))
		s.metrics.IncRejected(rejectionReason(err))
		return nil, err
	}
	s.metrics.ObservePlaceDuration("success", time.Since(started))
	s.metrics.IncPlaced()
	return order, nil
}

func (s *service) placeOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if err := normalizePlaceInput(&input); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		var placed *models.Order
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			created, err := s.placeOrderTx(ctx, tx, input)
			if err != nil {
				return err
			}
			placed = created
			return nil
		})
		if err == nil {
			return placed, nil
		}
		if db.IsUniqueViolation(err, orderNumberConstraint) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, lastErr, "could not allocate a unique order number")
}

func (s *service) placeOrderTx(ctx context.Context, tx *gorm.DB, input PlaceOrderInput) (*models.Order, error) {
	books := s.books.WithTx(tx)
	repo := s.repo.WithTx(tx)

	ids := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.BookID)
	}
	loaded, err := books.FindSellableByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading books")
	}
	byID := make(map[uuid.UUID]*models.Book, len(loaded))
	for i := range loaded {
		byID[loaded[i].ID] = &loaded[i]
	}

	subtotal := 0
	lines := make([]models.OrderLineItem, 0, len(input.Items))
	for _, item := range input.Items {
		book, ok := byID[item.BookID]
		if !ok {
			return nil, invalidItem(item.BookID, "book not found")
		}
		if !book.IsActive {
			return nil, invalidItem(item.BookID, "book is not available")
		}
		if book.Vendor == nil || !book.Vendor.Sellable() {
			return nil, invalidItem(item.BookID, "vendor is not approved to sell")
		}

		lineTotal := book.PriceCents * item.Quantity
		subtotal += lineTotal
		lines = append(lines, models.OrderLineItem{
			BookID:         book.ID,
			Title:          book.Title,
			Quantity:       item.Quantity,
			UnitPriceCents: book.PriceCents,
			TotalCents:     lineTotal,
		})
	}

	for _, item := range input.Items {
		ok, err := books.DecrementStock(ctx, item.BookID, item.Quantity)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrementing stock")
		}
		if !ok {
			available := 0
			if current, err := books.FindByID(ctx, item.BookID); err == nil {
				available = current.StockQuantity
			}
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
				WithDetails(InsufficientStockDetails{
					BookID:    item.BookID,
					Requested: item.Quantity,
					Available: available,
				})
		}
	}

	shipping := s.pricer.ShippingCents(subtotal)
	tax := s.pricer.TaxCents(subtotal)

	number, err := generateOrderNumber(time.Now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating order number")
	}

	order := &models.Order{
		CustomerID:      input.CustomerID,
		OrderNumber:     number,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		PaymentMethod:   input.PaymentMethod,
		SubtotalCents:   subtotal,
		ShippingCents:   shipping,
		TaxCents:        tax,
		TotalCents:      subtotal + shipping + tax,
		DeliveryAddress: input.DeliveryAddress,
		DeliveryPhone:   input.DeliveryPhone,
		DeliveryNotes:   input.DeliveryNotes,
		Items:           lines,
	}
	created, err := repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	if err := s.emitOrderCreated(ctx, tx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters CustomerOrderFilters) (*CustomerOrderList, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	list, err := s.repo.ListByCustomer(ctx, customerID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// TransitionStatus is the sole owner of post-creation status mutation.
// Cancellation restores every line's stock in the same transaction as the
// status write.
func (s *service) TransitionStatus(ctx context.Context, input TransitionInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.NewStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	var result *models.Order
	var previousStatus enums.OrderStatus
	transitioned := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		books := s.books.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		// Retried cancellations succeed without touching stock again.
		if order.Status == enums.OrderStatusCancelled && input.NewStatus == enums.OrderStatusCancelled {
			result = order
			return nil
		}
		if !canTransition(order.Status, input.NewStatus) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, input.NewStatus))
		}

		now := time.Now().UTC()
		stamps := map[string]any{}
		switch input.NewStatus {
		case enums.OrderStatusDelivered:
			stamps["delivered_at"] = now
		case enums.OrderStatusCancelled:
			stamps["cancelled_at"] = now
		}

		applied, err := repo.UpdateStatusFrom(ctx, order.ID, order.Status, input.NewStatus, stamps)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !applied {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
		}

		if input.NewStatus == enums.OrderStatusCancelled {
			for _, item := range order.Items {
				if err := books.RestoreStock(ctx, item.BookID, item.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
				}
			}
		}

		previous := order.Status
		order.Status = input.NewStatus
		switch input.NewStatus {
		case enums.OrderStatusDelivered:
			order.DeliveredAt = &now
		case enums.OrderStatusCancelled:
			order.CancelledAt = &now
		}

		if err := s.emitStatusChanged(ctx, tx, order, previous, input); err != nil {
			return err
		}

		previousStatus = previous
		transitioned = true
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Counted only once the transaction has committed.
	if transitioned {
		s.metrics.IncTransition(previousStatus.String(), input.NewStatus.String())
	}
	return result, nil
}

// CancelOrder is the cancellation entry point used by customers; it rides the
// same state machine as every other transition.
func (s *service) CancelOrder(ctx context.Context, orderID, actorUserID uuid.UUID, actorRole enums.ActorRole) (*models.Order, error) {
	return s.TransitionStatus(ctx, TransitionInput{
		OrderID:     orderID,
		NewStatus:   enums.OrderStatusCancelled,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
	})
}

func (s *service) UpdateShipment(ctx context.Context, input ShipmentUpdateInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.TrackingNumber == nil && input.DeliveryNotes == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already finalized")
		}

		updates := map[string]any{}
		if input.TrackingNumber != nil {
			updates["tracking_number"] = *input.TrackingNumber
			order.TrackingNumber = input.TrackingNumber
		}
		if input.DeliveryNotes != nil {
			updates["delivery_notes"] = *input.DeliveryNotes
			order.DeliveryNotes = input.DeliveryNotes
		}
		if err := repo.UpdateShipmentDetails(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shipment details")
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) ContainsVendorBooks(ctx context.Context, orderID, vendorID uuid.UUID) (bool, error) {
	return s.repo.OrderContainsVendorBooks(ctx, orderID, vendorID)
}

func (s *service) emitOrderCreated(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	lines := make([]payloads.OrderLinePayload, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, payloads.OrderLinePayload{
			BookID:         item.BookID,
			Title:          item.Title,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents,
		})
	}
	event := outbox.DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Version:       1,
		Actor:         &outbox.ActorRef{UserID: order.CustomerID, Role: string(enums.ActorRoleCustomer)},
		Data: payloads.OrderCreatedEvent{
			OrderID:         order.ID,
			OrderNumber:     order.OrderNumber,
			CustomerID:      order.CustomerID,
			Lines:           lines,
			SubtotalCents:   order.SubtotalCents,
			ShippingCents:   order.ShippingCents,
			TaxCents:        order.TaxCents,
			TotalCents:      order.TotalCents,
			DeliveryAddress: order.DeliveryAddress,
			DeliveryPhone:   order.DeliveryPhone,
		},
	}
	return s.outbox.Emit(ctx, tx, event)
}

func (s *service) emitStatusChanged(ctx context.Context, tx *gorm.DB, order *models.Order, previous enums.OrderStatus, input TransitionInput) error {
	var actor *outbox.ActorRef
	if input.ActorUserID != uuid.Nil {
		actor = &outbox.ActorRef{UserID: input.ActorUserID, Role: string(input.ActorRole)}
	}
	event := outbox.DomainEvent{
		EventType:     enums.EventOrderStatusChanged,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Version:       1,
		Actor:         actor,
		Data: payloads.OrderStatusChangedEvent{
			OrderID:        order.ID,
			OrderNumber:    order.OrderNumber,
			CustomerID:     order.CustomerID,
			PreviousStatus: previous,
			NewStatus:      order.Status,
		},
	}
	return s.outbox.Emit(ctx, tx, event)
}

func normalizePlaceInput(input *PlaceOrderInput) error {
	if input.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order contains no items")
	}
	if strings.TrimSpace(input.DeliveryAddress) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery address required")
	}
	if strings.TrimSpace(input.DeliveryPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery phone required")
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = enums.PaymentMethodCashOnDelivery
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	seen := make(map[uuid.UUID]struct{}, len(input.Items))
	for _, item := range input.Items {
		if item.BookID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "book id required on every line")
		}
		if item.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		if item.Quantity > maxLineQuantity {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("quantity cannot exceed %d per line", maxLineQuantity))
		}
		if _, dup := seen[item.BookID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate book in order")
		}
		seen[item.BookID] = struct{}{}
	}
	return nil
}

func invalidItem(bookID uuid.UUID, message string) error {
	return pkgerrors.New(pkgerrors.CodeInvalidItem, message).
		WithDetails(map[string]any{"book_id": bookID})
}

func rejectionReason(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return strings.ToLower(string(typed.Code()))
	}
	return "internal"
}

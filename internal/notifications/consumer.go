package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/eyad6789/book-store-platfotms-sub000/pkg/db"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/db/models"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/enums"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/logger"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/outbox"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/outbox/idempotency"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/outbox/payloads"
)

const (
	orderNotificationConsumer = "order-notifications"

	notificationDedupeConstraint = "ux_notifications_dedupe_key"
)

type consumerRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches order events and turns them into customer notifications.
type Consumer struct {
	repo         consumerRepository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds an order notification consumer.
func NewConsumer(repo consumerRepository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("orders subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	if eventType != enums.EventOrderCreated && eventType != enums.EventOrderStatusChanged {
		c.logg.Info(logCtx, "skipping non-order event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, orderNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	notification, err := c.buildNotification(eventType, eventID, envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "failed to parse payload", err)
		_ = c.idempotency.Delete(ctx, orderNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"user_id": notification.UserID.String(),
	})

	if err := c.repo.Create(ctx, notification); err != nil {
		// The dedupe key catches replays that slipped past Redis.
		if db.IsUniqueViolation(err, notificationDedupeConstraint) {
			c.logg.Info(logCtx, "notification already recorded")
			return processResult{ack: true}
		}
		c.logg.Error(logCtx, "notification create failed", err)
		_ = c.idempotency.Delete(ctx, orderNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	c.logg.Info(logCtx, "customer notified of order event")
	return processResult{ack: true}
}

func (c *Consumer) buildNotification(eventType enums.OutboxEventType, eventID uuid.UUID, data json.RawMessage) (*models.Notification, error) {
	switch eventType {
	case enums.EventOrderCreated:
		var payload payloads.OrderCreatedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		if payload.CustomerID == uuid.Nil {
			return nil, fmt.Errorf("customer id missing")
		}
		orderID := payload.OrderID
		return &models.Notification{
			UserID:    payload.CustomerID,
			Kind:      enums.NotificationOrderPlaced,
			Title:     "Order placed",
			Body:      fmt.Sprintf("Your order %s has been received.", payload.OrderNumber),
			OrderID:   &orderID,
			DedupeKey: dedupeKey(eventID, enums.NotificationOrderPlaced),
		}, nil
	case enums.EventOrderStatusChanged:
		var payload payloads.OrderStatusChangedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		if payload.CustomerID == uuid.Nil {
			return nil, fmt.Errorf("customer id missing")
		}
		orderID := payload.OrderID
		return &models.Notification{
			UserID:    payload.CustomerID,
			Kind:      enums.NotificationOrderStatusChanged,
			Title:     statusChangeTitle(payload.NewStatus),
			Body:      fmt.Sprintf("Order %s is now %s.", payload.OrderNumber, payload.NewStatus),
			OrderID:   &orderID,
			DedupeKey: dedupeKey(eventID, enums.NotificationOrderStatusChanged),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported event type %q", eventType)
	}
}

func statusChangeTitle(status enums.OrderStatus) string {
	switch status {
	case enums.OrderStatusShipped:
		return "Order shipped"
	case enums.OrderStatusDelivered:
		return "Order delivered"
	case enums.OrderStatusCancelled:
		return "Order cancelled"
	default:
		return "Order updated"
	}
}

func dedupeKey(eventID uuid.UUID, kind enums.NotificationKind) *string {
	key := fmt.Sprintf("%s:%s", eventID, kind)
	return &key
}

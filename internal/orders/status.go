package orders

import "github.com/eyad6789/book-store-platfotms-sub000/pkg/enums"

// nextStatus encodes the linear fulfillment path. Cancellation is handled
// separately because it is reachable from every non-terminal status.
var nextStatus = map[enums.OrderStatus]enums.OrderStatus{
	enums.OrderStatusPending:    enums.OrderStatusConfirmed,
	enums.OrderStatusConfirmed:  enums.OrderStatusProcessing,
	enums.OrderStatusProcessing: enums.OrderStatusShipped,
	enums.OrderStatusShipped:    enums.OrderStatusDelivered,
}

// canTransition reports whether moving from one status to another is legal.
// Same-status re-entry is illegal here; the idempotent cancelled→cancelled
// case is handled by the service before this check.
func canTransition(from, to enums.OrderStatus) bool {
	if from == to {
		return false
	}
	if to == enums.OrderStatusCancelled {
		return !from.IsTerminal()
	}
	return nextStatus[from] == to
}

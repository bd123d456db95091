package enums

import "fmt"

// NotificationKind classifies customer-facing notifications produced by the
// order event consumer.
type NotificationKind string

const (
	NotificationOrderPlaced        NotificationKind = "order_placed"
	NotificationOrderStatusChanged NotificationKind = "order_status_changed"
)

var validNotificationKinds = []NotificationKind{
	NotificationOrderPlaced,
	NotificationOrderStatusChanged,
}

// String implements fmt.Stringer.
func (n NotificationKind) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationKind.
func (n NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw input into a NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}

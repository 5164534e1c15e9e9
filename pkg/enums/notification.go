package enums

import "fmt"

// NotificationType labels the events surfaced to customers and shops.
type NotificationType string

const (
	NotificationTypeOrderConfirmed  NotificationType = "order_confirmed"
	NotificationTypeNewOrder        NotificationType = "new_order"
	NotificationTypeOrderAssigned   NotificationType = "order_assigned"
	NotificationTypeOrderAccepted   NotificationType = "order_accepted"
	NotificationTypeOrderRejected   NotificationType = "order_rejected"
	NotificationTypeOrderDelivered  NotificationType = "order_delivered"
	NotificationTypeOrderCancelled  NotificationType = "order_cancelled"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeOrderConfirmed,
	NotificationTypeNewOrder,
	NotificationTypeOrderAssigned,
	NotificationTypeOrderAccepted,
	NotificationTypeOrderRejected,
	NotificationTypeOrderDelivered,
	NotificationTypeOrderCancelled,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

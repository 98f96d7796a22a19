package enums

import "fmt"

// NotificationType classifies notification records.
type NotificationType string

const (
	NotificationTypeNewOrder    NotificationType = "new_order"
	NotificationTypeOrderUpdate NotificationType = "order_update"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeNewOrder,
	NotificationTypeOrderUpdate,
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

// RecipientRole addresses a notification to a single vendor or to every admin.
type RecipientRole string

const (
	RecipientRoleVendor RecipientRole = "vendor"
	RecipientRoleAdmin  RecipientRole = "admin"
)

// IsValid reports whether the role is known.
func (r RecipientRole) IsValid() bool {
	return r == RecipientRoleVendor || r == RecipientRoleAdmin
}

// RequiresRecipientID reports whether notifications for this role must name a recipient.
func (r RecipientRole) RequiresRecipientID() bool {
	return r == RecipientRoleVendor
}

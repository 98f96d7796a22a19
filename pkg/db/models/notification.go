package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/materialhub-backend/pkg/enums"
)

// Notification is an in-app message addressed to one vendor or broadcast to admins.
type Notification struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	Type          enums.NotificationType `gorm:"column:type;type:text;not null"`
	Title         string                 `gorm:"column:title;type:text;not null"`
	Message       string                 `gorm:"column:message;type:text;not null"`
	RecipientRole enums.RecipientRole    `gorm:"column:recipient_role;type:text;not null;index"`
	RecipientID   *string                `gorm:"column:recipient_id;type:text;index"`
	Data          NotificationData       `gorm:"column:data;type:jsonb;serializer:json"`
	Read          bool                   `gorm:"column:read;not null;default:false"`
	Timestamp     time.Time              `gorm:"column:timestamp;not null"`
}

// NotificationData is the structured payload stored with a notification.
type NotificationData struct {
	OrderIDs    []string           `json:"order_ids"`
	Materials   []NotificationItem `json:"materials"`
	TotalCost   string             `json:"total_cost"`
	ProjectName string             `json:"project_name,omitempty"`
	VendorID    string             `json:"vendor_id,omitempty"`
	VendorName  string             `json:"vendor_name,omitempty"`
	ClientID    string             `json:"client_id,omitempty"`
}

// NotificationItem is one ordered material inside a notification payload.
type NotificationItem struct {
	OrderID   string `json:"order_id"`
	Material  string `json:"material"`
	Category  string `json:"category,omitempty"`
	Quantity  string `json:"quantity"`
	Unit      string `json:"unit,omitempty"`
	TotalCost string `json:"total_cost"`
}

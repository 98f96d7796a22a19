package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/materialhub-backend/pkg/enums"
)

// OrderFeedRecord is the denormalized copy of an Order read by the
// operations and vendor feeds. It shares the order's id.
type OrderFeedRecord struct {
	ID            string              `gorm:"column:id;type:text;primaryKey"`
	ClientID      string              `gorm:"column:client_id;type:text;not null"`
	ProjectName   string              `gorm:"column:project_name;type:text"`
	VendorID      string              `gorm:"column:vendor_id;type:text;not null;index"`
	VendorName    string              `gorm:"column:vendor_name;type:text"`
	MaterialName  string              `gorm:"column:material_name;type:text;not null"`
	Category      string              `gorm:"column:category;type:text;not null"`
	Quantity      decimal.Decimal     `gorm:"column:quantity;type:numeric(12,3);not null"`
	Unit          string              `gorm:"column:unit;type:text"`
	UnitPrice     decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalCost     decimal.Decimal     `gorm:"column:total_cost;type:numeric(14,2);not null"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null"`
	OrderStatus   enums.OrderStatus   `gorm:"column:order_status;type:text;not null"`
	VendorStatus  enums.VendorStatus  `gorm:"column:vendor_status;type:text;not null"`
	VendorRead    bool                `gorm:"column:vendor_read;not null;default:false"`
	Summary       string              `gorm:"column:summary;type:text;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at"`
	UpdatedAt     time.Time           `gorm:"column:updated_at"`
}

func (OrderFeedRecord) TableName() string { return "order_feed" }

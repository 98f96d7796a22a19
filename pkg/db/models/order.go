package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/materialhub-backend/pkg/enums"
)

// Order is the primary record of a placed material order.
type Order struct {
	ID            string              `gorm:"column:id;type:text;primaryKey"`
	ClientID      string              `gorm:"column:client_id;type:text;not null;index"`
	VendorID      string              `gorm:"column:vendor_id;type:text;not null;index"`
	MaterialName  string              `gorm:"column:material_name;type:text;not null"`
	Category      string              `gorm:"column:category;type:text;not null"`
	Quantity      decimal.Decimal     `gorm:"column:quantity;type:numeric(12,3);not null"`
	Unit          string              `gorm:"column:unit;type:text"`
	UnitPrice     decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalCost     decimal.Decimal     `gorm:"column:total_cost;type:numeric(14,2);not null"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	OrderStatus   enums.OrderStatus   `gorm:"column:order_status;type:text;not null;default:'placed'"`
	VendorStatus  enums.VendorStatus  `gorm:"column:vendor_status;type:text;not null;default:'pending'"`
	VendorRead    bool                `gorm:"column:vendor_read;not null;default:false"`
	CreatedAt     time.Time           `gorm:"column:created_at"`
	UpdatedAt     time.Time           `gorm:"column:updated_at"`
}

func (Order) TableName() string { return "orders" }

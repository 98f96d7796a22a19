package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor is a supplier publishing a material price list.
type Vendor struct {
	ID        string           `gorm:"column:id;type:text;primaryKey"`
	Name      string           `gorm:"column:name;type:text;not null"`
	Phone     string           `gorm:"column:phone;type:text"`
	Materials []VendorMaterial `gorm:"foreignKey:VendorID;references:ID"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// VendorMaterial is one priced entry of a vendor's list. Position keeps the
// order the vendor entered the list in.
type VendorMaterial struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	VendorID  string          `gorm:"column:vendor_id;type:text;not null;index"`
	Category  string          `gorm:"column:category;type:text;not null"`
	Name      string          `gorm:"column:name;type:text;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Unit      string          `gorm:"column:unit;type:text"`
	Position  int             `gorm:"column:position;not null;default:0"`
}

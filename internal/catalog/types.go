package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/materialhub-backend/pkg/enums"
)

// VendorRecord is a vendor and its published price list as read from the directory.
type VendorRecord struct {
	ID        string
	Name      string
	Phone     string
	Materials []MaterialEntry
}

// MaterialEntry is one priced line of a vendor's list.
type MaterialEntry struct {
	Category  string
	Name      string
	UnitPrice decimal.Decimal
	Unit      string
}

// VendorOffer is one vendor's price for a catalog item.
type VendorOffer struct {
	VendorID     string          `json:"vendor_id"`
	VendorName   string          `json:"vendor_name"`
	MaterialName string          `json:"material_name"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Unit         string          `json:"unit"`
}

// CatalogItem is a material deduplicated across vendors.
type CatalogItem struct {
	Key      string          `json:"key"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	MinPrice decimal.Decimal `json:"min_price"`
	Unit     string          `json:"unit"`
	// UnitConflict is set when vendors quote the item in different units.
	UnitConflict bool          `json:"unit_conflict"`
	Vendors      []VendorOffer `json:"vendors"`
}

// Offer returns the offer of vendorID for the item.
func (c CatalogItem) Offer(vendorID string) (VendorOffer, bool) {
	for _, offer := range c.Vendors {
		if offer.VendorID == vendorID {
			return offer, true
		}
	}
	return VendorOffer{}, false
}

// Filter narrows and orders a catalog listing.
type Filter struct {
	Text     string
	Category string
	Sort     enums.SortMode
}

package cart

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/materialhub-backend/internal/catalog"
	"github.com/angelmondragon/materialhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/materialhub-backend/pkg/errors"
)

const lineSeparator = "__"

// Line is a draft purchase of one catalog item from one vendor. UnitPrice is
// the vendor's price when the line was first added and never changes.
type Line struct {
	ID           string          `json:"id"`
	CatalogKey   string          `json:"catalog_key"`
	MaterialName string          `json:"material_name"`
	Category     string          `json:"category"`
	VendorID     string          `json:"vendor_id"`
	VendorName   string          `json:"vendor_name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// VendorGroup collects the lines of one vendor.
type VendorGroup struct {
	VendorID   string          `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	Lines      []Line          `json:"lines"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// LineID builds the id of the line for a catalog item and vendor.
func LineID(catalogKey, vendorID string) string {
	return catalogKey + lineSeparator + vendorID
}

// Manager owns the draft lines of one operator session together with the
// payment status the operator has selected for checkout.
type Manager struct {
	lines         []Line
	paymentStatus enums.PaymentStatus
}

func NewManager() *Manager {
	return &Manager{paymentStatus: enums.DefaultPaymentStatus}
}

// AddOrIncrement adds qty of the vendor's offer for item, or grows the
// existing line. An existing line keeps the price it was created with.
func (m *Manager) AddOrIncrement(item catalog.CatalogItem, vendorID string, qty decimal.Decimal) (Line, error) {
	if !qty.IsPositive() {
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero").
			WithDetails(map[string]any{"field": "quantity"})
	}
	offer, ok := item.Offer(vendorID)
	if !ok {
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "vendor does not offer this item").
			WithDetails(map[string]any{"field": "vendor_id", "vendor_id": vendorID, "catalog_key": item.Key})
	}

	id := LineID(item.Key, vendorID)
	if idx := m.indexOf(id); idx >= 0 {
		line := &m.lines[idx]
		line.Quantity = line.Quantity.Add(qty)
		line.LineTotal = line.Quantity.Mul(line.UnitPrice)
		return *line, nil
	}

	unit := offer.Unit
	if unit == "" {
		unit = item.Unit
	}
	line := Line{
		ID:           id,
		CatalogKey:   item.Key,
		MaterialName: item.Name,
		Category:     item.Category,
		VendorID:     offer.VendorID,
		VendorName:   offer.VendorName,
		UnitPrice:    offer.UnitPrice,
		Unit:         unit,
		Quantity:     qty,
		LineTotal:    qty.Mul(offer.UnitPrice),
	}
	m.lines = append(m.lines, line)
	return line, nil
}

// UpdateQuantity sets the quantity of a line. Zero or less removes it.
func (m *Manager) UpdateQuantity(lineID string, qty decimal.Decimal) error {
	idx := m.indexOf(lineID)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if !qty.IsPositive() {
		m.removeAt(idx)
		return nil
	}
	line := &m.lines[idx]
	line.Quantity = qty
	line.LineTotal = qty.Mul(line.UnitPrice)
	return nil
}

// RemoveLine drops a line and reports whether it existed.
func (m *Manager) RemoveLine(lineID string) bool {
	idx := m.indexOf(lineID)
	if idx < 0 {
		return false
	}
	m.removeAt(idx)
	return true
}

// GroupByVendor groups lines by vendor, ordered by each vendor's first line.
func (m *Manager) GroupByVendor() []VendorGroup {
	groups := make([]VendorGroup, 0)
	index := make(map[string]int)
	for _, line := range m.lines {
		pos, ok := index[line.VendorID]
		if !ok {
			pos = len(groups)
			index[line.VendorID] = pos
			groups = append(groups, VendorGroup{
				VendorID:   line.VendorID,
				VendorName: line.VendorName,
				Subtotal:   decimal.Zero,
			})
		}
		groups[pos].Lines = append(groups[pos].Lines, line)
		groups[pos].Subtotal = groups[pos].Subtotal.Add(line.LineTotal)
	}
	return groups
}

// VendorLines returns the lines of one vendor in cart order.
func (m *Manager) VendorLines(vendorID string) []Line {
	out := make([]Line, 0)
	for _, line := range m.lines {
		if line.VendorID == vendorID {
			out = append(out, line)
		}
	}
	return out
}

func (m *Manager) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range m.lines {
		total = total.Add(line.LineTotal)
	}
	return total
}

// Lines returns a copy of the lines in insertion order.
func (m *Manager) Lines() []Line {
	out := make([]Line, len(m.lines))
	copy(out, m.lines)
	return out
}

func (m *Manager) Line(lineID string) (Line, bool) {
	idx := m.indexOf(lineID)
	if idx < 0 {
		return Line{}, false
	}
	return m.lines[idx], true
}

func (m *Manager) Len() int {
	return len(m.lines)
}

func (m *Manager) PaymentStatus() enums.PaymentStatus {
	return m.paymentStatus
}

func (m *Manager) SetPaymentStatus(status enums.PaymentStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status").
			WithDetails(map[string]any{"field": "payment_status"})
	}
	m.paymentStatus = status
	return nil
}

// ResetPaymentStatus restores the default selection after a checkout.
func (m *Manager) ResetPaymentStatus() {
	m.paymentStatus = enums.DefaultPaymentStatus
}

func (m *Manager) indexOf(lineID string) int {
	for i := range m.lines {
		if m.lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

func (m *Manager) removeAt(idx int) {
	m.lines = append(m.lines[:idx], m.lines[idx+1:]...)
}

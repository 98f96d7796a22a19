package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/materialhub-backend/internal/cart"
	"github.com/angelmondragon/materialhub-backend/pkg/enums"
)

const (
	modeSingle      = "single"
	modeVendorGroup = "vendor_group"
)

// LineRemover is the session cart the engine commits to after a verified placement.
type LineRemover interface {
	RemoveLine(lineID string) bool
	ResetPaymentStatus()
}

// PlaceOrderInput submits one cart line.
type PlaceOrderInput struct {
	ActorID       string
	ClientID      string
	Line          cart.Line
	PaymentStatus enums.PaymentStatus
	Cart          LineRemover
}

// PlaceVendorGroupInput submits every line of one vendor.
type PlaceVendorGroupInput struct {
	ActorID       string
	ClientID      string
	VendorID      string
	Lines         []cart.Line
	PaymentStatus enums.PaymentStatus
	Cart          LineRemover
}

// PlacedOrder is one verified order.
type PlacedOrder struct {
	OrderID      string          `json:"order_id"`
	LineID       string          `json:"line_id"`
	MaterialName string          `json:"material_name"`
	Category     string          `json:"category"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// Placement reports a completed checkout.
type Placement struct {
	Orders        []PlacedOrder       `json:"orders"`
	VendorID      string              `json:"vendor_id"`
	VendorName    string              `json:"vendor_name"`
	ClientID      string              `json:"client_id"`
	ProjectName   string              `json:"project_name"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	PlacedAt      time.Time           `json:"placed_at"`
	VendorMessage string              `json:"vendor_message"`
}

// OrderIDs lists the placed order ids in submission order.
func (p *Placement) OrderIDs() []string {
	ids := make([]string, 0, len(p.Orders))
	for _, o := range p.Orders {
		ids = append(ids, o.OrderID)
	}
	return ids
}

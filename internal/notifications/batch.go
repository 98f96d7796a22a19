package notifications

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is one placed order inside a notification batch.
type OrderLine struct {
	OrderID      string
	MaterialName string
	Category     string
	Quantity     decimal.Decimal
	Unit         string
	TotalCost    decimal.Decimal
}

// OrderBatch describes verified orders placed with one vendor for one client
// site in a single checkout.
type OrderBatch struct {
	VendorID    string
	VendorName  string
	VendorPhone string
	ClientID    string
	ProjectName string
	PlacedAt    time.Time
	Lines       []OrderLine
}

// Total sums the line totals of the batch.
func (b OrderBatch) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range b.Lines {
		total = total.Add(line.TotalCost)
	}
	return total
}

func (b OrderBatch) OrderIDs() []string {
	ids := make([]string, 0, len(b.Lines))
	for _, line := range b.Lines {
		ids = append(ids, line.OrderID)
	}
	return ids
}

func (b OrderBatch) combined() bool {
	return len(b.Lines) > 1
}

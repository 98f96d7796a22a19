package orders

import (
	"fmt"

	"github.com/angelmondragon/materialhub-backend/pkg/db/models"
)

// FeedContext carries the display names copied onto a feed record.
type FeedContext struct {
	ProjectName string
	VendorName  string
}

// NewFeedRecord duplicates an order into its feed record and renders the summary.
func NewFeedRecord(order models.Order, fc FeedContext) models.OrderFeedRecord {
	return models.OrderFeedRecord{
		ID:            order.ID,
		ClientID:      order.ClientID,
		ProjectName:   fc.ProjectName,
		VendorID:      order.VendorID,
		VendorName:    fc.VendorName,
		MaterialName:  order.MaterialName,
		Category:      order.Category,
		Quantity:      order.Quantity,
		Unit:          order.Unit,
		UnitPrice:     order.UnitPrice,
		TotalCost:     order.TotalCost,
		PaymentStatus: order.PaymentStatus,
		OrderStatus:   order.OrderStatus,
		VendorStatus:  order.VendorStatus,
		VendorRead:    order.VendorRead,
		Summary:       Summary(order, fc),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// Summary renders the one-line description shown in the operations feed.
func Summary(order models.Order, fc FeedContext) string {
	qty := order.Quantity.String()
	if order.Unit != "" {
		qty += " " + order.Unit
	}
	vendor := fc.VendorName
	if vendor == "" {
		vendor = order.VendorID
	}
	project := fc.ProjectName
	if project == "" {
		project = order.ClientID
	}
	return fmt.Sprintf("%s %s from %s for %s, total ₹%s (payment %s)",
		qty, order.MaterialName, vendor, project, order.TotalCost.StringFixed(2), order.PaymentStatus)
}

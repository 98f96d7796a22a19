package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/materialhub-backend/pkg/db/models"
	"github.com/angelmondragon/materialhub-backend/pkg/enums"
)

const (
	currencySymbol = "₹"
	dateLayout     = "02 Jan 2006"
)

// Dispatcher builds role-addressed notifications for placed orders and
// stores them.
type Dispatcher struct {
	repo  Repository
	now   func() time.Time
	newID func() uuid.UUID
}

func NewDispatcher(repo Repository) (*Dispatcher, error) {
	if repo == nil {
		return nil, errors.New("notifications repository required")
	}
	return &Dispatcher{repo: repo, now: time.Now, newID: uuid.New}, nil
}

// Build returns the vendor notification followed by the admin broadcast.
func (d *Dispatcher) Build(batch OrderBatch) []models.Notification {
	return []models.Notification{d.ForVendor(batch), d.ForAdmin(batch)}
}

// ForVendor addresses the batch to its vendor.
func (d *Dispatcher) ForVendor(batch OrderBatch) models.Notification {
	vendorID := batch.VendorID
	title := "New order received"
	message := fmt.Sprintf("%s for %s", describeLines(batch), batch.ProjectName)
	if batch.combined() {
		title = fmt.Sprintf("New order received (%d items)", len(batch.Lines))
	}
	return d.notification(batch, enums.RecipientRoleVendor, &vendorID, title, message)
}

// ForAdmin broadcasts the batch to every admin.
func (d *Dispatcher) ForAdmin(batch OrderBatch) models.Notification {
	title := "Order placed"
	if batch.combined() {
		title = fmt.Sprintf("Order placed (%d items)", len(batch.Lines))
	}
	message := fmt.Sprintf("%s from %s for %s, total %s",
		describeLines(batch), batch.VendorName, batch.ProjectName, formatMoney(batch.Total()))
	return d.notification(batch, enums.RecipientRoleAdmin, nil, title, message)
}

// Persist stores the notifications.
func (d *Dispatcher) Persist(ctx context.Context, notifications []models.Notification) error {
	for _, n := range notifications {
		if n.RecipientRole.RequiresRecipientID() && (n.RecipientID == nil || *n.RecipientID == "") {
			return fmt.Errorf("notification %s: recipient id required for role %s", n.ID, n.RecipientRole)
		}
	}
	return d.repo.CreateBatch(ctx, notifications)
}

func (d *Dispatcher) notification(batch OrderBatch, role enums.RecipientRole, recipientID *string, title, message string) models.Notification {
	items := make([]models.NotificationItem, 0, len(batch.Lines))
	for _, line := range batch.Lines {
		items = append(items, models.NotificationItem{
			OrderID:   line.OrderID,
			Material:  line.MaterialName,
			Category:  line.Category,
			Quantity:  line.Quantity.String(),
			Unit:      line.Unit,
			TotalCost: line.TotalCost.StringFixed(2),
		})
	}
	timestamp := batch.PlacedAt
	if timestamp.IsZero() {
		timestamp = d.now()
	}
	return models.Notification{
		ID:            d.newID(),
		Type:          enums.NotificationTypeNewOrder,
		Title:         title,
		Message:       message,
		RecipientRole: role,
		RecipientID:   recipientID,
		Read:          false,
		Timestamp:     timestamp.UTC(),
		Data: models.NotificationData{
			OrderIDs:    batch.OrderIDs(),
			Materials:   items,
			TotalCost:   batch.Total().StringFixed(2),
			ProjectName: batch.ProjectName,
			VendorID:    batch.VendorID,
			VendorName:  batch.VendorName,
			ClientID:    batch.ClientID,
		},
	}
}

func describeLines(batch OrderBatch) string {
	parts := make([]string, 0, len(batch.Lines))
	for _, line := range batch.Lines {
		parts = append(parts, fmt.Sprintf("%s %s", formatQuantity(line.Quantity, line.Unit), line.MaterialName))
	}
	return strings.Join(parts, ", ")
}

func formatQuantity(qty decimal.Decimal, unit string) string {
	if unit == "" {
		return qty.String()
	}
	return qty.String() + " " + unit
}

func formatMoney(amount decimal.Decimal) string {
	return currencySymbol + amount.StringFixed(2)
}

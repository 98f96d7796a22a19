package notifications

import (
	"fmt"
	"strings"
)

// VendorMessage renders the text sent to a vendor for a batch. The output
// depends only on the batch.
func VendorMessage(batch OrderBatch) string {
	var b strings.Builder
	b.WriteString("New order from MaterialHub\n\n")
	if len(batch.Lines) == 1 {
		line := batch.Lines[0]
		fmt.Fprintf(&b, "Material: %s\n", line.MaterialName)
		fmt.Fprintf(&b, "Quantity: %s\n", formatQuantity(line.Quantity, line.Unit))
		fmt.Fprintf(&b, "Total: %s\n", formatMoney(line.TotalCost))
	} else {
		b.WriteString("Materials:\n")
		for i, line := range batch.Lines {
			fmt.Fprintf(&b, "%d. %s: %s (%s)\n", i+1, line.MaterialName,
				formatQuantity(line.Quantity, line.Unit), formatMoney(line.TotalCost))
		}
		fmt.Fprintf(&b, "Subtotal: %s\n", formatMoney(batch.Total()))
	}
	fmt.Fprintf(&b, "Project: %s\n", batch.ProjectName)
	fmt.Fprintf(&b, "Date: %s\n", batch.PlacedAt.Format(dateLayout))
	fmt.Fprintf(&b, "Order ID: %s", strings.Join(batch.OrderIDs(), ", "))
	return b.String()
}

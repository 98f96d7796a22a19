package catalog

import "strings"

// Coerce normalizes raw vendor records before indexing. Vendors without an id
// are dropped, as are entries with an empty name or a negative price. The
// second return value counts every dropped entry.
func Coerce(vendors []VendorRecord) ([]VendorRecord, int) {
	out := make([]VendorRecord, 0, len(vendors))
	dropped := 0
	for _, vendor := range vendors {
		id := strings.TrimSpace(vendor.ID)
		if id == "" {
			dropped += len(vendor.Materials)
			continue
		}
		clean := VendorRecord{
			ID:        id,
			Name:      strings.TrimSpace(vendor.Name),
			Phone:     strings.TrimSpace(vendor.Phone),
			Materials: make([]MaterialEntry, 0, len(vendor.Materials)),
		}
		for _, entry := range vendor.Materials {
			name := strings.TrimSpace(entry.Name)
			if name == "" || entry.UnitPrice.IsNegative() {
				dropped++
				continue
			}
			clean.Materials = append(clean.Materials, MaterialEntry{
				Category:  strings.TrimSpace(entry.Category),
				Name:      name,
				UnitPrice: entry.UnitPrice,
				Unit:      strings.TrimSpace(entry.Unit),
			})
		}
		out = append(out, clean)
	}
	return out, dropped
}

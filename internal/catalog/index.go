package catalog

import (
	"sort"
)

const keySeparator = "__"

// Key builds the catalog key of a material.
func Key(category, name string) string {
	return category + keySeparator + name
}

// Build aggregates vendor price lists into catalog items, one per
// (category, name). Offers are ordered by ascending price with ties kept in
// vendor order, and items are ordered by name then category.
func Build(vendors []VendorRecord) []CatalogItem {
	byKey := make(map[string]*CatalogItem)
	order := make([]string, 0)

	for _, vendor := range vendors {
		for _, entry := range vendor.Materials {
			key := Key(entry.Category, entry.Name)
			item, ok := byKey[key]
			if !ok {
				item = &CatalogItem{
					Key:      key,
					Name:     entry.Name,
					Category: entry.Category,
					MinPrice: entry.UnitPrice,
				}
				byKey[key] = item
				order = append(order, key)
			}

			item.Vendors = append(item.Vendors, VendorOffer{
				VendorID:     vendor.ID,
				VendorName:   vendor.Name,
				MaterialName: entry.Name,
				Category:     entry.Category,
				UnitPrice:    entry.UnitPrice,
				Unit:         entry.Unit,
			})
			if entry.UnitPrice.LessThan(item.MinPrice) {
				item.MinPrice = entry.UnitPrice
			}
			if entry.Unit != "" {
				if item.Unit != "" && item.Unit != entry.Unit {
					item.UnitConflict = true
				}
				item.Unit = entry.Unit
			}
		}
	}

	items := make([]CatalogItem, 0, len(order))
	for _, key := range order {
		item := byKey[key]
		sort.SliceStable(item.Vendors, func(i, j int) bool {
			return item.Vendors[i].UnitPrice.LessThan(item.Vendors[j].UnitPrice)
		})
		items = append(items, *item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].Category < items[j].Category
	})
	return items
}

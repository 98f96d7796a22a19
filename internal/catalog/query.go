package catalog

import (
	"sort"
	"strings"

	"github.com/angelmondragon/materialhub-backend/pkg/enums"
)

// CategoryAll disables category filtering.
const CategoryAll = "all"

// Query filters items by name substring and category, then orders them.
// Relevance keeps the input order. The input slice is not modified.
func Query(items []CatalogItem, filter Filter) []CatalogItem {
	text := strings.ToLower(strings.TrimSpace(filter.Text))
	category := strings.TrimSpace(filter.Category)
	matchAll := category == "" || strings.EqualFold(category, CategoryAll)

	out := make([]CatalogItem, 0, len(items))
	for _, item := range items {
		if text != "" && !strings.Contains(strings.ToLower(item.Name), text) {
			continue
		}
		if !matchAll && item.Category != category {
			continue
		}
		out = append(out, item)
	}

	switch filter.Sort {
	case enums.SortPriceLowHigh:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].MinPrice.LessThan(out[j].MinPrice)
		})
	case enums.SortPriceHighLow:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].MinPrice.GreaterThan(out[j].MinPrice)
		})
	case enums.SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Name < out[j].Name
		})
	}
	return out
}

// Categories lists the distinct categories of items in first-seen order.
func Categories(items []CatalogItem) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0)
	for _, item := range items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	return out
}

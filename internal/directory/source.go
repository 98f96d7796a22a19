package directory

import (
	"context"

	"github.com/angelmondragon/materialhub-backend/internal/catalog"
)

// CatalogSource adapts the repository to the catalog feed.
type CatalogSource struct {
	repo Repository
}

func NewCatalogSource(repo Repository) *CatalogSource {
	return &CatalogSource{repo: repo}
}

func (s *CatalogSource) LoadVendors(ctx context.Context) ([]catalog.VendorRecord, error) {
	vendors, err := s.repo.ListVendors(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]catalog.VendorRecord, 0, len(vendors))
	for _, vendor := range vendors {
		record := catalog.VendorRecord{
			ID:        vendor.ID,
			Name:      vendor.Name,
			Phone:     vendor.Phone,
			Materials: make([]catalog.MaterialEntry, 0, len(vendor.Materials)),
		}
		for _, material := range vendor.Materials {
			record.Materials = append(record.Materials, catalog.MaterialEntry{
				Category:  material.Category,
				Name:      material.Name,
				UnitPrice: material.UnitPrice,
				Unit:      material.Unit,
			})
		}
		records = append(records, record)
	}
	return records, nil
}

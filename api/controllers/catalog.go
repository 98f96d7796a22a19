package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/materialhub-backend/api/responses"
	"github.com/angelmondragon/materialhub-backend/api/validators"
	"github.com/angelmondragon/materialhub-backend/internal/catalog"
	"github.com/angelmondragon/materialhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/materialhub-backend/pkg/errors"
	"github.com/angelmondragon/materialhub-backend/pkg/logger"
)

const (
	maxSearchLen = 100
	maxPageSize  = 500
)

// CatalogService is the slice of the session controller the catalog routes read.
type CatalogService interface {
	Catalog(ctx context.Context, filter catalog.Filter) ([]catalog.CatalogItem, error)
	Categories(ctx context.Context) ([]string, error)
}

type catalogResponse struct {
	Items      []catalog.CatalogItem `json:"items"`
	Categories []string              `json:"categories"`
	Total      int                   `json:"total"`
}

// CatalogList returns the filtered catalog together with the category set of
// the unfiltered listing.
func CatalogList(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := r.URL.Query()
		sortMode, err := enums.ParseSortMode(query.Get("sort"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort").
				WithDetails(map[string]any{"field": "sort"}))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, maxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Catalog(r.Context(), catalog.Filter{
			Text:     validators.SanitizeString(query.Get("q"), maxSearchLen),
			Category: validators.SanitizeString(query.Get("category"), maxSearchLen),
			Sort:     sortMode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		total := len(items)
		if limit > 0 && limit < total {
			items = items[:limit]
		}
		responses.WriteSuccess(w, catalogResponse{
			Items:      items,
			Categories: categories,
			Total:      total,
		})
	}
}

package controllers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/materialhub-backend/api/middleware"
	"github.com/angelmondragon/materialhub-backend/api/responses"
	"github.com/angelmondragon/materialhub-backend/api/validators"
	"github.com/angelmondragon/materialhub-backend/internal/session"
	"github.com/angelmondragon/materialhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/materialhub-backend/pkg/errors"
	"github.com/angelmondragon/materialhub-backend/pkg/logger"
)

// CartService is the slice of the session controller the cart routes drive.
type CartService interface {
	Cart(ctx context.Context, operatorID string) (*session.CartView, error)
	AddLine(ctx context.Context, operatorID, catalogKey, vendorID string, qty decimal.Decimal) (*session.CartView, error)
	UpdateLine(ctx context.Context, operatorID, lineID string, qty decimal.Decimal) (*session.CartView, error)
	RemoveLine(ctx context.Context, operatorID, lineID string) (*session.CartView, error)
	SetPaymentStatus(ctx context.Context, operatorID string, status enums.PaymentStatus) (*session.CartView, error)
}

type addLineRequest struct {
	CatalogKey string          `json:"catalog_key" validate:"required,notblank,max=256"`
	VendorID   string          `json:"vendor_id" validate:"required,notblank,max=128"`
	Quantity   decimal.Decimal `json:"quantity"`
}

type updateLineRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

func CartFetch(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		view, err := svc.Cart(r.Context(), middleware.OperatorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAddLine adds a catalog item from one vendor, or increments the
// quantity when the line already exists.
func CartAddLine(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		var payload addLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.AddLine(r.Context(), middleware.OperatorIDFromContext(r.Context()), payload.CatalogKey, payload.VendorID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func CartUpdateLine(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		lineID, err := lineIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.UpdateLine(r.Context(), middleware.OperatorIDFromContext(r.Context()), lineID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartRemoveLine(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		lineID, err := lineIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.RemoveLine(r.Context(), middleware.OperatorIDFromContext(r.Context()), lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartSetPaymentStatus(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		var payload paymentStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParsePaymentStatus(payload.PaymentStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_status").
				WithDetails(map[string]any{"field": "payment_status"}))
			return
		}
		view, err := svc.SetPaymentStatus(r.Context(), middleware.OperatorIDFromContext(r.Context()), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// lineIDParam unescapes the route parameter; line ids embed material names.
func lineIDParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "lineId")
	lineID, err := url.PathUnescape(raw)
	if err != nil || lineID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid line id").WithDetails(map[string]any{"field": "lineId"})
	}
	return lineID, nil
}

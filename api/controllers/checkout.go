package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/materialhub-backend/api/middleware"
	"github.com/angelmondragon/materialhub-backend/api/responses"
	"github.com/angelmondragon/materialhub-backend/api/validators"
	"github.com/angelmondragon/materialhub-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/materialhub-backend/pkg/errors"
	"github.com/angelmondragon/materialhub-backend/pkg/logger"
)

// CheckoutService is the slice of the session controller that places orders.
type CheckoutService interface {
	CheckoutLine(ctx context.Context, operatorID, lineID, clientID string) (*checkout.Placement, error)
	CheckoutVendor(ctx context.Context, operatorID, vendorID, clientID string) (*checkout.Placement, error)
}

type checkoutLineRequest struct {
	LineID   string `json:"line_id" validate:"required,notblank,max=256"`
	ClientID string `json:"client_id" validate:"required,notblank,max=128"`
}

type checkoutVendorRequest struct {
	VendorID string `json:"vendor_id" validate:"required,notblank,max=128"`
	ClientID string `json:"client_id" validate:"required,notblank,max=128"`
}

type checkoutResponse struct {
	OrderIDs  []string            `json:"order_ids"`
	Placement *checkout.Placement `json:"placement"`
}

// CheckoutLine places a single cart line for a client site.
func CheckoutLine(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		var payload checkoutLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		placement, err := svc.CheckoutLine(r.Context(), middleware.OperatorIDFromContext(r.Context()), payload.LineID, payload.ClientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(placement))
	}
}

// CheckoutVendor places every cart line of one vendor for a client site.
func CheckoutVendor(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		var payload checkoutVendorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		placement, err := svc.CheckoutVendor(r.Context(), middleware.OperatorIDFromContext(r.Context()), payload.VendorID, payload.ClientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(placement))
	}
}

func newCheckoutResponse(placement *checkout.Placement) checkoutResponse {
	if placement == nil {
		return checkoutResponse{OrderIDs: []string{}}
	}
	return checkoutResponse{OrderIDs: placement.OrderIDs(), Placement: placement}
}

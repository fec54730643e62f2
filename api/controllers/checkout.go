package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/api/responses"
	"github.com/media2net-app/bloemenvandegier-sub001/api/validators"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/checkout"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/types"
)

type addressRequest struct {
	Street     string `json:"street" validate:"required"`
	HouseNo    string `json:"house_no" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	City       string `json:"city" validate:"required"`
	Country    string `json:"country,omitempty"`
}

func (req addressRequest) toAddress() types.Address {
	return types.Address{
		Street:     req.Street,
		HouseNo:    req.HouseNo,
		PostalCode: req.PostalCode,
		City:       req.City,
		Country:    req.Country,
	}
}

type checkoutRequest struct {
	CartID          string         `json:"cart_id" validate:"required,uuid"`
	ShippingAddress addressRequest `json:"shipping_address" validate:"required"`
	DeliveryDate    string         `json:"delivery_date" validate:"required"`
	Insured         bool           `json:"insured"`
}

func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartID, err := uuid.Parse(payload.CartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart id"))
			return
		}
		deliveryDate, err := parseDate(payload.DeliveryDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Execute(r.Context(), customerID, cartID, checkout.CheckoutInput{
			ShippingAddress: payload.ShippingAddress.toAddress(),
			DeliveryDate:    deliveryDate,
			Insured:         payload.Insured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "delivery date must be RFC 3339 or YYYY-MM-DD")
	}
	return t, nil
}

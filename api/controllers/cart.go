package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/api/responses"
	"github.com/media2net-app/bloemenvandegier-sub001/api/validators"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/cart"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
)

func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetActiveCart(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

type addCartItemRequest struct {
	ProductID   string   `json:"product_id" validate:"required,uuid"`
	VariantID   *string  `json:"variant_id,omitempty" validate:"omitempty,uuid"`
	Quantity    int      `json:"quantity" validate:"required,gt=0"`
	AddonIDs    []string `json:"addon_ids,omitempty" validate:"dive,uuid"`
	CardMessage *string  `json:"card_message,omitempty" validate:"omitempty,max=300"`
	RibbonText  *string  `json:"ribbon_text,omitempty" validate:"omitempty,max=60"`
	RibbonColor *string  `json:"ribbon_color,omitempty" validate:"omitempty,max=30"`
}

func (req addCartItemRequest) toInput() (cart.AddItemInput, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return cart.AddItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}

	input := cart.AddItemInput{
		ProductID:   productID,
		Quantity:    req.Quantity,
		CardMessage: req.CardMessage,
		RibbonText:  req.RibbonText,
		RibbonColor: req.RibbonColor,
	}
	if req.VariantID != nil {
		variantID, err := uuid.Parse(*req.VariantID)
		if err != nil {
			return cart.AddItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variant id")
		}
		input.VariantID = &variantID
	}
	for _, raw := range req.AddonIDs {
		addonID, err := uuid.Parse(raw)
		if err != nil {
			return cart.AddItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid addon id")
		}
		input.AddonIDs = append(input.AddonIDs, addonID)
	}
	return input, nil
}

func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddItem(r.Context(), customerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

func UpdateCartItemQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemID"), "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateQuantity(r.Context(), customerID, itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemID"), "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.RemoveItem(r.Context(), customerID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func ClearCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ClearCart(r.Context(), customerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/media2net-app/bloemenvandegier-sub001/api/responses"
	"github.com/media2net-app/bloemenvandegier-sub001/api/validators"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/deliveries"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/types"
)

func parseDeliveryListQuery(r *http.Request) (deliveries.ListFilters, error) {
	filters := deliveries.ListFilters{}

	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := enums.ParseDeliveryStatus(raw)
		if err != nil {
			return deliveries.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery status")
		}
		filters.Status = &parsed
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("insured")); raw != "" {
		insured, err := strconv.ParseBool(raw)
		if err != nil {
			return deliveries.ListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "insured must be a boolean")
		}
		filters.Insured = &insured
	}

	dateFrom, err := validators.ParseQueryDate(r, "date_from")
	if err != nil {
		return deliveries.ListFilters{}, err
	}
	filters.DateFrom = dateFrom
	dateTo, err := validators.ParseQueryDate(r, "date_to")
	if err != nil {
		return deliveries.ListFilters{}, err
	}
	filters.DateTo = dateTo

	return filters, nil
}

func ListDeliveries(svc deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := parseDeliveryListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetDelivery(svc deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deliveryID, err := validators.PathUUID(chi.URLParam(r, "id"), "delivery id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		delivery, err := svc.GetByID(r.Context(), deliveryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, delivery)
	}
}

type deliveryStatusRequest struct {
	Status        string  `json:"status" validate:"required"`
	FailureReason *string `json:"failure_reason,omitempty" validate:"omitempty,max=500"`
}

func UpdateDeliveryStatus(svc deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deliveryID, err := validators.PathUUID(chi.URLParam(r, "id"), "delivery id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload deliveryStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseDeliveryStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery status"))
			return
		}

		delivery, err := svc.UpdateStatus(r.Context(), deliveryID, target, deliveries.TransitionInput{
			FailureReason: payload.FailureReason,
			ActorID:       actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, delivery)
	}
}

type rescheduleDeliveryRequest struct {
	Date    string          `json:"date" validate:"required"`
	Address *addressRequest `json:"address,omitempty"`
}

func RescheduleDelivery(svc deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deliveryID, err := validators.PathUUID(chi.URLParam(r, "id"), "delivery id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload rescheduleDeliveryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		date, err := parseDate(payload.Date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var address *types.Address
		if payload.Address != nil {
			resolved := payload.Address.toAddress()
			address = &resolved
		}

		delivery, err := svc.Reschedule(r.Context(), deliveryID, date, address, actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, delivery)
	}
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/media2net-app/bloemenvandegier-sub001/api/responses"
	"github.com/media2net-app/bloemenvandegier-sub001/api/validators"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/leads"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
)

type createLeadRequest struct {
	CompanyName string `json:"company_name" validate:"required"`
	ContactName string `json:"contact_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone,omitempty"`
	Source      string `json:"source,omitempty"`
	Notes       string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

func CreateLead(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createLeadRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lead, err := svc.Create(r.Context(), leads.CreateLeadInput{
			CompanyName: validators.SanitizeString(payload.CompanyName),
			ContactName: validators.SanitizeString(payload.ContactName),
			Email:       payload.Email,
			Phone:       validators.SanitizeString(payload.Phone),
			Source:      validators.SanitizeString(payload.Source),
			Notes:       payload.Notes,
		}, actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, lead)
	}
}

func ListLeads(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := leads.ListFilters{
			Query:  validators.SanitizeString(r.URL.Query().Get("q")),
			Source: validators.SanitizeString(r.URL.Query().Get("source")),
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := enums.ParseLeadStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lead status"))
				return
			}
			filters.Status = &parsed
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

func GetLead(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leadID, err := validators.PathUUID(chi.URLParam(r, "id"), "lead id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lead, err := svc.GetByID(r.Context(), leadID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lead)
	}
}

type updateLeadRequest struct {
	CompanyName *string `json:"company_name,omitempty"`
	ContactName *string `json:"contact_name,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string `json:"phone,omitempty"`
	Source      *string `json:"source,omitempty"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

func UpdateLead(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leadID, err := validators.PathUUID(chi.URLParam(r, "id"), "lead id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateLeadRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lead, err := svc.Update(r.Context(), leadID, leads.UpdateLeadInput{
			CompanyName: payload.CompanyName,
			ContactName: payload.ContactName,
			Email:       payload.Email,
			Phone:       payload.Phone,
			Source:      payload.Source,
			Notes:       payload.Notes,
		}, actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lead)
	}
}

type leadStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func UpdateLeadStatus(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leadID, err := validators.PathUUID(chi.URLParam(r, "id"), "lead id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload leadStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseLeadStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lead status"))
			return
		}

		lead, err := svc.UpdateStatus(r.Context(), leadID, target, actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lead)
	}
}

func DeleteLead(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leadID, err := validators.PathUUID(chi.URLParam(r, "id"), "lead id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), leadID, actorID(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

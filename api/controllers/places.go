package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/media2net-app/bloemenvandegier-sub001/api/responses"
	"github.com/media2net-app/bloemenvandegier-sub001/api/validators"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/places"
)

func AutocompleteAddress(client *places.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := validators.SanitizeString(r.URL.Query().Get("query"))
		if input == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query is required"))
			return
		}

		req := places.AutocompleteRequest{
			Input:               input,
			IncludedRegionCodes: []string{"nl", "be", "de"},
			LanguageCode:        "nl",
		}
		if raw := validators.SanitizeString(r.URL.Query().Get("regions")); raw != "" {
			req.IncludedRegionCodes = strings.Split(strings.ToLower(raw), ",")
		}

		suggestions, err := client.Autocomplete(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suggestions)
	}
}

func ResolvePlace(client *places.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		placeID := strings.TrimSpace(chi.URLParam(r, "placeID"))

		details, err := client.ResolvePlace(r.Context(), placeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, details)
	}
}

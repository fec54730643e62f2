package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/media2net-app/bloemenvandegier-sub001/api/responses"
	"github.com/media2net-app/bloemenvandegier-sub001/api/validators"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/leads"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/reports"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/csvexport"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
)

func RevenueReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := reports.RevenueFilters{
			Country: strings.ToUpper(validators.SanitizeString(r.URL.Query().Get("country"))),
		}
		placedFrom, err := validators.ParseQueryDate(r, "placed_from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.PlacedFrom = placedFrom
		placedTo, err := validators.ParseQueryDate(r, "placed_to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.PlacedTo = placedTo

		report, err := svc.Revenue(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func parseExportOptions(r *http.Request) (csvexport.Options, error) {
	opts := csvexport.Options{Delimiter: ','}

	if raw := r.URL.Query().Get("delimiter"); raw != "" {
		switch raw {
		case ",", ";", "\t":
			opts.Delimiter = rune(raw[0])
		default:
			return csvexport.Options{}, pkgerrors.New(pkgerrors.CodeValidation, "delimiter must be one of , ; or tab")
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("bom")); raw != "" {
		bom, err := strconv.ParseBool(raw)
		if err != nil {
			return csvexport.Options{}, pkgerrors.New(pkgerrors.CodeValidation, "bom must be a boolean")
		}
		opts.IncludeBOM = bom
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("decimal_comma")); raw != "" {
		comma, err := strconv.ParseBool(raw)
		if err != nil {
			return csvexport.Options{}, pkgerrors.New(pkgerrors.CodeValidation, "decimal_comma must be a boolean")
		}
		opts.DecimalComma = comma
	}

	return opts, nil
}

func ExportOrders(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := parseOrderListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		opts, err := parseExportOptions(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		data, err := svc.ExportOrders(r.Context(), filters, opts, actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCSV(w, exportFilename("orders"), data)
	}
}

func ExportLeads(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
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
		opts, err := parseExportOptions(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		data, err := svc.ExportLeads(r.Context(), filters, opts, actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCSV(w, exportFilename("leads"), data)
	}
}

func exportFilename(kind string) string {
	return fmt.Sprintf("%s-%s.csv", kind, time.Now().UTC().Format("2006-01-02"))
}

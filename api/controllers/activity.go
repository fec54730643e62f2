package controllers

import (
	"net/http"

	"github.com/media2net-app/bloemenvandegier-sub001/api/responses"
	"github.com/media2net-app/bloemenvandegier-sub001/api/validators"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/activity"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
)

func ListActivity(svc activity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := activity.ListFilters{
			EntityType: validators.SanitizeString(r.URL.Query().Get("entity_type")),
		}
		entityID, err := validators.ParseQueryUUID(r, "entity_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.EntityID = entityID
		since, err := validators.ParseQueryDate(r, "since")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.Since = since

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), filters, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rentalmanager/internal/api"
	"rentalmanager/internal/audit"
)

func auditHandler(repo *audit.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityType := chi.URLParam(r, "entityType")
		switch entityType {
		case "vehicle", "reservation":
		default:
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "unknown entity type")
			return
		}
		entityID, err := strconv.ParseInt(chi.URLParam(r, "entityId"), 10, 64)
		if err != nil || entityID <= 0 {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid entity id")
			return
		}

		items, err := repo.ListByEntity(r.Context(), entityType, entityID)
		if err != nil {
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
	}
}

package notification

import (
	"encoding/json"
	"net/http"

	"rentalmanager/internal/api"
)

// Handlers expose the acting user's own notification settings.
type Handlers struct {
	Repo *Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	a := api.ActorFromContext(r.Context())
	if a == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}

	items, err := h.Repo.ListByUser(r.Context(), a.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type putRequest struct {
	Event   string `json:"event"`
	Enabled bool   `json:"enabled"`
	Channel string `json:"channel"`
}

func (h Handlers) Put(w http.ResponseWriter, r *http.Request) {
	a := api.ActorFromContext(r.Context())
	if a == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}

	var req putRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	event, err := ParseEventKey(req.Event)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}
	if req.Channel == "" {
		req.Channel = string(ChannelEmail)
	}
	channel, err := ParseChannel(req.Channel)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	s, err := h.Repo.Upsert(r.Context(), a.ID, event, req.Enabled, channel)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, s)
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// joinRequest mirrors the join form: just a name.
type joinRequest struct {
	Name string `json:"name"`
}

func (h *EventsHandler) handleJoin(w http.ResponseWriter, r *http.Request, eventKey string) {
	const op = "api.join_event"

	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	event, err := h.deps.Join(r.Context(), eventKey, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEventResponse(event, false))
}

func (h *EventsHandler) handlePayment(w http.ResponseWriter, r *http.Request, eventKey, segment string) {
	const op = "api.toggle_payment"

	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	playerName, ok := pathName(segment)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	event, err := h.deps.TogglePayment(r.Context(), eventKey, playerName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEventResponse(event, false))
}

func (h *EventsHandler) handlePlayer(w http.ResponseWriter, r *http.Request, eventKey, segment string) {
	const op = "api.remove_player"

	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	playerName, ok := pathName(segment)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	adminToken := r.URL.Query().Get(adminQueryParam)
	event, err := h.deps.RemovePlayer(r.Context(), eventKey, adminToken, playerName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEventResponse(event, true))
}

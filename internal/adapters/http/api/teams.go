// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
)

// teamsRequest edits the team configuration. Names apply when non-nil;
// Locked toggles the shuffle guard.
type teamsRequest struct {
	Team1Name *string `json:"team1Name"`
	Team2Name *string `json:"team2Name"`
	Locked    *bool   `json:"locked"`
}

func (h *EventsHandler) handleTeams(w http.ResponseWriter, r *http.Request, eventKey string) {
	const op = "api.update_teams"

	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	var req teamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Team1Name == nil && req.Team2Name == nil && req.Locked == nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	adminToken := r.URL.Query().Get(adminQueryParam)
	ctx := r.Context()

	event, err := h.deps.Get(ctx, eventKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if req.Team1Name != nil || req.Team2Name != nil {
		team1, team2 := event.TeamNames()
		if req.Team1Name != nil {
			team1 = *req.Team1Name
		}
		if req.Team2Name != nil {
			team2 = *req.Team2Name
		}
		if event, err = h.deps.RenameTeams(ctx, eventKey, adminToken, team1, team2); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if req.Locked != nil {
		if event, err = h.deps.SetTeamsLocked(ctx, eventKey, adminToken, *req.Locked); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, newEventResponse(event, true))
}

func (h *EventsHandler) handleShuffle(w http.ResponseWriter, r *http.Request, eventKey string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	event, err := h.deps.ShuffleTeams(r.Context(), eventKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEventResponse(event, false))
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	service "github.com/michaelblawrence/5-or-die/internal/app"
)

// EventsHandler handles all /events routes.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleCollection handles the /events collection:
//
//	POST /events -> create an event
//	GET  /events -> list events (file backend only)
func (h *EventsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

// HandleEvent routes /events/{key} and its subresources:
//
//	GET    /events/{key}                         -> public view
//	PATCH  /events/{key}?admin=                  -> edit details
//	DELETE /events/{key}?admin=                  -> delete event
//	POST   /events/{key}/players                 -> join
//	POST   /events/{key}/players/{name}/payment  -> toggle paid flag
//	DELETE /events/{key}/players/{name}?admin=   -> remove player
//	POST   /events/{key}/teams/shuffle           -> shuffle teams
//	PUT    /events/{key}/teams?admin=            -> rename / lock teams
func (h *EventsHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.event"

	rest := strings.TrimPrefix(r.URL.Path, "/events/")
	segments := strings.Split(rest, "/")
	eventKey := segments[0]
	if eventKey == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch {
	case len(segments) == 1:
		h.handleEvent(w, r, eventKey)
	case len(segments) == 2 && segments[1] == "players":
		h.handleJoin(w, r, eventKey)
	case len(segments) == 3 && segments[1] == "players":
		h.handlePlayer(w, r, eventKey, segments[2])
	case len(segments) == 4 && segments[1] == "players" && segments[3] == "payment":
		h.handlePayment(w, r, eventKey, segments[2])
	case len(segments) == 2 && segments[1] == "teams":
		h.handleTeams(w, r, eventKey)
	case len(segments) == 3 && segments[1] == "teams" && segments[2] == "shuffle":
		h.handleShuffle(w, r, eventKey)
	default:
		http.NotFound(w, r)
	}
}

// createRequest mirrors the event creation form.
type createRequest struct {
	Name       string  `json:"name"`
	Date       string  `json:"date"`
	Location   string  `json:"location"`
	Creator    string  `json:"creator"`
	MaxPlayers int     `json:"maxPlayers"`
	PriceTotal float64 `json:"priceTotal"`
}

func (c createRequest) validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return NewKind("api.create_event", ErrBadRequest)
	case strings.TrimSpace(c.Creator) == "":
		return NewKind("api.create_event", ErrBadRequest)
	case c.MaxPlayers <= 0:
		return NewKind("api.create_event", ErrBadRequest)
	case c.PriceTotal < 0:
		return NewKind("api.create_event", ErrBadRequest)
	}
	return nil
}

func (h *EventsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_event"

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	event, err := h.deps.Create(r.Context(), service.Draft{
		Name:       req.Name,
		Date:       req.Date,
		Location:   req.Location,
		Creator:    req.Creator,
		MaxPlayers: req.MaxPlayers,
		PriceTotal: req.PriceTotal,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	// The one response that includes the admin token: the organizer
	// must save it from here, it is never handed out again.
	writeJSON(w, http.StatusCreated, newEventResponse(event, true))
}

func (h *EventsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.deps.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	views := make([]eventResponse, 0, len(events))
	for _, event := range events {
		views = append(views, newEventResponse(event, false))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *EventsHandler) handleEvent(w http.ResponseWriter, r *http.Request, eventKey string) {
	adminToken := r.URL.Query().Get(adminQueryParam)

	switch r.Method {
	case http.MethodGet:
		event, err := h.deps.Get(r.Context(), eventKey)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newEventResponse(event, h.deps.IsAdmin(event, adminToken)))

	case http.MethodPatch:
		var req struct {
			Name       *string  `json:"name"`
			Date       *string  `json:"date"`
			Location   *string  `json:"location"`
			MaxPlayers *int     `json:"maxPlayers"`
			PriceTotal *float64 `json:"priceTotal"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind("api.update_event", ErrBadRequest, err))
			return
		}
		event, err := h.deps.UpdateDetails(r.Context(), eventKey, adminToken, service.Details{
			Name:       req.Name,
			Date:       req.Date,
			Location:   req.Location,
			MaxPlayers: req.MaxPlayers,
			PriceTotal: req.PriceTotal,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newEventResponse(event, true))

	case http.MethodDelete:
		if err := h.deps.Delete(r.Context(), eventKey, adminToken); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.NotFound(w, r)
	}
}

// pathName decodes a player name path segment.
func pathName(segment string) (string, bool) {
	name, err := url.PathUnescape(segment)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

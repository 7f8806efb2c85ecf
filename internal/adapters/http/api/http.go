// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	storage "github.com/michaelblawrence/5-or-die/internal/adapters/storage"
	service "github.com/michaelblawrence/5-or-die/internal/app"
	"github.com/michaelblawrence/5-or-die/internal/domain/model"
	"github.com/michaelblawrence/5-or-die/internal/domain/schema"
)

// adminQueryParam carries the bearer token in shareable admin URLs,
// e.g. /events/abc123?admin=<token>.
const adminQueryParam = "admin"

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to the service package.
type Dependencies interface {
	Create(ctx context.Context, draft service.Draft) (*model.Event, error)
	Get(ctx context.Context, eventKey string) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	Join(ctx context.Context, eventKey, playerName string) (*model.Event, error)
	TogglePayment(ctx context.Context, eventKey, playerName string) (*model.Event, error)
	ShuffleTeams(ctx context.Context, eventKey string) (*model.Event, error)
	SetTeamsLocked(ctx context.Context, eventKey, adminToken string, locked bool) (*model.Event, error)
	RenameTeams(ctx context.Context, eventKey, adminToken, team1Name, team2Name string) (*model.Event, error)
	UpdateDetails(ctx context.Context, eventKey, adminToken string, details service.Details) (*model.Event, error)
	RemovePlayer(ctx context.Context, eventKey, adminToken, playerName string) (*model.Event, error)
	Delete(ctx context.Context, eventKey, adminToken string) error
	IsAdmin(event *model.Event, adminToken string) bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	eventsHandler *EventsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		eventsHandler: NewEventsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandleCollection, "events"))
	mux.HandleFunc("/events/", MetricsMiddleware(s.eventsHandler.HandleEvent, "event"))
}

// eventResponse is the public view of an event. The admin token is
// redacted unless the request proved it already holds the token; the
// per-player share saves every client the same division.
type eventResponse struct {
	*model.Event
	SharePerPlayer float64 `json:"sharePerPlayer"`
	IsAdmin        bool    `json:"isAdmin"`
}

func newEventResponse(event *model.Event, isAdmin bool) eventResponse {
	view := event.Clone()
	if !isAdmin {
		view.AdminToken = ""
	}
	return eventResponse{
		Event:          view,
		SharePerPlayer: view.SharePerPlayer(),
		IsAdmin:        isAdmin,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service and storage errors into HTTP
// responses so every handler maps failures identically.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, service.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, storage.ErrAlreadyExists), errors.Is(err, service.ErrPlayerExists):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, service.ErrEventFull):
		writeError(w, http.StatusConflict, "event_full", err)
	case errors.Is(err, service.ErrTeamsLocked):
		writeError(w, http.StatusConflict, "teams_locked", err)
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, storage.ErrListUnsupported):
		writeError(w, http.StatusNotImplemented, "unsupported", err)
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, schema.ErrInvalidEvent),
		errors.Is(err, schema.ErrUnknownVersion):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

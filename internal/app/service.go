// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
//
// Every mutation is a read-modify-write against the storage provider:
// fetch the current record, apply the change in memory, write the full
// record back. Updates replace the whole record, so two callers working
// from the same snapshot race with last-write-wins. That is an accepted
// property of the small-group use case, not something this layer papers
// over with merge logic.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	storage "github.com/michaelblawrence/5-or-die/internal/adapters/storage"
	"github.com/michaelblawrence/5-or-die/internal/domain/model"
	"github.com/michaelblawrence/5-or-die/internal/domain/schema"
	"github.com/michaelblawrence/5-or-die/pkg/logger"
	"github.com/michaelblawrence/5-or-die/pkg/metrics"
	"github.com/michaelblawrence/5-or-die/pkg/token"
)

// Draft carries the organizer-provided fields for a new event.
type Draft struct {
	Name       string
	Date       string
	Location   string
	Creator    string
	MaxPlayers int
	PriceTotal float64
}

// Details carries an admin edit of the privileged event fields. Nil
// fields are left unchanged.
type Details struct {
	Name       *string
	Date       *string
	Location   *string
	MaxPlayers *int
	PriceTotal *float64
}

// Service implements the event operations behind the HTTP API.
type Service struct {
	store storage.Provider
	log   logger.Logger

	newEventKey   func() string
	newAdminToken func() string
	permutation   func(n int) []int
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithKeyGenerator overrides event key generation.
func WithKeyGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newEventKey = gen
		}
	}
}

// WithTokenGenerator overrides admin token generation.
func WithTokenGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newAdminToken = gen
		}
	}
}

// WithPermutation overrides the random permutation used by team
// shuffles. Tests inject a fixed one.
func WithPermutation(perm func(n int) []int) Option {
	return func(s *Service) {
		if perm != nil {
			s.permutation = perm
		}
	}
}

// New constructs a Service over the given storage provider.
func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store:         store,
		log:           logger.Named("service"),
		newEventKey:   token.NewEventKey,
		newAdminToken: token.NewAdminToken,
		permutation:   rand.Perm,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create makes a new event from the draft. The creator joins as the
// first player, unpaid and unassigned. Returns the persisted event,
// admin token included; this is the only operation that hands the
// token out.
func (s *Service) Create(ctx context.Context, draft Draft) (*model.Event, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	event := &model.Event{
		SchemaVersion: schema.CurrentVersion,
		EventKey:      s.newEventKey(),
		AdminToken:    s.newAdminToken(),
		Name:          draft.Name,
		Date:          draft.Date,
		Location:      draft.Location,
		MaxPlayers:    draft.MaxPlayers,
		PriceTotal:    draft.PriceTotal,
		Creator:       draft.Creator,
		Players: []model.Player{
			{Name: draft.Creator, HasPaid: false, Team: nil},
		},
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "event created",
		logger.String("event_key", event.EventKey),
		logger.String("name", event.Name),
		logger.Int("max_players", event.MaxPlayers))
	metrics.RecordEventCreated()
	return event, nil
}

// Get returns the event for the key, or storage.ErrNotFound.
func (s *Service) Get(ctx context.Context, eventKey string) (*model.Event, error) {
	event, err := s.store.GetEvent(ctx, eventKey)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, eventKey)
	}
	return event, nil
}

// List enumerates all events. Surfaces storage.ErrListUnsupported from
// backends that refuse enumeration.
func (s *Service) List(ctx context.Context) ([]*model.Event, error) {
	return s.store.ListEvents(ctx)
}

// Join adds a player to the event. Names are the player key, so a
// taken name is rejected, as is joining past capacity.
func (s *Service) Join(ctx context.Context, eventKey, playerName string) (*model.Event, error) {
	if strings.TrimSpace(playerName) == "" {
		return nil, fmt.Errorf("%w: empty player name", ErrInvalidInput)
	}
	event, err := s.modify(ctx, eventKey, func(e *model.Event) error {
		if e.HasPlayer(playerName) {
			return fmt.Errorf("%w: %s", ErrPlayerExists, playerName)
		}
		if e.IsFull() {
			return fmt.Errorf("%w: capacity %d", ErrEventFull, e.MaxPlayers)
		}
		e.Players = append(e.Players, model.Player{Name: playerName, HasPaid: false, Team: nil})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "player joined",
		logger.String("event_key", eventKey),
		logger.String("player", playerName))
	metrics.RecordPlayerJoined()
	return event, nil
}

// TogglePayment flips the named player's paid flag. Open to anyone
// holding the event URL; payment tracking is honesty-based.
func (s *Service) TogglePayment(ctx context.Context, eventKey, playerName string) (*model.Event, error) {
	event, err := s.modify(ctx, eventKey, func(e *model.Event) error {
		player := e.FindPlayer(playerName)
		if player == nil {
			return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerName)
		}
		player.HasPaid = !player.HasPaid
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordPaymentToggled()
	return event, nil
}

// ShuffleTeams randomly reassigns every player across the two teams,
// first half of the permutation to team 1. Refused while teams are
// locked.
func (s *Service) ShuffleTeams(ctx context.Context, eventKey string) (*model.Event, error) {
	event, err := s.modify(ctx, eventKey, func(e *model.Event) error {
		if e.TeamsLocked {
			return ErrTeamsLocked
		}
		perm := s.permutation(len(e.Players))
		shuffled := make([]model.Player, len(e.Players))
		for i, from := range perm {
			shuffled[i] = e.Players[from]
			team := model.Team1
			if i >= len(perm)/2 {
				team = model.Team2
			}
			shuffled[i].Team = &team
		}
		e.Players = shuffled
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "teams shuffled", logger.String("event_key", eventKey))
	metrics.RecordTeamShuffle()
	return event, nil
}

// SetTeamsLocked locks or unlocks team assignments. Admin only.
func (s *Service) SetTeamsLocked(ctx context.Context, eventKey, adminToken string, locked bool) (*model.Event, error) {
	return s.modify(ctx, eventKey, func(e *model.Event) error {
		if err := authorize(e, adminToken); err != nil {
			return err
		}
		e.TeamsLocked = locked
		return nil
	})
}

// RenameTeams sets custom team display names. Admin only. Empty names
// fall back to the defaults at render time.
func (s *Service) RenameTeams(ctx context.Context, eventKey, adminToken, team1Name, team2Name string) (*model.Event, error) {
	return s.modify(ctx, eventKey, func(e *model.Event) error {
		if err := authorize(e, adminToken); err != nil {
			return err
		}
		e.Teams = &model.Teams{Team1Name: team1Name, Team2Name: team2Name}
		return nil
	})
}

// UpdateDetails edits the privileged event fields. Admin only.
func (s *Service) UpdateDetails(ctx context.Context, eventKey, adminToken string, details Details) (*model.Event, error) {
	return s.modify(ctx, eventKey, func(e *model.Event) error {
		if err := authorize(e, adminToken); err != nil {
			return err
		}
		if details.Name != nil {
			if *details.Name == "" {
				return fmt.Errorf("%w: empty event name", ErrInvalidInput)
			}
			e.Name = *details.Name
		}
		if details.Date != nil {
			e.Date = *details.Date
		}
		if details.Location != nil {
			e.Location = *details.Location
		}
		if details.MaxPlayers != nil {
			if *details.MaxPlayers <= 0 {
				return fmt.Errorf("%w: maxPlayers must be positive", ErrInvalidInput)
			}
			e.MaxPlayers = *details.MaxPlayers
		}
		if details.PriceTotal != nil {
			if *details.PriceTotal < 0 {
				return fmt.Errorf("%w: priceTotal must not be negative", ErrInvalidInput)
			}
			e.PriceTotal = *details.PriceTotal
		}
		return nil
	})
}

// RemovePlayer drops a player from the event. Admin only.
func (s *Service) RemovePlayer(ctx context.Context, eventKey, adminToken, playerName string) (*model.Event, error) {
	return s.modify(ctx, eventKey, func(e *model.Event) error {
		if err := authorize(e, adminToken); err != nil {
			return err
		}
		for i := range e.Players {
			if e.Players[i].Name == playerName {
				e.Players = append(e.Players[:i], e.Players[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerName)
	})
}

// Delete removes the event entirely. Admin only.
func (s *Service) Delete(ctx context.Context, eventKey, adminToken string) error {
	event, err := s.Get(ctx, eventKey)
	if err != nil {
		return err
	}
	if err := authorize(event, adminToken); err != nil {
		return err
	}
	if err := s.store.DeleteEvent(ctx, eventKey); err != nil {
		return err
	}
	s.log.Info(ctx, "event deleted", logger.String("event_key", eventKey))
	return nil
}

// IsAdmin reports whether the token grants organizer capability over
// the event. Plain string equality; the token is a bearer credential.
func (s *Service) IsAdmin(event *model.Event, adminToken string) bool {
	return authorize(event, adminToken) == nil
}

// modify runs the fetch-mutate-write cycle shared by every mutation.
func (s *Service) modify(ctx context.Context, eventKey string, fn func(*model.Event) error) (*model.Event, error) {
	event, err := s.store.GetEvent(ctx, eventKey)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, eventKey)
	}
	if err := fn(event); err != nil {
		return nil, err
	}
	if err := s.store.UpdateEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func authorize(event *model.Event, adminToken string) error {
	if adminToken == "" || event.AdminToken != adminToken {
		return ErrUnauthorized
	}
	return nil
}

func validateDraft(draft Draft) error {
	switch {
	case strings.TrimSpace(draft.Name) == "":
		return fmt.Errorf("%w: empty event name", ErrInvalidInput)
	case strings.TrimSpace(draft.Creator) == "":
		return fmt.Errorf("%w: empty creator", ErrInvalidInput)
	case draft.MaxPlayers <= 0:
		return fmt.Errorf("%w: maxPlayers must be positive", ErrInvalidInput)
	case draft.PriceTotal < 0:
		return fmt.Errorf("%w: priceTotal must not be negative", ErrInvalidInput)
	}
	return nil
}

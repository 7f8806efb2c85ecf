// Package schema defines the versioned persisted shape of an Event and
// guards every read and write with structural validation.
//
// Records carry a schemaVersion discriminator. Decoding dispatches on it
// with one parser per known version and a default arm that fails closed:
// adding version 2 means adding a new wire struct and a new switch arm,
// never touching version 1's parser. Old data keeps validating as V1 and
// is never silently upgraded.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/michaelblawrence/5-or-die/internal/domain/model"
)

// Known schema versions.
const (
	Version1 = "1"

	// CurrentVersion is stamped onto every outgoing write.
	CurrentVersion = Version1
)

// Decode parses raw JSON into a fully validated Event. The version
// discriminator is inspected first; unknown or missing versions fail
// with ErrUnknownVersion carrying the offending string. A recognized
// version is validated structurally, field by field, with optional
// fields defaulted (teamsLocked false, team name defaults applied when
// a teams object is present).
func Decode(data []byte) (*model.Event, error) {
	var probe struct {
		SchemaVersion *string `json:"schemaVersion"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	var version string
	if probe.SchemaVersion != nil {
		version = *probe.SchemaVersion
	}

	switch version {
	case Version1:
		return decodeV1(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, version)
	}
}

// Validate checks an in-memory Event against its declared version
// before it is written out. It applies the same structural rules as
// Decode minus the JSON parsing.
func Validate(e *model.Event) error {
	if e == nil {
		return fmt.Errorf("%w: nil event", ErrInvalidEvent)
	}
	switch e.SchemaVersion {
	case Version1:
		return validateV1(e)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVersion, e.SchemaVersion)
	}
}

// Encode stamps the current version and serializes the event. It is the
// inverse of Decode for records written by this process.
func Encode(e *model.Event) ([]byte, error) {
	stamped := e.Clone()
	stamped.SchemaVersion = CurrentVersion
	if err := Validate(stamped); err != nil {
		return nil, err
	}
	out, err := json.Marshal(stamped)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return out, nil
}

// Wire structs for version 1. Pointer fields distinguish absent from
// zero so presence can be checked per field.

type playerV1 struct {
	Name    *string `json:"name"`
	HasPaid *bool   `json:"hasPaid"`
	Team    *int    `json:"team"` // nullable
}

type teamsV1 struct {
	Team1Name *string `json:"team1Name"`
	Team2Name *string `json:"team2Name"`
}

type eventV1 struct {
	SchemaVersion *string    `json:"schemaVersion"`
	EventKey      *string    `json:"eventKey"`
	AdminToken    *string    `json:"adminToken"`
	Name          *string    `json:"name"`
	Date          *string    `json:"date"`
	Location      *string    `json:"location"`
	MaxPlayers    *int       `json:"maxPlayers"`
	PriceTotal    *float64   `json:"priceTotal"`
	Creator       *string    `json:"creator"`
	Players       []playerV1 `json:"players"`
	Teams         *teamsV1   `json:"teams"`
	TeamsLocked   *bool      `json:"teamsLocked"`
}

func decodeV1(data []byte) (*model.Event, error) {
	var wire eventV1
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	switch {
	case wire.EventKey == nil:
		return nil, missingField("eventKey")
	case wire.AdminToken == nil:
		return nil, missingField("adminToken")
	case wire.Name == nil:
		return nil, missingField("name")
	case wire.Date == nil:
		return nil, missingField("date")
	case wire.Location == nil:
		return nil, missingField("location")
	case wire.MaxPlayers == nil:
		return nil, missingField("maxPlayers")
	case wire.PriceTotal == nil:
		return nil, missingField("priceTotal")
	case wire.Creator == nil:
		return nil, missingField("creator")
	case wire.Players == nil:
		return nil, missingField("players")
	}

	event := &model.Event{
		SchemaVersion: Version1,
		EventKey:      *wire.EventKey,
		AdminToken:    *wire.AdminToken,
		Name:          *wire.Name,
		Date:          *wire.Date,
		Location:      *wire.Location,
		MaxPlayers:    *wire.MaxPlayers,
		PriceTotal:    *wire.PriceTotal,
		Creator:       *wire.Creator,
		Players:       make([]model.Player, 0, len(wire.Players)),
	}

	for i, p := range wire.Players {
		switch {
		case p.Name == nil:
			return nil, fmt.Errorf("%w: players[%d]: missing required field %q", ErrInvalidEvent, i, "name")
		case p.HasPaid == nil:
			return nil, fmt.Errorf("%w: players[%d]: missing required field %q", ErrInvalidEvent, i, "hasPaid")
		}
		event.Players = append(event.Players, model.Player{
			Name:    *p.Name,
			HasPaid: *p.HasPaid,
			Team:    p.Team,
		})
	}

	if wire.Teams != nil {
		teams := &model.Teams{
			Team1Name: model.DefaultTeam1Name,
			Team2Name: model.DefaultTeam2Name,
		}
		if wire.Teams.Team1Name != nil {
			teams.Team1Name = *wire.Teams.Team1Name
		}
		if wire.Teams.Team2Name != nil {
			teams.Team2Name = *wire.Teams.Team2Name
		}
		event.Teams = teams
	}

	if wire.TeamsLocked != nil {
		event.TeamsLocked = *wire.TeamsLocked
	}

	return event, nil
}

func validateV1(e *model.Event) error {
	if e.EventKey == "" {
		return fmt.Errorf("%w: empty eventKey", ErrInvalidEvent)
	}
	if e.AdminToken == "" {
		return fmt.Errorf("%w: empty adminToken", ErrInvalidEvent)
	}
	if e.Players == nil {
		return fmt.Errorf("%w: nil players", ErrInvalidEvent)
	}
	return nil
}

func missingField(name string) error {
	return fmt.Errorf("%w: missing required field %q", ErrInvalidEvent, name)
}

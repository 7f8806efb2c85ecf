// Package model contains domain models passed between layers.
package model

// Team numbers used for two-team assignment. A player with a nil Team
// has not been assigned yet.
const (
	Team1 = 1
	Team2 = 2
)

// Default team names applied when an event carries no custom names.
const (
	DefaultTeam1Name = "Team 1"
	DefaultTeam2Name = "Team 2"
)

// Player is one participant in an event. The name doubles as the
// player's key; it must be unique within the event.
type Player struct {
	Name    string `json:"name"`
	HasPaid bool   `json:"hasPaid"`
	Team    *int   `json:"team"` // null until assigned
}

// Teams holds custom display names for the two teams.
type Teams struct {
	Team1Name string `json:"team1Name"`
	Team2Name string `json:"team2Name"`
}

// Event is the sole persisted entity: one organized match/session.
// The JSON tags define the wire and on-disk shape for both storage
// backends; SchemaVersion discriminates record shapes across versions.
type Event struct {
	SchemaVersion string   `json:"schemaVersion"`
	EventKey      string   `json:"eventKey"`
	AdminToken    string   `json:"adminToken"`
	Name          string   `json:"name"`
	Date          string   `json:"date"`
	Location      string   `json:"location"`
	MaxPlayers    int      `json:"maxPlayers"`
	PriceTotal    float64  `json:"priceTotal"`
	Creator       string   `json:"creator"`
	Players       []Player `json:"players"`
	Teams         *Teams   `json:"teams,omitempty"`
	TeamsLocked   bool     `json:"teamsLocked"`
}

// Clone returns a deep copy of the event. Storage backends hand out
// clones so callers can never mutate a record behind the store's back.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	out := *e
	out.Players = make([]Player, len(e.Players))
	for i, p := range e.Players {
		out.Players[i] = p
		if p.Team != nil {
			team := *p.Team
			out.Players[i].Team = &team
		}
	}
	if e.Teams != nil {
		teams := *e.Teams
		out.Teams = &teams
	}
	return &out
}

// FindPlayer returns a pointer into Players for the named player, or
// nil if no such player joined.
func (e *Event) FindPlayer(name string) *Player {
	for i := range e.Players {
		if e.Players[i].Name == name {
			return &e.Players[i]
		}
	}
	return nil
}

// HasPlayer reports whether a player with the given name joined.
func (e *Event) HasPlayer(name string) bool {
	return e.FindPlayer(name) != nil
}

// IsFull reports whether the event reached its player capacity.
func (e *Event) IsFull() bool {
	return len(e.Players) >= e.MaxPlayers
}

// SharePerPlayer returns the per-player cost: the total price divided
// evenly by capacity. Zero capacity yields zero rather than dividing.
func (e *Event) SharePerPlayer() float64 {
	if e.MaxPlayers <= 0 {
		return 0
	}
	return e.PriceTotal / float64(e.MaxPlayers)
}

// TeamNames returns the two team display names, falling back to the
// defaults when no custom names were set.
func (e *Event) TeamNames() (team1, team2 string) {
	team1, team2 = DefaultTeam1Name, DefaultTeam2Name
	if e.Teams != nil {
		if e.Teams.Team1Name != "" {
			team1 = e.Teams.Team1Name
		}
		if e.Teams.Team2Name != "" {
			team2 = e.Teams.Team2Name
		}
	}
	return team1, team2
}

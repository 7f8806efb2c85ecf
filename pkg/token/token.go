// Package token generates the opaque identifiers handed out at event
// creation: the public event key used in URLs and as the storage key,
// and the admin token acting as a bearer credential. Uniqueness is the
// only load-bearing property; length and charset are presentation
// choices.
package token

import (
	"strings"

	"github.com/google/uuid"
)

// eventKeyLength keeps shared URLs short while leaving collisions
// vanishingly unlikely for small-group usage.
const eventKeyLength = 12

// NewEventKey returns a short URL-safe event identifier.
func NewEventKey() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:eventKeyLength]
}

// NewAdminToken returns the organizer's bearer secret. It is generated
// once at event creation and never rotated.
func NewAdminToken() string {
	return uuid.NewString()
}

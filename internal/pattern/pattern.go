// Package pattern turns a tapped rhythm pattern into the canonical secret
// string that the rest of the system hashes and verifies.
package pattern

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformed is returned when a pattern payload cannot be decoded.
	ErrMalformed = errors.New("malformed rhythm pattern")
	// ErrEmpty is returned when a pattern carries no note events.
	ErrEmpty = errors.New("empty rhythm pattern")
	// ErrTooShort is returned when a pattern has fewer notes than the
	// configured minimum.
	ErrTooShort = errors.New("rhythm pattern too short")
)

// NoteEvent is one tapped note as submitted by the client keyboard. Only the
// note symbol is secret material; key and timing are playback metadata.
type NoteEvent struct {
	Key  string  `json:"key,omitempty"`
	Note string  `json:"note"`
	Time float64 `json:"time,omitempty"`
}

// Pattern is an ordered sequence of note events. Order is significant: it is
// the secret.
type Pattern []NoteEvent

// Parse decodes the JSON pattern payload submitted with a form or JSON body.
func Parse(raw []byte) (Pattern, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, ErrEmpty
	}
	var p Pattern
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return p, nil
}

// Canonical derives the secret string: the note symbols concatenated in the
// order they were tapped, with no separator. Canonical is pure; replaying the
// same pattern always yields the same secret. An empty pattern yields "" and
// callers must reject that before hashing.
func (p Pattern) Canonical() string {
	var b strings.Builder
	for _, ev := range p {
		b.WriteString(ev.Note)
	}
	return b.String()
}

// Validate enforces the minimum note count applied when a new secret is
// created. minNotes values below 1 still reject empty patterns.
func (p Pattern) Validate(minNotes int) error {
	if len(p) == 0 {
		return ErrEmpty
	}
	if len(p) < minNotes {
		return fmt.Errorf("%w: %d notes, need at least %d", ErrTooShort, len(p), minNotes)
	}
	for _, ev := range p {
		if ev.Note == "" {
			return fmt.Errorf("%w: note event without a note symbol", ErrMalformed)
		}
	}
	return nil
}

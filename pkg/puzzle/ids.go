package puzzle

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MaxIDAttempts bounds the suffix retries for a single identifier.
const MaxIDAttempts = 1000

// ErrIDExhausted is returned when no unused identifier was found.
var ErrIDExhausted = errors.New("no unused puzzle id found")

// IDSet tracks identifiers already used across a store.
type IDSet struct {
	m map[string]struct{}
}

// NewIDSet returns an empty set.
func NewIDSet() *IDSet {
	return &IDSet{m: make(map[string]struct{})}
}

// Add reserves id.
func (s *IDSet) Add(id string) { s.m[id] = struct{}{} }

// Has reports whether id is reserved.
func (s *IDSet) Has(id string) bool {
	_, ok := s.m[id]
	return ok
}

// Len returns the number of reserved ids.
func (s *IDSet) Len() int { return len(s.m) }

// IDBase strips separators from a date, e.g. "2025-04-17" -> "20250417".
func IDBase(date string) string {
	base := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, date)
	if base == "" {
		return "unknown"
	}
	return base
}

// NewID generates an identifier for date that is not in used, and reserves it.
func NewID(date string, used *IDSet, rng Rand) (string, error) {
	base := IDBase(date)
	for attempt := 0; attempt < MaxIDAttempts; attempt++ {
		id := base + "-" + rng.Suffix()
		if used.Has(id) {
			continue
		}
		used.Add(id)
		return id, nil
	}
	return "", fmt.Errorf("date %q after %d attempts: %w", date, MaxIDAttempts, ErrIDExhausted)
}

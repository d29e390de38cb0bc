// Package store persists the enriched puzzle collection.
package store

import (
	"github.com/japaniel/beehive/pkg/puzzle"
)

// Store loads and saves the whole enriched collection.
type Store interface {
	// Load returns the stored collection; a store that does not exist yet is empty.
	Load() (*puzzle.Collection, error)
	// Save replaces the stored collection. A failed Save leaves the previous contents intact.
	Save(*puzzle.Collection) error
}

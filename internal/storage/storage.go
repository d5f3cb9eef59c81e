// Package storage defines the Storage interface that every developer store
// backend satisfies. Handlers depend only on this interface, so the memory
// and sqlite backends are interchangeable and tests can run against either.
package storage

import (
	"errors"

	"github.com/growdev/growdevers-api/internal/types"
)

// ErrNotFound is returned when no developer matches the given id.
var ErrNotFound = errors.New("developer not found")

// Storage is the developer store contract.
//
// Records keep insertion order. Lookups return the first match and every
// returned value is a copy.
type Storage interface {
	// ListDevelopers returns every developer in insertion order.
	// Returns an empty slice (not nil) when the store is empty.
	ListDevelopers() ([]types.Developer, error)

	// GetDeveloperByID returns ErrNotFound when nothing matches.
	GetDeveloperByID(id string) (types.Developer, error)

	// CreateDeveloper assigns a fresh id, appends the record and returns it.
	// Any ID set on dev is ignored.
	CreateDeveloper(dev types.Developer) (types.Developer, error)

	// UpdateDeveloperByID replaces every field except the id.
	UpdateDeveloperByID(id string, dev types.Developer) (types.Developer, error)

	// ToggleRegisteredByID flips the registered flag and returns the result.
	ToggleRegisteredByID(id string) (types.Developer, error)

	// DeleteDeveloperByID removes exactly one matching record.
	DeleteDeveloperByID(id string) error

	// Count returns the number of stored developers.
	Count() (int, error)
}

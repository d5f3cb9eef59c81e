// Package seed loads the demonstration dataset into a store at startup.
package seed

import (
	"fmt"

	"github.com/growdev/growdevers-api/internal/storage"
	"github.com/growdev/growdevers-api/internal/types"
)

// Developers is the demonstration dataset. Ids are assigned by the store.
var Developers = []types.Developer{
	{Name: "Ana Souza", Email: "ana.souza@growdev.com", Age: 24, Registered: true},
	{Name: "Bruno Lima", Email: "bruno.lima@growdev.com", Age: 31, Registered: false},
	{Name: "Carla Mendes", Email: "carla@gmail.com", Age: 19, Registered: true},
	{Name: "Diego Rocha", Email: "diego.rocha@growdev.com", Age: 42, Registered: true},
	{Name: "Eduarda Alves", Email: "duda@hotmail.com", Age: 27, Registered: false},
}

// Load inserts every record of Developers into s, in order, and returns the
// number of records inserted.
func Load(s storage.Storage) (int, error) {
	for i, dev := range Developers {
		if _, err := s.CreateDeveloper(dev); err != nil {
			return i, fmt.Errorf("seed.Load: record %d: %w", i, err)
		}
	}
	return len(Developers), nil
}

// Package storagetest runs the storage.Storage contract against any backend.
package storagetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growdev/growdevers-api/internal/storage"
	"github.com/growdev/growdevers-api/internal/types"
)

// Run exercises every Storage method. newStore must return an empty store
// that is independent of any other returned store.
func Run(t *testing.T, newStore func(t *testing.T) storage.Storage) {
	ana := types.Developer{Name: "Ana", Email: "a@x.com", Age: 20, Registered: true}
	bia := types.Developer{Name: "Bia", Email: "b@x.com", Age: 33.5, Registered: false}

	t.Run("empty list is not nil", func(t *testing.T) {
		s := newStore(t)
		devs, err := s.ListDevelopers()
		require.NoError(t, err)
		assert.NotNil(t, devs)
		assert.Empty(t, devs)
	})

	t.Run("create assigns unique ids and keeps fields", func(t *testing.T) {
		s := newStore(t)
		in := ana
		in.ID = "client-chosen"

		a, err := s.CreateDeveloper(in)
		require.NoError(t, err)
		b, err := s.CreateDeveloper(bia)
		require.NoError(t, err)

		assert.NotEmpty(t, a.ID)
		assert.NotEqual(t, "client-chosen", a.ID)
		assert.NotEqual(t, a.ID, b.ID)

		got, err := s.GetDeveloperByID(a.ID)
		require.NoError(t, err)
		assert.Equal(t, a, got)
		assert.Equal(t, "Ana", got.Name)
		assert.Equal(t, "a@x.com", got.Email)
		assert.Equal(t, 20.0, got.Age)
		assert.True(t, got.Registered)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		s := newStore(t)
		a, _ := s.CreateDeveloper(ana)
		b, _ := s.CreateDeveloper(bia)
		c, _ := s.CreateDeveloper(ana)

		devs, err := s.ListDevelopers()
		require.NoError(t, err)
		require.Len(t, devs, 3)
		assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{devs[0].ID, devs[1].ID, devs[2].ID})
	})

	t.Run("get unknown id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetDeveloperByID("missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("update replaces fields but not id", func(t *testing.T) {
		s := newStore(t)
		a, _ := s.CreateDeveloper(ana)

		repl := bia
		repl.ID = "other"
		got, err := s.UpdateDeveloperByID(a.ID, repl)
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
		assert.Equal(t, "Bia", got.Name)
		assert.Equal(t, 33.5, got.Age)
		assert.False(t, got.Registered)

		stored, err := s.GetDeveloperByID(a.ID)
		require.NoError(t, err)
		assert.Equal(t, got, stored)

		_, err = s.UpdateDeveloperByID("missing", bia)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("toggle twice restores the flag", func(t *testing.T) {
		s := newStore(t)
		a, _ := s.CreateDeveloper(ana)

		once, err := s.ToggleRegisteredByID(a.ID)
		require.NoError(t, err)
		assert.False(t, once.Registered)

		twice, err := s.ToggleRegisteredByID(a.ID)
		require.NoError(t, err)
		assert.True(t, twice.Registered)

		_, err = s.ToggleRegisteredByID("missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete removes exactly one", func(t *testing.T) {
		s := newStore(t)
		a, _ := s.CreateDeveloper(ana)
		b, _ := s.CreateDeveloper(bia)

		require.NoError(t, s.DeleteDeveloperByID(a.ID))

		n, err := s.Count()
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = s.GetDeveloperByID(a.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.GetDeveloperByID(b.ID)
		assert.NoError(t, err)

		assert.ErrorIs(t, s.DeleteDeveloperByID(a.ID), storage.ErrNotFound)
	})

	t.Run("returned values are copies", func(t *testing.T) {
		s := newStore(t)
		a, _ := s.CreateDeveloper(ana)

		devs, _ := s.ListDevelopers()
		devs[0].Name = "mutated"
		a.Name = "mutated"

		got, err := s.GetDeveloperByID(a.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana", got.Name)
	})
}

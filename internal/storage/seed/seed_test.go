package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growdev/growdevers-api/internal/storage/memory"
)

func TestLoad(t *testing.T) {
	s := memory.New()

	n, err := Load(s)
	require.NoError(t, err)
	assert.Equal(t, len(Developers), n)

	devs, err := s.ListDevelopers()
	require.NoError(t, err)
	require.Len(t, devs, len(Developers))

	seen := map[string]bool{}
	for i, d := range devs {
		assert.NotEmpty(t, d.ID)
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
		assert.Equal(t, Developers[i].Name, d.Name)
		assert.GreaterOrEqual(t, d.Age, 18.0)
	}
}

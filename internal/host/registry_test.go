package host

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/mines"
)

func newTestRegistry(limit int) *Registry {
	return NewRegistry(limit, Options{
		Clock:      &fakeClock{},
		NewSession: cornerMine,
	})
}

func TestRegistryCreateGet(t *testing.T) {
	r := newTestRegistry(0)
	defer r.Close()

	g, err := r.Create(3, 3)
	require.NoError(t, err)

	got, ok := r.Get(g.ID)
	require.True(t, ok)
	assert.Same(t, g, got)

	_, ok = r.Get(uuid.New())
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryCreateInvalid(t *testing.T) {
	r := newTestRegistry(0)
	_, err := r.Create(0, 3)
	assert.Error(t, err)
	_, err = r.Create(1<<62+1, 4)
	assert.ErrorIs(t, err, mines.ErrInvalidDimensions)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryLimit(t *testing.T) {
	r := newTestRegistry(2)
	defer r.Close()

	_, err := r.Create(3, 3)
	require.NoError(t, err)
	second, err := r.Create(3, 3)
	require.NoError(t, err)

	_, err = r.Create(3, 3)
	assert.ErrorIs(t, err, ErrTooManyGames)

	require.True(t, r.Remove(second.ID))
	_, err = r.Create(3, 3)
	assert.NoError(t, err)
}

func TestRegistryRemove(t *testing.T) {
	r := newTestRegistry(0)
	g, err := r.Create(3, 3)
	require.NoError(t, err)

	assert.True(t, r.Remove(g.ID))
	assert.False(t, r.Remove(g.ID))
	assert.Equal(t, 0, r.Len())

	select {
	case <-g.Done():
	default:
		t.Fatal("removed game still running")
	}
}

func TestRegistryForgetsClosedGames(t *testing.T) {
	r := newTestRegistry(0)
	g, err := r.Create(3, 3)
	require.NoError(t, err)

	g.Close()
	assert.Eventually(t, func() bool {
		return r.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestRegistryClose(t *testing.T) {
	r := newTestRegistry(0)
	var games []*Game
	for range 3 {
		g, err := r.Create(3, 3)
		require.NoError(t, err)
		games = append(games, g)
	}

	r.Close()
	assert.Equal(t, 0, r.Len())
	for _, g := range games {
		_, ok := <-g.Done()
		assert.False(t, ok)
	}
}

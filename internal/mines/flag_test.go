package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleMarkCycle(t *testing.T) {
	s := newTestSession(t, 3, 3, Point{0, 0}, Point{2, 2})
	start := s.RemainingMineCount()

	steps := []struct {
		to      Mark
		counter int
		count   int
	}{
		{Flagged, -1, start - 1},
		{Questioned, 1, start},
		{None, 0, start},
		{Flagged, -1, start - 1},
	}
	from := None
	for _, step := range steps {
		delta, err := s.ToggleMark(1, 1)
		require.NoError(t, err)
		assert.Equal(t, MarkDelta{From: from, To: step.to, Counter: step.counter}, delta)
		assert.Equal(t, step.to, mustCell(t, s, 1, 1).Mark())
		assert.Equal(t, step.count, s.RemainingMineCount())
		from = step.to
	}
}

func TestToggleMarkOverFlagging(t *testing.T) {
	s := newTestSession(t, 4, 1, Point{0, 0})
	for x := range 4 {
		_, err := s.ToggleMark(x, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, -3, s.RemainingMineCount())
}

func TestToggleMarkRevealed(t *testing.T) {
	s := newTestSession(t, 3, 3, Point{0, 0})
	_, err := s.Reveal(2, 2)
	require.NoError(t, err)

	delta, err := s.ToggleMark(2, 2)
	require.NoError(t, err)
	assert.True(t, delta.Ignored)
	assert.Equal(t, None, mustCell(t, s, 2, 2).Mark())
	assert.Equal(t, 1, s.RemainingMineCount())
}

func TestToggleMarkAfterTerminal(t *testing.T) {
	s := newTestSession(t, 3, 3, Point{0, 0})
	_, err := s.Reveal(0, 0)
	require.NoError(t, err)
	require.Equal(t, Lost, s.Status())

	delta, err := s.ToggleMark(1, 1)
	require.NoError(t, err)
	assert.True(t, delta.Ignored)
	assert.Equal(t, None, mustCell(t, s, 1, 1).Mark())
	assert.Equal(t, 1, s.RemainingMineCount())
}

func TestToggleMarkOutOfBounds(t *testing.T) {
	s := newTestSession(t, 3, 3, Point{0, 0})
	_, err := s.ToggleMark(0, 3)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, 1, s.RemainingMineCount())
}

package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMineCountFor(t *testing.T) {
	tests := []struct {
		width, height int
		want          int
	}{
		{10, 10, 20},
		{1, 1, 0},
		{1, 2, 0},
		{1, 3, 1},
		{2, 2, 1},
		{3, 3, 2},
		{7, 1, 1},
		{4, 4, 3},
		{9, 9, 16},
		{16, 30, 96},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, MineCountFor(test.width, test.height),
			"%dx%d", test.width, test.height)
	}
}

func TestPlaceMinesExactCount(t *testing.T) {
	r := testRand()
	b, err := NewBoard(4, 3)
	require.NoError(t, err)

	for k := 0; k < b.Len(); k++ {
		require.NoError(t, PlaceMines(b, k, r))
		mines := b.Mines()
		assert.Len(t, mines, k)

		seen := make(map[Point]bool)
		for _, m := range mines {
			assert.False(t, seen[m.Point], "duplicate mine at %v", m.Point)
			seen[m.Point] = true
		}
	}
}

func TestPlaceMinesInvalidCount(t *testing.T) {
	b, err := NewBoard(3, 3)
	require.NoError(t, err)
	for _, k := range []int{-1, 9, 10} {
		err := PlaceMines(b, k, testRand())
		assert.ErrorIs(t, err, ErrInvalidMineCount, "count %d", k)
		assert.Empty(t, b.Mines(), "board mutated by rejected count %d", k)
	}
}

func TestPlaceMinesAt(t *testing.T) {
	b, err := NewBoard(3, 3)
	require.NoError(t, err)

	require.NoError(t, PlaceMinesAt(b, []Point{{0, 0}, {2, 1}}))
	assert.Len(t, b.Mines(), 2)

	assert.ErrorIs(t, PlaceMinesAt(b, []Point{{1, 1}, {1, 1}}), ErrInvalidMineCount)
	assert.ErrorIs(t, PlaceMinesAt(b, []Point{{3, 0}}), ErrOutOfBounds)
	assert.Len(t, b.Mines(), 2, "failed placement must leave the layout untouched")
}

func bruteForceCount(b *Board, x, y int) (n int) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if c, err := b.CellAt(x+dx, y+dy); err == nil && c.IsMine() {
				n++
			}
		}
	}
	return
}

func TestComputeAdjacency(t *testing.T) {
	r := testRand()
	for _, dims := range [][2]int{{1, 1}, {1, 6}, {5, 1}, {3, 3}, {10, 10}, {16, 9}} {
		b, err := NewBoard(dims[0], dims[1])
		require.NoError(t, err)
		for _, k := range []int{0, MineCountFor(dims[0], dims[1]), b.Len() - 1} {
			require.NoError(t, PlaceMines(b, k, r))
			ComputeAdjacency(b)
			for c := range b.All() {
				if c.IsMine() {
					assert.Equal(t, noCount, c.AdjacentMines())
					continue
				}
				assert.Equal(t, bruteForceCount(b, c.X, c.Y), c.AdjacentMines(),
					"%v on\n%s", c, b)
			}
		}
	}
}

func TestComputeAdjacencyIdempotent(t *testing.T) {
	b, err := NewBoard(6, 6)
	require.NoError(t, err)
	require.NoError(t, PlaceMines(b, 7, testRand()))
	ComputeAdjacency(b)
	first := b.String()
	ComputeAdjacency(b)
	assert.Equal(t, first, b.String())
}

func TestComputeAdjacencyCorner(t *testing.T) {
	b, err := NewBoard(3, 3)
	require.NoError(t, err)
	require.NoError(t, PlaceMinesAt(b, []Point{{1, 0}, {0, 1}, {1, 1}}))
	ComputeAdjacency(b)
	assert.Equal(t, "3*2\n**2\n221\n", b.String())
}

package mines

import (
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	// One mine per this many cells.
	mineDensity = 5
	// Countdown seconds granted per mine.
	DefaultSecondsPerMine = 24
)

// MineCountFor returns round(width*height/5), halves rounded away from zero.
func MineCountFor(width, height int) int {
	return int(math.Round(float64(width*height) / mineDensity))
}

func validateMineCount(b *Board, count int) error {
	if count < 0 || count >= b.Len() {
		return fmt.Errorf("%w: %d mines on %d cells",
			ErrInvalidMineCount, count, b.Len())
	}
	return nil
}

func (b *Board) clearMines() {
	for i := range b.cells {
		b.cells[i].mine = false
		b.cells[i].adjacent = 0
	}
}

// PlaceMines marks count distinct cells as mines, drawing positions
// uniformly and rejecting repeats. Any earlier layout is discarded, so the
// board always ends up with exactly count mines. The board is left untouched
// when count is out of range.
func PlaceMines(b *Board, count int, r *rand.Rand) error {
	if err := validateMineCount(b, count); err != nil {
		return err
	}
	b.clearMines()
	for placed := 0; placed < count; {
		c := &b.cells[r.IntN(b.Height)*b.Width+r.IntN(b.Width)]
		if c.mine {
			continue
		}
		c.mine = true
		placed++
	}
	return nil
}

// PlaceMinesAt lays mines on exactly the given points.
func PlaceMinesAt(b *Board, points []Point) error {
	if err := validateMineCount(b, len(points)); err != nil {
		return err
	}
	seen := make(map[Point]struct{}, len(points))
	for _, p := range points {
		if !b.PointInBounds(p.X, p.Y) {
			return fmt.Errorf("%w: mine at (%d, %d)", ErrOutOfBounds, p.X, p.Y)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: duplicate mine at (%d, %d)",
				ErrInvalidMineCount, p.X, p.Y)
		}
		seen[p] = struct{}{}
	}
	b.clearMines()
	for p := range seen {
		b.cells[p.Y*b.Width+p.X].mine = true
	}
	return nil
}

// ComputeAdjacency stores the number of neighbouring mines on every safe
// cell. Must run after placement.
func ComputeAdjacency(b *Board) {
	isMine := func(c *Cell) bool { return c.mine }
	for c := range b.All() {
		if c.mine {
			c.adjacent = noCount
			continue
		}
		c.adjacent = b.countNeighbors(c, isMine)
	}
}

func (b *Board) Mines() []*Cell {
	mines := make([]*Cell, 0)
	for c := range b.All() {
		if c.mine {
			mines = append(mines, c)
		}
	}
	return mines
}

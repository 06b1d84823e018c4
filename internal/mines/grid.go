package mines

import (
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
)

type Visibility uint8

const (
	Hidden Visibility = iota
	Revealed
)

func (v Visibility) String() string {
	if v == Revealed {
		return "revealed"
	}
	return "hidden"
}

// [Visibility] implements [encoding.TextMarshaler]
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

type Mark uint8

const (
	None Mark = iota
	Flagged
	Questioned
)

// Next returns the mark that follows m in the None, Flagged, Questioned cycle.
func (m Mark) Next() Mark {
	switch m {
	case None:
		return Flagged
	case Flagged:
		return Questioned
	default:
		return None
	}
}

func (m Mark) String() string {
	switch m {
	case Flagged:
		return "flagged"
	case Questioned:
		return "questioned"
	default:
		return "none"
	}
}

// [Mark] implements [encoding.TextMarshaler]
func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Adjacency count stored on mine cells.
const noCount = -1

type Point struct {
	X int `json:"x" schema:"x,required"`
	Y int `json:"y" schema:"y,required"`
}

type Cell struct {
	Point

	mine       bool
	adjacent   int
	visibility Visibility
	mark       Mark
	exploded   bool
}

func (c *Cell) IsMine() bool           { return c.mine }
func (c *Cell) AdjacentMines() int     { return c.adjacent }
func (c *Cell) Visibility() Visibility { return c.visibility }
func (c *Cell) Mark() Mark             { return c.mark }
func (c *Cell) IsRevealed() bool       { return c.visibility == Revealed }

// Exploded reports whether c is the mine whose reveal lost the game.
func (c *Cell) Exploded() bool { return c.exploded }

func (c *Cell) String() string {
	return fmt.Sprintf("Cell(%d, %d)", c.X, c.Y)
}

// Board is a fixed width*height grid of cells stored row by row.
type Board struct {
	Width, Height int
	cells         []Cell
}

func NewBoard(width, height int) (*Board, error) {
	if width <= 0 || height <= 0 || width > math.MaxInt/height {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	b := &Board{
		Width:  width,
		Height: height,
		cells:  make([]Cell, width*height),
	}
	for i := range b.cells {
		b.cells[i].Point = Point{X: i % width, Y: i / width}
	}
	return b, nil
}

func (b *Board) Len() int {
	return len(b.cells)
}

func (b *Board) PointInBounds(x, y int) bool {
	return 0 <= x && x < b.Width && 0 <= y && y < b.Height
}

func (b *Board) CellAt(x, y int) (*Cell, error) {
	if !b.PointInBounds(x, y) {
		return nil, fmt.Errorf("%w: (%d, %d) on %dx%d board",
			ErrOutOfBounds, x, y, b.Width, b.Height)
	}
	return &b.cells[y*b.Width+x], nil
}

// All yields every cell in row-major order.
func (b *Board) All() iter.Seq[*Cell] {
	return func(yield func(*Cell) bool) {
		for i := range b.cells {
			if !yield(&b.cells[i]) {
				return
			}
		}
	}
}

// Neighbors returns the cells at Chebyshev distance 1 from (x, y), row by
// row, clipped to the board. Corners have 3, edges 5 and interior cells 8.
func (b *Board) Neighbors(x, y int) []*Cell {
	neighbors := make([]*Cell, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			xx, yy := x+dx, y+dy
			if (dx != 0 || dy != 0) && b.PointInBounds(xx, yy) {
				neighbors = append(neighbors, &b.cells[yy*b.Width+xx])
			}
		}
	}
	return neighbors
}

func (b *Board) neighborsOf(c *Cell) []*Cell {
	return b.Neighbors(c.X, c.Y)
}

func (b *Board) countNeighbors(c *Cell, pred func(*Cell) bool) (n int) {
	for _, neighbor := range b.neighborsOf(c) {
		if pred(neighbor) {
			n++
		}
	}
	return
}

// String renders the full board, mines included, one row per line:
// '*' mine, '.' zero, digits for counts.
func (b *Board) String() string {
	var sb strings.Builder
	for y := range b.Height {
		for x := range b.Width {
			c := &b.cells[y*b.Width+x]
			switch {
			case c.mine:
				sb.WriteByte('*')
			case c.adjacent == 0:
				sb.WriteByte('.')
			default:
				sb.WriteString(strconv.Itoa(c.adjacent))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

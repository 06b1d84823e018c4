package mines

import (
	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
)

type Outcome uint8

const (
	Ignored Outcome = iota
	Opened
	Exploded
	AllSafeRevealed
)

func (o Outcome) String() string {
	switch o {
	case Opened:
		return "revealed"
	case Exploded:
		return "exploded"
	case AllSafeRevealed:
		return "all_safe_revealed"
	default:
		return "ignored"
	}
}

// [Outcome] implements [encoding.TextMarshaler]
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Reveal opens the single cell at (x, y). It never cascades.
func (s *Session) Reveal(x, y int) (Outcome, error) {
	c, err := s.board.CellAt(x, y)
	if err != nil {
		return Ignored, err
	}
	return s.reveal(c), nil
}

func (s *Session) reveal(c *Cell) Outcome {
	if s.status.Terminal() || c.visibility == Revealed || c.mark != None {
		return Ignored
	}
	c.visibility = Revealed

	if c.mine {
		Log.WithField("cell", c.String()).Debug("mine detonated")
		s.lose(c)
		return Exploded
	}

	s.remainingSafe--
	if s.remainingSafe == 0 {
		s.win()
		return AllSafeRevealed
	}
	return Opened
}

type cellSet map[*Cell]struct{}

func (set cellSet) Add(c *Cell) { set[c] = struct{}{} }

func (set cellSet) Contains(c *Cell) bool {
	_, ok := set[c]
	return ok
}

// clearable reports whether chord-clearing around c is trusted: c is not
// flagged and at least as many neighbours are flagged as it has mines. Hidden
// questioned cells qualify too; mines carry the negative sentinel and always do.
func (s *Session) clearable(c *Cell) bool {
	if c.mark == Flagged {
		return false
	}
	flags := s.board.countNeighbors(c, func(n *Cell) bool { return n.mark == Flagged })
	return c.adjacent <= flags
}

// ChordClear reveals the neighbours of the open cell at (x, y) when enough of
// them are flagged, then repeats from every neighbour. Cells are visited in
// the same depth-first order as the recursive formulation, using an explicit
// stack and a cleared set so that each cell is expanded at most once. The
// cascade stops as soon as the game ends.
func (s *Session) ChordClear(x, y int) (Outcome, error) {
	origin, err := s.board.CellAt(x, y)
	if err != nil {
		return Ignored, err
	}
	if s.status.Terminal() || origin.visibility != Revealed {
		return Ignored, nil
	}

	var (
		cleared  = make(cellSet)
		stack    = new(deque.Deque[*Cell])
		revealed = 0
	)
	stack.PushBack(origin)

	for stack.Len() > 0 && !s.status.Terminal() {
		c := stack.PopBack()
		if cleared.Contains(c) || !s.clearable(c) {
			continue
		}
		cleared.Add(c)

		neighbors := s.board.neighborsOf(c)
		for _, n := range neighbors {
			if s.reveal(n) != Ignored {
				revealed++
			}
			if s.status.Terminal() {
				break
			}
		}
		for i := len(neighbors) - 1; i >= 0; i-- {
			stack.PushBack(neighbors[i])
		}
	}

	Log.WithFields(logrus.Fields{
		"origin":   origin.String(),
		"cleared":  len(cleared),
		"revealed": revealed,
	}).Debug("chord clear")

	switch {
	case s.status == Lost:
		return Exploded, nil
	case s.status == Won:
		return AllSafeRevealed, nil
	case revealed > 0:
		return Opened, nil
	default:
		return Ignored, nil
	}
}

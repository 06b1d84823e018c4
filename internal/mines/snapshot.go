package mines

type CellView struct {
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Visibility Visibility `json:"visibility"`
	Mark       Mark       `json:"mark"`
	// Set only once the cell is revealed or the game is over.
	Mine *bool `json:"mine,omitempty"`
	// Set only on revealed safe cells.
	Adjacent *int `json:"adjacent,omitempty"`
	Exploded bool `json:"exploded,omitempty"`
}

// Snapshot is everything a view needs to draw the game. Mine positions stay
// hidden until revealed or the game ends.
type Snapshot struct {
	Width              int        `json:"width"`
	Height             int        `json:"height"`
	MineCount          int        `json:"mine_count"`
	Status             Status     `json:"status"`
	SecondsRemaining   int        `json:"seconds_remaining"`
	RemainingMineCount int        `json:"remaining_mine_count"`
	Cells              []CellView `json:"cells"`
}

func (s *Session) Snapshot() Snapshot {
	terminal := s.status.Terminal()
	snap := Snapshot{
		Width:              s.Width(),
		Height:             s.Height(),
		MineCount:          s.MineCount(),
		Status:             s.status,
		SecondsRemaining:   s.secondsRemaining,
		RemainingMineCount: s.remainingMines,
		Cells:              make([]CellView, 0, s.board.Len()),
	}
	for c := range s.board.All() {
		view := CellView{
			X:          c.X,
			Y:          c.Y,
			Visibility: c.visibility,
			Mark:       c.mark,
			Exploded:   c.exploded,
		}
		if c.IsRevealed() || terminal {
			mine := c.mine
			view.Mine = &mine
		}
		if c.IsRevealed() && !c.mine {
			adjacent := c.adjacent
			view.Adjacent = &adjacent
		}
		snap.Cells = append(snap.Cells, view)
	}
	return snap
}

// At returns the view of the cell at (x, y). It panics when out of bounds.
func (snap Snapshot) At(x, y int) CellView {
	return snap.Cells[y*snap.Width+x]
}

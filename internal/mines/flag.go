package mines

type MarkDelta struct {
	Ignored bool `json:"ignored"`
	From    Mark `json:"from"`
	To      Mark `json:"to"`
	// Change applied to RemainingMineCount.
	Counter int `json:"counter"`
}

// ToggleMark advances the mark on the hidden cell at (x, y) one step along
// None, Flagged, Questioned. Flagging takes one off the remaining mine
// count and moving on to Questioned gives it back; the count is not clamped.
func (s *Session) ToggleMark(x, y int) (MarkDelta, error) {
	c, err := s.board.CellAt(x, y)
	if err != nil {
		return MarkDelta{Ignored: true}, err
	}
	if s.status.Terminal() || c.visibility == Revealed {
		return MarkDelta{Ignored: true, From: c.mark, To: c.mark}, nil
	}

	delta := MarkDelta{From: c.mark, To: c.mark.Next()}
	switch delta.To {
	case Flagged:
		delta.Counter = -1
	case Questioned:
		delta.Counter = 1
	}
	c.mark = delta.To
	s.remainingMines += delta.Counter
	return delta, nil
}

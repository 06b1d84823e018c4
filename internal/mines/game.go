package mines

import (
	"hash/maphash"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Status uint8

const (
	InProgress Status = iota
	Won
	Lost
)

func (s Status) Terminal() bool {
	return s != InProgress
}

func (s Status) String() string {
	switch s {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "in_progress"
	}
}

// [Status] implements [encoding.TextMarshaler]
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Options struct {
	// Countdown seconds per mine; DefaultSecondsPerMine when zero.
	SecondsPerMine int
	// Source for mine placement; a randomly seeded PCG when nil.
	Rand *rand.Rand
	// Clock for StartedAt and EndedAt; time.Now when nil.
	Now func() time.Time
}

func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

// Session is the state of one play-through. It is not safe for concurrent
// use; callers serialize every action and tick.
type Session struct {
	board *Board
	mines []*Cell

	remainingSafe  int
	remainingMines int
	status         Status

	duration         int
	secondsRemaining int

	now       func() time.Time
	StartedAt time.Time
	EndedAt   time.Time
}

// NewSession builds a width*height board with round(width*height/5)
// randomly placed mines.
func NewSession(width, height int, opts Options) (*Session, error) {
	board, err := NewBoard(width, height)
	if err != nil {
		return nil, err
	}
	r := opts.Rand
	if r == nil {
		r = NewRand()
	}
	if err := PlaceMines(board, MineCountFor(width, height), r); err != nil {
		return nil, err
	}
	return NewSessionFromBoard(board, opts), nil
}

// NewSessionFromBoard starts a session on a board whose mines are already
// placed. Adjacency counts are recomputed.
func NewSessionFromBoard(board *Board, opts Options) *Session {
	ComputeAdjacency(board)

	perMine := opts.SecondsPerMine
	if perMine <= 0 {
		perMine = DefaultSecondsPerMine
	}

	s := &Session{
		board: board,
		mines: board.Mines(),
		now:   opts.now,
	}
	s.remainingSafe = board.Len() - len(s.mines)
	s.remainingMines = len(s.mines)
	s.duration = max(len(s.mines), 1) * perMine
	s.secondsRemaining = s.duration
	s.StartedAt = s.now()

	Log.WithFields(logrus.Fields{
		"width":    board.Width,
		"height":   board.Height,
		"mines":    len(s.mines),
		"duration": s.duration,
	}).Debug("new session")

	return s
}

func (s *Session) Board() *Board           { return s.board }
func (s *Session) Width() int              { return s.board.Width }
func (s *Session) Height() int             { return s.board.Height }
func (s *Session) MineCount() int          { return len(s.mines) }
func (s *Session) Status() Status          { return s.status }
func (s *Session) RemainingSafeCells() int { return s.remainingSafe }

// RemainingMineCount is total mines minus flags placed. It goes negative
// when the player over-flags.
func (s *Session) RemainingMineCount() int { return s.remainingMines }

func (s *Session) SecondsRemaining() int { return s.secondsRemaining }

// Duration is the configured countdown length in seconds.
func (s *Session) Duration() int { return s.duration }

// Tick advances the countdown by one second. When it reaches zero the game
// is lost with every mine disclosed. Terminal sessions do not tick; Tick
// reports whether anything changed.
func (s *Session) Tick() bool {
	if s.status.Terminal() {
		return false
	}
	s.secondsRemaining--
	if s.secondsRemaining <= 0 {
		s.secondsRemaining = 0
		Log.Debug("countdown expired")
		s.lose(nil)
	}
	return true
}

// lose discloses every mine. origin is the detonated mine, nil on timeout.
func (s *Session) lose(origin *Cell) {
	s.status = Lost
	s.EndedAt = s.now()
	for _, m := range s.mines {
		m.visibility = Revealed
	}
	if origin != nil {
		origin.exploded = true
	}
}

func (s *Session) win() {
	s.status = Won
	s.EndedAt = s.now()
	for _, m := range s.mines {
		m.mark = Flagged
	}
	s.remainingMines = 0
}

type Summary struct {
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	MineCount        int       `json:"mine_count"`
	Status           Status    `json:"status"`
	Duration         int       `json:"duration"`
	SecondsRemaining int       `json:"seconds_remaining"`
	StartedAt        time.Time `json:"started_at"`
	EndedAt          time.Time `json:"ended_at"`
}

func (s *Session) Summary() Summary {
	return Summary{
		Width:            s.Width(),
		Height:           s.Height(),
		MineCount:        s.MineCount(),
		Status:           s.status,
		Duration:         s.duration,
		SecondsRemaining: s.secondsRemaining,
		StartedAt:        s.StartedAt,
		EndedAt:          s.EndedAt,
	}
}

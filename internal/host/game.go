package host

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/metrics"
	"github.com/vancomm/sweeper/internal/mines"
)

var Log = logrus.New()

var ErrClosed = errors.New("game closed")

type SessionFactory func(width, height int) (*mines.Session, error)

// FinishFunc is called from the game loop once per session, when it reaches
// a terminal state. It must not block.
type FinishFunc func(id uuid.UUID, summary mines.Summary)

type Options struct {
	Clock        Clock
	TickInterval time.Duration
	// Games with no requests for this long close themselves; zero disables.
	IdleTimeout time.Duration
	NewSession  SessionFactory
	OnFinish    FinishFunc
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = SystemClock
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.NewSession == nil {
		o.NewSession = func(width, height int) (*mines.Session, error) {
			return mines.NewSession(width, height, mines.Options{})
		}
	}
	return o
}

type Result struct {
	Outcome  mines.Outcome    `json:"outcome"`
	Mark     *mines.MarkDelta `json:"mark,omitempty"`
	Snapshot mines.Snapshot   `json:"snapshot"`
}

func (r Result) changed() bool {
	if r.Mark != nil {
		return !r.Mark.Ignored
	}
	return r.Outcome != mines.Ignored
}

func (r Result) label() string {
	if r.Mark != nil {
		if r.Mark.Ignored {
			return mines.Ignored.String()
		}
		return r.Mark.To.String()
	}
	return r.Outcome.String()
}

type response struct {
	res Result
	err error
}

type request struct {
	fn    func() (Result, error)
	reply chan response
}

// Game hosts one session at a time. A single goroutine applies actions and
// countdown ticks in arrival order, so the session is never touched
// concurrently. The ticker belongs to that goroutine and is replaced on
// every new game, so a tick can only ever reach the session it was started
// for.
type Game struct {
	ID uuid.UUID

	opts      Options
	requests  chan request
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// owned by run
	session *mines.Session
	ticker  Ticker
	subs    map[chan mines.Snapshot]struct{}
}

// Start creates the first session and begins its countdown.
func Start(id uuid.UUID, width, height int, opts Options) (*Game, error) {
	opts = opts.withDefaults()
	session, err := opts.NewSession(width, height)
	if err != nil {
		return nil, err
	}
	g := &Game{
		ID:       id,
		opts:     opts,
		requests: make(chan request),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		subs:     make(map[chan mines.Snapshot]struct{}),
	}
	g.begin(session)
	go g.run()
	return g, nil
}

func (g *Game) log() *logrus.Entry {
	return Log.WithField("game", g.ID.String())
}

func (g *Game) begin(s *mines.Session) {
	g.stopTicker()
	g.session = s
	g.ticker = g.opts.Clock.NewTicker(g.opts.TickInterval)
	metrics.GamesStarted.Inc()
	g.log().WithFields(logrus.Fields{
		"width":   s.Width(),
		"height":  s.Height(),
		"mines":   s.MineCount(),
		"seconds": s.Duration(),
	}).Info("game started")
}

func (g *Game) stopTicker() {
	if g.ticker != nil {
		g.ticker.Stop()
		g.ticker = nil
	}
}

// settle stops the countdown the first time the session is seen terminal.
func (g *Game) settle(cause string) {
	if !g.session.Status().Terminal() || g.ticker == nil {
		return
	}
	g.stopTicker()
	summary := g.session.Summary()
	metrics.GamesFinished.WithLabelValues(summary.Status.String(), cause).Inc()
	g.log().WithFields(logrus.Fields{
		"status":  summary.Status,
		"cause":   cause,
		"seconds": summary.SecondsRemaining,
	}).Info("game finished")
	if g.opts.OnFinish != nil {
		g.opts.OnFinish(g.ID, summary)
	}
}

func (g *Game) publish() {
	if len(g.subs) == 0 {
		return
	}
	snap := g.session.Snapshot()
	for ch := range g.subs {
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot the subscriber has not read yet
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (g *Game) run() {
	defer close(g.done)
	defer func() {
		g.stopTicker()
		for ch := range g.subs {
			delete(g.subs, ch)
			close(ch)
		}
	}()

	var (
		idle   *time.Timer
		idleCh <-chan time.Time
	)
	if g.opts.IdleTimeout > 0 {
		idle = time.NewTimer(g.opts.IdleTimeout)
		defer idle.Stop()
		idleCh = idle.C
	}

	for {
		var tick <-chan time.Time
		if g.ticker != nil {
			tick = g.ticker.C()
		}
		select {
		case <-g.quit:
			return
		case <-idleCh:
			g.log().Info("closing idle game")
			return
		case req := <-g.requests:
			res, err := req.fn()
			req.reply <- response{res, err}
			if idle != nil {
				idle.Reset(g.opts.IdleTimeout)
			}
		case <-tick:
			if g.session.Tick() {
				g.settle("timeout")
				g.publish()
			}
		}
	}
}

func (g *Game) do(ctx context.Context, fn func() (Result, error)) (Result, error) {
	req := request{fn: fn, reply: make(chan response, 1)}
	select {
	case g.requests <- req:
	case <-g.done:
		return Result{}, ErrClosed
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
	select {
	case resp := <-req.reply:
		return resp.res, resp.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (g *Game) act(
	ctx context.Context, action string, fn func(*mines.Session) (Result, error),
) (Result, error) {
	return g.do(ctx, func() (Result, error) {
		res, err := fn(g.session)
		if err != nil {
			g.log().WithField("action", action).WithError(err).Warn("rejected action")
			return Result{}, err
		}
		metrics.Actions.WithLabelValues(action, res.label()).Inc()
		g.settle(action)
		res.Snapshot = g.session.Snapshot()
		if res.changed() {
			g.publish()
		}
		return res, nil
	})
}

func (g *Game) Reveal(ctx context.Context, x, y int) (Result, error) {
	return g.act(ctx, "reveal", func(s *mines.Session) (Result, error) {
		outcome, err := s.Reveal(x, y)
		return Result{Outcome: outcome}, err
	})
}

func (g *Game) ChordClear(ctx context.Context, x, y int) (Result, error) {
	return g.act(ctx, "chord", func(s *mines.Session) (Result, error) {
		outcome, err := s.ChordClear(x, y)
		return Result{Outcome: outcome}, err
	})
}

func (g *Game) ToggleMark(ctx context.Context, x, y int) (Result, error) {
	return g.act(ctx, "mark", func(s *mines.Session) (Result, error) {
		delta, err := s.ToggleMark(x, y)
		return Result{Mark: &delta}, err
	})
}

// NewGame replaces the session with a fresh one and restarts the countdown.
// Zero dimensions keep the current ones. On error the current session is
// kept as is.
func (g *Game) NewGame(ctx context.Context, width, height int) (mines.Snapshot, error) {
	res, err := g.do(ctx, func() (Result, error) {
		if width == 0 {
			width = g.session.Width()
		}
		if height == 0 {
			height = g.session.Height()
		}
		s, err := g.opts.NewSession(width, height)
		if err != nil {
			return Result{}, err
		}
		g.begin(s)
		g.publish()
		return Result{Snapshot: s.Snapshot()}, nil
	})
	return res.Snapshot, err
}

func (g *Game) Snapshot(ctx context.Context) (mines.Snapshot, error) {
	res, err := g.do(ctx, func() (Result, error) {
		return Result{Snapshot: g.session.Snapshot()}, nil
	})
	return res.Snapshot, err
}

func (g *Game) Summary(ctx context.Context) (mines.Summary, error) {
	var summary mines.Summary
	_, err := g.do(ctx, func() (Result, error) {
		summary = g.session.Summary()
		return Result{}, nil
	})
	return summary, err
}

// Subscribe returns a channel that receives the current snapshot and then
// one after every change, including ticks. Slow readers only see the latest
// snapshot. The channel is closed when the game closes or cancel is called.
func (g *Game) Subscribe(ctx context.Context) (<-chan mines.Snapshot, func(), error) {
	ch := make(chan mines.Snapshot, 1)
	_, err := g.do(ctx, func() (Result, error) {
		g.subs[ch] = struct{}{}
		ch <- g.session.Snapshot()
		return Result{}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	cancel := func() {
		g.do(context.Background(), func() (Result, error) {
			if _, ok := g.subs[ch]; ok {
				delete(g.subs, ch)
				close(ch)
			}
			return Result{}, nil
		})
	}
	return ch, cancel, nil
}

// Done is closed once the game loop has exited.
func (g *Game) Done() <-chan struct{} {
	return g.done
}

// Close stops the loop and its ticker. It is safe to call more than once.
func (g *Game) Close() {
	g.closeOnce.Do(func() {
		close(g.quit)
	})
	<-g.done
}

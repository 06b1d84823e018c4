package host

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/vancomm/sweeper/internal/metrics"
)

var ErrTooManyGames = errors.New("too many hosted games")

// Registry owns every hosted game by id.
type Registry struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*Game
	limit int
	opts  Options
}

// NewRegistry hosts at most limit games at once; zero means no limit.
func NewRegistry(limit int, opts Options) *Registry {
	return &Registry{
		games: make(map[uuid.UUID]*Game),
		limit: limit,
		opts:  opts,
	}
}

func (r *Registry) Create(width, height int) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.limit > 0 && len(r.games) >= r.limit {
		return nil, ErrTooManyGames
	}
	g, err := Start(uuid.New(), width, height, r.opts)
	if err != nil {
		return nil, err
	}
	r.games[g.ID] = g
	metrics.ActiveGames.Inc()

	go func() {
		<-g.Done()
		r.forget(g)
	}()

	return g, nil
}

func (r *Registry) forget(g *Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.games[g.ID] == g {
		delete(r.games, g.ID)
		metrics.ActiveGames.Dec()
	}
}

func (r *Registry) Get(id uuid.UUID) (*Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	return g, ok
}

// Remove closes the game and forgets it. It reports whether the id was known.
func (r *Registry) Remove(id uuid.UUID) bool {
	g, ok := r.Get(id)
	if !ok {
		return false
	}
	g.Close()
	r.forget(g)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Close shuts down every hosted game.
func (r *Registry) Close() {
	r.mu.RLock()
	games := make([]*Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	r.mu.RUnlock()

	for _, g := range games {
		g.Close()
		r.forget(g)
	}
}

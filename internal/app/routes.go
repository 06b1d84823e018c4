package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vancomm/sweeper/internal/handlers"
	"github.com/vancomm/sweeper/internal/middleware"
)

func (a *App) loadRoutes() {
	var results handlers.ResultLister
	if a.repo != nil {
		results = a.repo
	}
	game := handlers.NewGameHandler(a.games, a.jwt, a.ws, handlers.Limits{
		DefaultWidth:  a.cfg.Game.Width,
		DefaultHeight: a.cfg.Game.Height,
		MaxCells:      a.cfg.Game.MaxCells,
	}, results)

	owned := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireGame(a.jwt)(h)
	}

	a.router.HandleFunc("POST /v1/game", game.NewGame)
	a.router.Handle("GET /v1/game/{id}", owned(game.Fetch))
	a.router.Handle("POST /v1/game/{id}/open", owned(game.Open()))
	a.router.Handle("POST /v1/game/{id}/chord", owned(game.Chord()))
	a.router.Handle("POST /v1/game/{id}/flag", owned(game.Flag()))
	a.router.Handle("POST /v1/game/{id}/new", owned(game.Reset))
	a.router.Handle("DELETE /v1/game/{id}", owned(game.Close))
	a.router.Handle("GET /v1/game/{id}/connect", owned(game.Connect))
	a.router.HandleFunc("GET /v1/results", game.Results)
	a.router.HandleFunc("GET /v1/status", game.Status)
	a.router.Handle("GET /metrics", promhttp.Handler())
}

func (a *App) handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Logging(),
		middleware.Cors(a.cfg.Development, a.cfg.AllowedOrigins),
	)
}

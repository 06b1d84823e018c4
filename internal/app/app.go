package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/database"
	"github.com/vancomm/sweeper/internal/host"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/repository"
)

var Log = logrus.New()

const (
	recordTimeout   = 5 * time.Second
	shutdownTimeout = 30 * time.Second
)

type App struct {
	cfg        *config.App
	router     *http.ServeMux
	db         *pgxpool.Pool
	repo       *repository.Queries
	games      *host.Registry
	jwt        *config.JWT
	ws         *config.WebSocket
	migrations fs.FS
}

func New(cfg *config.App, migrations fs.FS) *App {
	return &App{
		cfg:        cfg,
		router:     http.NewServeMux(),
		jwt:        config.NewJWT(cfg.JWTSecret, cfg.TokenLifetime),
		ws:         config.NewWebSocket(cfg.Development, cfg.AllowedOrigins),
		migrations: migrations,
	}
}

func (a *App) newSession(width, height int) (*mines.Session, error) {
	return mines.NewSession(width, height, mines.Options{
		SecondsPerMine: a.cfg.Game.SecondsPerMine,
	})
}

// record persists a finished session off the game loop.
func (a *App) record(id uuid.UUID, summary mines.Summary) {
	if a.repo == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		_, err := a.repo.Record(ctx, id, summary)
		if err != nil && !errors.Is(err, repository.ErrDuplicateResult) {
			Log.WithError(err).WithField("game", id.String()).Error("unable to record result")
		}
	}()
}

// setup connects the optional database and builds the handler tree.
func (a *App) setup(ctx context.Context) error {
	if a.cfg.Database.Enabled() {
		db, err := database.ConnectAndMigrate(ctx, a.cfg.Database, a.migrations)
		if err != nil {
			return fmt.Errorf("unable to connect to db: %w", err)
		}
		a.db = db
		a.repo = repository.New(db)
	} else {
		Log.Warn("no database configured, results will not be recorded")
	}

	a.games = host.NewRegistry(a.cfg.Game.MaxSessions, host.Options{
		IdleTimeout: a.cfg.Game.IdleTimeout,
		NewSession:  a.newSession,
		OnFinish:    a.record,
	})
	a.loadRoutes()
	return nil
}

func (a *App) close() {
	if a.games != nil {
		a.games.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

func (a *App) Start(ctx context.Context) error {
	if err := a.setup(ctx); err != nil {
		return err
	}
	defer a.close()

	server := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		Log.WithFields(a.cfg.Fields()).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		Log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/host"
	"github.com/vancomm/sweeper/internal/middleware"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/repository"
)

var errBoardTooLarge = errors.New("board too large")

type ResultLister interface {
	Recent(ctx context.Context, filter repository.ResultFilter) ([]repository.GameResult, error)
}

type Limits struct {
	DefaultWidth  int
	DefaultHeight int
	// Zero means unbounded.
	MaxCells int
}

type GameHandler struct {
	games   *host.Registry
	jwt     *config.JWT
	ws      *config.WebSocket
	limits  Limits
	results ResultLister
}

// NewGameHandler serves hosted games. results may be nil when no database
// is configured.
func NewGameHandler(
	games *host.Registry,
	jwt *config.JWT,
	ws *config.WebSocket,
	limits Limits,
	results ResultLister,
) *GameHandler {
	return &GameHandler{
		games:   games,
		jwt:     jwt,
		ws:      ws,
		limits:  limits,
		results: results,
	}
}

func checkBoard(width, height, maxCells int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: %dx%d", mines.ErrInvalidDimensions, width, height)
	}
	if maxCells > 0 && width > maxCells/height {
		return fmt.Errorf("%w: at most %d cells", errBoardTooLarge, maxCells)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, mines.ErrOutOfBounds),
		errors.Is(err, mines.ErrInvalidDimensions),
		errors.Is(err, mines.ErrInvalidMineCount),
		errors.Is(err, errBoardTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, host.ErrClosed):
		return http.StatusGone
	case errors.Is(err, host.ErrTooManyGames):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

func (h GameHandler) board(dto BoardDTO, fallbackWidth, fallbackHeight int) (int, int, error) {
	width, height := dto.Width, dto.Height
	if width == 0 {
		width = fallbackWidth
	}
	if height == 0 {
		height = fallbackHeight
	}
	return width, height, checkBoard(width, height, h.limits.MaxCells)
}

// game resolves the game named by the path. RequireGame has already
// validated the id and the token.
func (h GameHandler) game(w http.ResponseWriter, r *http.Request) (*host.Game, bool) {
	id, ok := middleware.GameID(r.Context())
	if !ok {
		parsed, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return nil, false
		}
		id = parsed
	}
	g, ok := h.games.Get(id)
	if !ok {
		sendErrorOrLog(w, http.StatusNotFound, fmt.Errorf("game %s not found", id))
		return nil, false
	}
	return g, true
}

func (h GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseBoardDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, http.StatusBadRequest, err)
		return
	}
	width, height, err := h.board(dto, h.limits.DefaultWidth, h.limits.DefaultHeight)
	if err != nil {
		sendErrorOrLog(w, http.StatusBadRequest, err)
		return
	}

	g, err := h.games.Create(width, height)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			Log.WithError(err).Error("unable to create game")
		}
		sendErrorOrLog(w, statusFor(err), err)
		return
	}

	token, err := h.jwt.IssueGameToken(g.ID)
	if err != nil {
		h.games.Remove(g.ID)
		w.WriteHeader(http.StatusInternalServerError)
		Log.WithError(err).Error("unable to sign game token")
		return
	}

	snap, err := g.Snapshot(r.Context())
	if err != nil {
		sendErrorOrLog(w, statusFor(err), err)
		return
	}

	sendJSONOrLog(w, http.StatusCreated, CreatedGameDTO{
		GameID:   g.ID,
		Token:    token,
		Snapshot: snap,
	})
}

func (h GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	g, ok := h.game(w, r)
	if !ok {
		return
	}
	snap, err := g.Snapshot(r.Context())
	if err != nil {
		sendErrorOrLog(w, statusFor(err), err)
		return
	}
	sendJSONOrLog(w, http.StatusOK, snap)
}

type move func(g *host.Game, ctx context.Context, x, y int) (host.Result, error)

func (h GameHandler) makeAMove(m move) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, err := ParsePosition(r.URL.Query())
		if err != nil {
			sendErrorOrLog(w, http.StatusBadRequest, err)
			return
		}
		g, ok := h.game(w, r)
		if !ok {
			return
		}
		res, err := m(g, r.Context(), pos.X, pos.Y)
		if err != nil {
			sendErrorOrLog(w, statusFor(err), err)
			return
		}
		sendJSONOrLog(w, http.StatusOK, res)
	}
}

func (h GameHandler) Open() http.HandlerFunc  { return h.makeAMove((*host.Game).Reveal) }
func (h GameHandler) Chord() http.HandlerFunc { return h.makeAMove((*host.Game).ChordClear) }
func (h GameHandler) Flag() http.HandlerFunc  { return h.makeAMove((*host.Game).ToggleMark) }

// Reset starts a new session in place. Omitted dimensions keep the current
// board size.
func (h GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseBoardDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, http.StatusBadRequest, err)
		return
	}
	g, ok := h.game(w, r)
	if !ok {
		return
	}
	current, err := g.Snapshot(r.Context())
	if err != nil {
		sendErrorOrLog(w, statusFor(err), err)
		return
	}
	width, height, err := h.board(dto, current.Width, current.Height)
	if err != nil {
		sendErrorOrLog(w, http.StatusBadRequest, err)
		return
	}
	snap, err := g.NewGame(r.Context(), width, height)
	if err != nil {
		sendErrorOrLog(w, statusFor(err), err)
		return
	}
	sendJSONOrLog(w, http.StatusOK, snap)
}

func (h GameHandler) Close(w http.ResponseWriter, r *http.Request) {
	g, ok := h.game(w, r)
	if !ok {
		return
	}
	h.games.Remove(g.ID)
	w.WriteHeader(http.StatusNoContent)
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Connect streams snapshots over a WebSocket and accepts text commands,
// one per line: "o x y", "c x y", "f x y", "n [w h]" and "g".
func (h GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	g, ok := h.game(w, r)
	if !ok {
		return
	}
	conn, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.WithError(err).Warn("upgrade")
		return
	}
	defer conn.Close()

	log := Log.WithField("game", g.ID.String())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, unsubscribe, err := g.Subscribe(ctx)
	if err != nil {
		conn.WriteJSON(MessageDTO{Type: "error", Error: err.Error()})
		return
	}
	defer unsubscribe()

	replies := make(chan MessageDTO, 8)
	go h.readCommands(ctx, cancel, conn, g, replies, log)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	write := func(msg MessageDTO) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			log.WithError(err).Debug("write")
			return false
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "game closed"),
					time.Now().Add(writeWait),
				)
				return
			}
			if !write(MessageDTO{Type: "snapshot", Snapshot: &snap}) {
				return
			}
		case msg := <-replies:
			if !write(msg) {
				return
			}
		case <-ping.C:
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			if err != nil {
				return
			}
		}
	}
}

func (h GameHandler) readCommands(
	ctx context.Context,
	cancel context.CancelFunc,
	conn *websocket.Conn,
	g *host.Game,
	replies chan<- MessageDTO,
	log *logrus.Entry,
) {
	defer cancel()
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debug("read")
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		for _, line := range byPiece(string(message), "\n") {
			if len(line) == 0 {
				continue
			}
			msg := executeCommand(ctx, g, line, h.limits.MaxCells)
			select {
			case replies <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (h GameHandler) Results(w http.ResponseWriter, r *http.Request) {
	if h.results == nil {
		sendErrorOrLog(w, http.StatusNotFound, errors.New("results are not recorded"))
		return
	}
	filter, err := ParseResultsDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, http.StatusBadRequest, err)
		return
	}
	results, err := h.results.Recent(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		Log.WithError(err).Error("unable to fetch results")
		return
	}
	if results == nil {
		results = []repository.GameResult{}
	}
	sendJSONOrLog(w, http.StatusOK, results)
}

func (h GameHandler) Status(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, http.StatusOK, StatusDTO{
		Games:    h.games.Len(),
		Database: h.results != nil,
	})
}

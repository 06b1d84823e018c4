package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper"
	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/handlers"
	"github.com/vancomm/sweeper/internal/host"
	"github.com/vancomm/sweeper/internal/logging"
	"github.com/vancomm/sweeper/internal/middleware"
	"github.com/vancomm/sweeper/internal/mines"
)

func TestMain(m *testing.M) {
	logging.Discard(Log, handlers.Log, host.Log, mines.Log, middleware.Log)
	m.Run()
}

func newTestApp(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.JWTSecret = "secret"
	cfg.Game.SecondsPerMine = 10

	a := New(cfg, sweeper.Migrations)
	require.NoError(t, a.setup(context.Background()))
	t.Cleanup(a.close)

	srv := httptest.NewServer(a.handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestRoutes(t *testing.T) {
	srv := newTestApp(t)

	resp, err := http.Post(srv.URL+"/v1/game?width=4&height=5", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created handlers.CreatedGameDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, 4, created.Snapshot.MineCount)
	assert.Equal(t, 40, created.Snapshot.SecondsRemaining)

	req, err := http.NewRequest(http.MethodPost,
		srv.URL+"/v1/game/"+created.GameID.String()+"/flag?x=1&y=1", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+created.Token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestResultsWithoutDatabase(t *testing.T) {
	srv := newTestApp(t)
	resp, err := http.Get(srv.URL + "/v1/results")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestApp(t)

	resp, err := http.Post(srv.URL+"/v1/game", "", nil)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "sweeper_games_started_total")
	assert.Contains(t, string(body), "sweeper_http_request_duration_seconds")
}

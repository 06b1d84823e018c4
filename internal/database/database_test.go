package database

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper"
	"github.com/vancomm/sweeper/internal/config"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := sweeper.Migrations.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	var ups, downs int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs)
}

func TestConnectWithoutDatabase(t *testing.T) {
	_, err := Connect(context.Background(), config.Database{})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestConnectAndMigrate(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	cfg := config.Database{URL: url}
	pool, err := ConnectAndMigrate(context.Background(), cfg, sweeper.Migrations)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, Migrate(cfg, sweeper.Migrations), "second run is a no-op")
}

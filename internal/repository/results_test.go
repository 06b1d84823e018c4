package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/mines"
)

func TestResultFilterWhereClause(t *testing.T) {
	id := uuid.New()
	won := mines.Won

	tests := []struct {
		name   string
		filter ResultFilter
		where  string
		args   pgx.NamedArgs
	}{
		{name: "empty", where: "", args: pgx.NamedArgs{}},
		{
			name:   "status",
			filter: ResultFilter{Status: &won},
			where:  "WHERE status = @status",
			args:   pgx.NamedArgs{"status": "won"},
		},
		{
			name:   "everything",
			filter: ResultFilter{GameID: &id, Status: &won, Width: 9, Height: 8},
			where:  "WHERE game_id = @game_id AND status = @status AND width = @width AND height = @height",
			args: pgx.NamedArgs{
				"game_id": id, "status": "won", "width": 9, "height": 8,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.WhereClause()
			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestResultFilterLimit(t *testing.T) {
	assert.Equal(t, defaultResultLimit, ResultFilter{}.limit())
	assert.Equal(t, 5, ResultFilter{Limit: 5}.limit())
	assert.Equal(t, maxResultLimit, ResultFilter{Limit: 1_000}.limit())
}

func TestRecordRejectsUnfinished(t *testing.T) {
	_, err := New(nil).Record(context.Background(), uuid.New(), mines.Summary{})
	assert.Error(t, err)
}

// Runs against a migrated database when TEST_DATABASE_URL is set.
func TestRecordAndRecent(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	q := New(pool)
	id := uuid.New()
	started := time.Now().UTC().Truncate(time.Millisecond)
	summary := mines.Summary{
		Width: 9, Height: 9, MineCount: 16, Status: mines.Won,
		Duration: 384, SecondsRemaining: 100,
		StartedAt: started, EndedAt: started.Add(284 * time.Second),
	}

	result, err := q.Record(ctx, id, summary)
	require.NoError(t, err)
	assert.Equal(t, id, result.GameID)
	assert.Equal(t, "won", result.Status)

	_, err = q.Record(ctx, id, summary)
	assert.ErrorIs(t, err, ErrDuplicateResult)

	results, err := q.Recent(ctx, ResultFilter{GameID: &id})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 284, int(results[0].EndedAt.Sub(results[0].StartedAt).Seconds()))
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/sweeper/internal/mines"
)

var ErrDuplicateResult = errors.New("result already recorded")

const (
	defaultResultLimit = 20
	maxResultLimit     = 100
)

// GameResult is one finished session. A hosted game may produce many.
type GameResult struct {
	GameResultID     int64     `db:"game_result_id" json:"-"`
	GameID           uuid.UUID `db:"game_id" json:"game_id"`
	Width            int       `db:"width" json:"width"`
	Height           int       `db:"height" json:"height"`
	MineCount        int       `db:"mine_count" json:"mine_count"`
	Status           string    `db:"status" json:"status"`
	Duration         int       `db:"duration" json:"duration"`
	SecondsRemaining int       `db:"seconds_remaining" json:"seconds_remaining"`
	StartedAt        time.Time `db:"started_at" json:"started_at"`
	EndedAt          time.Time `db:"ended_at" json:"ended_at"`
	CreatedAt        time.Time `db:"created_at" json:"-"`
}

// Record stores a finished session. Recording the same session twice
// returns ErrDuplicateResult.
func (q Queries) Record(
	ctx context.Context, gameID uuid.UUID, s mines.Summary,
) (*GameResult, error) {
	if !s.Status.Terminal() {
		return nil, fmt.Errorf("session %s is still %s", gameID, s.Status)
	}
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_result (
			game_id, width, height, mine_count, status,
			duration, seconds_remaining, started_at, ended_at
		)
		VALUES (
			@game_id, @width, @height, @mine_count, @status,
			@duration, @seconds_remaining, @started_at, @ended_at
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"game_id":           gameID,
			"width":             s.Width,
			"height":            s.Height,
			"mine_count":        s.MineCount,
			"status":            s.Status.String(),
			"duration":          s.Duration,
			"seconds_remaining": s.SecondsRemaining,
			"started_at":        s.StartedAt,
			"ended_at":          s.EndedAt,
		},
	)
	result, err := pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[GameResult],
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return nil, ErrDuplicateResult
	}
	return result, err
}

type ResultFilter struct {
	GameID *uuid.UUID
	Status *mines.Status
	Width  int
	Height int
	Limit  int
}

func (f ResultFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.GameID != nil {
		clauses = append(clauses, "game_id = @game_id")
		args["game_id"] = *f.GameID
	}
	if f.Status != nil {
		clauses = append(clauses, "status = @status")
		args["status"] = f.Status.String()
	}
	if f.Width > 0 {
		clauses = append(clauses, "width = @width")
		args["width"] = f.Width
	}
	if f.Height > 0 {
		clauses = append(clauses, "height = @height")
		args["height"] = f.Height
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (f ResultFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return defaultResultLimit
	case f.Limit > maxResultLimit:
		return maxResultLimit
	}
	return f.Limit
}

// Recent lists finished sessions, newest first.
func (q Queries) Recent(ctx context.Context, filter ResultFilter) ([]GameResult, error) {
	where, args := filter.WhereClause()
	args["limit"] = filter.limit()
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM game_result "+where+" ORDER BY ended_at DESC LIMIT @limit",
		args,
	)
	return pgx.CollectRows(rows, pgx.RowToStructByName[GameResult])
}

package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/host"
	"github.com/vancomm/sweeper/internal/mines"
)

func TestByPiece(t *testing.T) {
	var pieces []string
	for _, p := range byPiece("o 1 2\nf 0 0\n", "\n") {
		pieces = append(pieces, p)
	}
	assert.Equal(t, []string{"o 1 2", "f 0 0", ""}, pieces)
}

func TestCheckNargs(t *testing.T) {
	tests := []struct {
		name    string
		command string
		nargs   int
		ok      bool
	}{
		{"get", "g", 0, true},
		{"get with args", "g", 1, false},
		{"open", "o", 2, true},
		{"open short", "o", 1, false},
		{"new default", "n", 0, true},
		{"new sized", "n", 2, true},
		{"new one arg", "n", 1, false},
		{"unknown", "r", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkNargs(tt.command, tt.nargs)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestExecuteCommand(t *testing.T) {
	g, err := host.Start(uuid.New(), 3, 3, host.Options{
		TickInterval: time.Hour,
		NewSession:   cornerMine,
	})
	require.NoError(t, err)
	defer g.Close()
	ctx := context.Background()

	tests := []struct {
		name    string
		command string
		typ     string
		err     string
	}{
		{name: "empty", command: "   ", typ: "error", err: "empty command"},
		{name: "unknown", command: "z", typ: "error", err: "unknown command"},
		{name: "bad int", command: "o a 1", typ: "error", err: "first argument must be an int"},
		{name: "out of bounds", command: "o 5 5", typ: "error", err: "out of bounds"},
		{name: "too large", command: "n 50 50", typ: "error", err: "board too large"},
		{name: "overflow", command: "n 4611686018427387905 4", typ: "error", err: "board too large"},
		{name: "get", command: "g", typ: "snapshot"},
		{name: "flag", command: "f 1 1", typ: "result"},
		{name: "open", command: "o 2 2", typ: "result"},
		{name: "extra spaces", command: " c  2  2 ", typ: "result"},
		{name: "new", command: "n", typ: "snapshot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := executeCommand(ctx, g, tt.command, 100)
			assert.Equal(t, tt.typ, msg.Type)
			if tt.err != "" {
				assert.Contains(t, msg.Error, tt.err)
			}
		})
	}

	msg := executeCommand(ctx, g, "n 4611686018427387905 4", 0)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Error, "invalid board dimensions")

	msg = executeCommand(ctx, g, "f 1 1", 100)
	require.NotNil(t, msg.Mark)
	assert.Nil(t, msg.Outcome)
	assert.Equal(t, mines.Flagged, msg.Mark.To)
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/sweeper/internal/host"
)

var ErrUnknownCommand = errors.New("unknown command")

// Maps known commands to the accepted numbers of arguments.
var commandNargs = map[string][]int{
	"g": {0},
	"o": {2},
	"c": {2},
	"f": {2},
	"n": {0, 2},
}

func byPiece(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

func checkNargs(name string, got int) error {
	accepted, ok := commandNargs[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}
	for _, n := range accepted {
		if n == got {
			return nil
		}
	}
	return fmt.Errorf("invalid number of arguments for %q", name)
}

// executeCommand runs one text command against the game. maxCells bounds
// the board a "n w h" command may ask for.
func executeCommand(ctx context.Context, g *host.Game, c string, maxCells int) MessageDTO {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return MessageDTO{Type: "error", Error: "empty command"}
	}
	name, args := parts[0], parts[1:]
	msg, err := runCommand(ctx, g, name, args, maxCells)
	if err != nil {
		return MessageDTO{Type: "error", Command: name, Error: err.Error()}
	}
	msg.Command = name
	return msg
}

func runCommand(
	ctx context.Context, g *host.Game, name string, args []string, maxCells int,
) (MessageDTO, error) {
	if err := checkNargs(name, len(args)); err != nil {
		return MessageDTO{}, err
	}

	switch name {
	case "g":
		snap, err := g.Snapshot(ctx)
		if err != nil {
			return MessageDTO{}, err
		}
		return MessageDTO{Type: "snapshot", Snapshot: &snap}, nil
	case "n":
		var width, height int
		if len(args) == 2 {
			var err error
			if width, height, err = parseXY(args); err != nil {
				return MessageDTO{}, err
			}
			if err := checkBoard(width, height, maxCells); err != nil {
				return MessageDTO{}, err
			}
		}
		snap, err := g.NewGame(ctx, width, height)
		if err != nil {
			return MessageDTO{}, err
		}
		return MessageDTO{Type: "snapshot", Snapshot: &snap}, nil
	}

	x, y, err := parseXY(args)
	if err != nil {
		return MessageDTO{}, err
	}
	var res host.Result
	switch name {
	case "o":
		res, err = g.Reveal(ctx, x, y)
	case "c":
		res, err = g.ChordClear(ctx, x, y)
	case "f":
		res, err = g.ToggleMark(ctx, x, y)
	}
	if err != nil {
		return MessageDTO{}, err
	}
	msg := MessageDTO{Type: "result", Mark: res.Mark, Snapshot: &res.Snapshot}
	if res.Mark == nil {
		msg.Outcome = &res.Outcome
	}
	return msg, nil
}

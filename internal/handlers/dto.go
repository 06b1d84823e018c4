package handlers

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/schema"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/repository"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

// BoardDTO leaves zero dimensions to the caller's defaults.
type BoardDTO struct {
	Width  int `schema:"width"`
	Height int `schema:"height"`
}

func ParseBoardDTO(src map[string][]string) (BoardDTO, error) {
	var dto BoardDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

func ParsePosition(src map[string][]string) (mines.Point, error) {
	var pos mines.Point
	err := decoder.Decode(&pos, src)
	return pos, err
}

type ResultsDTO struct {
	GameID string `schema:"game_id"`
	Status string `schema:"status"`
	Width  int    `schema:"width"`
	Height int    `schema:"height"`
	Limit  int    `schema:"limit"`
}

func ParseResultsDTO(src map[string][]string) (repository.ResultFilter, error) {
	var dto ResultsDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return repository.ResultFilter{}, err
	}
	filter := repository.ResultFilter{
		Width:  dto.Width,
		Height: dto.Height,
		Limit:  dto.Limit,
	}
	if dto.GameID != "" {
		id, err := uuid.Parse(dto.GameID)
		if err != nil {
			return filter, fmt.Errorf("invalid game_id: %w", err)
		}
		filter.GameID = &id
	}
	switch dto.Status {
	case "":
	case mines.Won.String():
		won := mines.Won
		filter.Status = &won
	case mines.Lost.String():
		lost := mines.Lost
		filter.Status = &lost
	default:
		return filter, fmt.Errorf("unknown status %q", dto.Status)
	}
	return filter, nil
}

type CreatedGameDTO struct {
	GameID   uuid.UUID      `json:"game_id"`
	Token    string         `json:"token"`
	Snapshot mines.Snapshot `json:"snapshot"`
}

type StatusDTO struct {
	Games    int  `json:"games"`
	Database bool `json:"database"`
}

// MessageDTO is what the live connection sends: either a pushed snapshot,
// the result of a command, or an error.
type MessageDTO struct {
	Type     string           `json:"type"`
	Command  string           `json:"command,omitempty"`
	Outcome  *mines.Outcome   `json:"outcome,omitempty"`
	Mark     *mines.MarkDelta `json:"mark,omitempty"`
	Snapshot *mines.Snapshot  `json:"snapshot,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Package storage persists scores and saved games.
// The SQLite store uses the pure-Go modernc.org/sqlite driver to avoid CGO;
// a redis-backed GameStore lives in storage/redis.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/fusion2048/internal/engine"
)

// ErrSaveNotFound is returned when a saved game does not exist.
var ErrSaveNotFound = errors.New("storage: saved game not found")

// SavedGame is a game snapshot stored under an ID.
type SavedGame struct {
	ID        string
	GameID    string // registry ID of the variant, e.g. "fusion_target"
	State     *engine.GameState
	UpdatedAt time.Time
}

// SaveSummary describes a saved game without its board.
type SaveSummary struct {
	ID        string
	GameID    string
	Mode      engine.Mode
	Status    engine.Status
	Score     int
	MaxTile   int
	Moves     int
	UpdatedAt time.Time
}

// Summary returns the listing view of a saved game.
func (g SavedGame) Summary() SaveSummary {
	return SaveSummary{
		ID:        g.ID,
		GameID:    g.GameID,
		Mode:      g.State.Mode,
		Status:    g.State.Status,
		Score:     g.State.Score,
		MaxTile:   g.State.MaxTile(),
		Moves:     g.State.MoveCount,
		UpdatedAt: g.UpdatedAt,
	}
}

// GameStore keeps saved games. Both the SQLite Store and the redis store
// implement it; sessions and the TUI only depend on this interface.
type GameStore interface {
	SaveGame(ctx context.Context, id, gameID string, state *engine.GameState) error
	LoadGame(ctx context.Context, id string) (*SavedGame, error)
	DeleteGame(ctx context.Context, id string) error
	ListSaves(ctx context.Context) ([]SaveSummary, error)
}

// EncodeState serializes a snapshot in the save format.
func EncodeState(state *engine.GameState) ([]byte, error) {
	if state == nil {
		return nil, errors.New("storage: nil state")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot encode state: %w", err)
	}
	return data, nil
}

// DecodeState parses and restores a saved snapshot, so a game loaded from
// any store is ready to play.
func DecodeState(data []byte) (*engine.GameState, error) {
	var state engine.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("storage: cannot decode state: %w", err)
	}
	restored, err := engine.Restore(&state)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return restored, nil
}

// parseTime handles the two forms the sqlite driver returns for DATETIME.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

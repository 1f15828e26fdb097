package engine

import (
	"encoding/json"
	"fmt"
	"time"
)

// Mode selects how a game ends.
type Mode string

const (
	// ModeClassic keeps playing after the goal until the board is exhausted.
	ModeClassic Mode = "classic"
	// ModeTarget ends the game as won once the goal is reached.
	ModeTarget Mode = "target"
	// ModeTimeAttack is classic play against a countdown.
	ModeTimeAttack Mode = "time_attack"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeClassic, ModeTarget, ModeTimeAttack}

// ParseMode parses a mode name. An empty string means classic.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeClassic:
		return ModeClassic, nil
	case ModeTarget, ModeTimeAttack:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidConfiguration, s)
}

// Status is the game lifecycle state.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// GameState is an immutable game snapshot. Move and Tick return a new value
// (or the same pointer when nothing changed) and never write to the one
// passed in, so a caller may keep old snapshots for undo or rendering.
type GameState struct {
	Mode   Mode   `json:"mode"`
	Status Status `json:"status"`

	Grid  Grid   `json:"grid"`
	Tiles []Tile `json:"tiles"`

	// Consumed holds the tiles merged away by the move that produced this
	// snapshot. PreviousTiles holds the live tiles before that move.
	Consumed      []Tile `json:"consumed,omitempty"`
	PreviousTiles []Tile `json:"previous_tiles,omitempty"`

	Score       int  `json:"score"`
	MoveCount   int  `json:"move_count"`
	GridSize    int  `json:"grid_size"`
	GoalValue   int  `json:"goal_value"`
	GoalReached bool `json:"goal_reached"`

	// GameOver is true exactly when the board is full with no adjacent
	// equal pair. A time attack that runs out is lost without it.
	GameOver bool `json:"game_over"`

	Spawn4Prob float64 `json:"spawn4_prob"`
	NextTileID int     `json:"next_tile_id"`

	TimeLimit time.Duration `json:"-"`
	TimeLeft  time.Duration `json:"-"`
}

// Terminal reports whether the game has ended.
func (s *GameState) Terminal() bool {
	return s.Status != StatusPlaying
}

// MaxTile returns the highest tile value on the board.
func (s *GameState) MaxTile() int {
	return s.Grid.MaxValue()
}

// TileAt returns the live tile at (r, c).
func (s *GameState) TileAt(r, c int) (Tile, bool) {
	for _, t := range s.Tiles {
		if t.Row == r && t.Col == c {
			return t, true
		}
	}
	return Tile{}, false
}

// Clone returns a deep copy.
func (s *GameState) Clone() *GameState {
	c := *s
	c.Grid = s.Grid.Clone()
	c.Tiles = cloneTiles(s.Tiles)
	c.Consumed = cloneTiles(s.Consumed)
	c.PreviousTiles = cloneTiles(s.PreviousTiles)
	return &c
}

// deriveStatus computes Status from the other fields. A terminal status
// is kept as is.
func (s *GameState) deriveStatus() {
	if s.Status == StatusWon || s.Status == StatusLost {
		return
	}
	switch {
	case s.Mode == ModeTarget && s.GoalReached:
		s.Status = StatusWon
	case s.GameOver:
		s.Status = StatusLost
	case s.Mode == ModeTimeAttack && s.TimeLeft <= 0:
		s.Status = StatusLost
	default:
		s.Status = StatusPlaying
	}
}

type stateJSON GameState

type stateWire struct {
	*stateJSON
	TimeLimitMS int64 `json:"time_limit_ms,omitempty"`
	TimeLeftMS  int64 `json:"time_left_ms,omitempty"`
}

// MarshalJSON writes durations as milliseconds.
func (s *GameState) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateWire{
		stateJSON:   (*stateJSON)(s),
		TimeLimitMS: s.TimeLimit.Milliseconds(),
		TimeLeftMS:  s.TimeLeft.Milliseconds(),
	})
}

// UnmarshalJSON reads the format written by MarshalJSON.
func (s *GameState) UnmarshalJSON(data []byte) error {
	w := stateWire{stateJSON: (*stateJSON)(s)}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.TimeLimit = time.Duration(w.TimeLimitMS) * time.Millisecond
	s.TimeLeft = time.Duration(w.TimeLeftMS) * time.Millisecond
	return nil
}

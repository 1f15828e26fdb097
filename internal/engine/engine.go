// Package engine implements the rules of the tile-merging game: the board,
// directional moves with merging, spawning and terminal detection.
//
// The package is pure. It does no I/O, keeps no global state and never
// mutates a GameState it was given. Presentation concerns (animation timing,
// input, persistence) live in other packages and only read the flags the
// engine leaves on tiles.
package engine

import (
	"fmt"
	"time"
)

const (
	DefaultGridSize   = 4
	DefaultGoalValue  = 2048
	DefaultSpawn4Prob = 0.1
	DefaultTimeLimit  = 180 * time.Second
)

// Config describes a new game. GridSize and GoalValue are required. An
// empty Mode means classic, a zero Spawn4Prob means DefaultSpawn4Prob and a
// time attack without a limit gets DefaultTimeLimit.
type Config struct {
	Mode       Mode
	GridSize   int
	GoalValue  int
	Spawn4Prob float64
	TimeLimit  time.Duration
}

// DefaultConfig returns a classic 4×4 game to 2048.
func DefaultConfig() Config {
	return Config{
		Mode:       ModeClassic,
		GridSize:   DefaultGridSize,
		GoalValue:  DefaultGoalValue,
		Spawn4Prob: DefaultSpawn4Prob,
	}
}

// normalize fills defaults and validates.
func (c Config) normalize() (Config, error) {
	mode, err := ParseMode(string(c.Mode))
	if err != nil {
		return c, err
	}
	c.Mode = mode

	if c.Spawn4Prob == 0 {
		c.Spawn4Prob = DefaultSpawn4Prob
	}
	if c.Mode == ModeTimeAttack && c.TimeLimit == 0 {
		c.TimeLimit = DefaultTimeLimit
	}

	switch {
	case c.GridSize <= 1 || c.GridSize > MaxGridSize:
		return c, fmt.Errorf("%w: grid size %d (want 2..%d)", ErrInvalidConfiguration, c.GridSize, MaxGridSize)
	case c.GoalValue <= 0:
		return c, fmt.Errorf("%w: goal value %d", ErrInvalidConfiguration, c.GoalValue)
	case c.Spawn4Prob < 0 || c.Spawn4Prob > 1:
		return c, fmt.Errorf("%w: spawn4 probability %v", ErrInvalidConfiguration, c.Spawn4Prob)
	case c.TimeLimit < 0:
		return c, fmt.Errorf("%w: time limit %v", ErrInvalidConfiguration, c.TimeLimit)
	}
	if c.Mode != ModeTimeAttack {
		c.TimeLimit = 0
	}
	return c, nil
}

// Engine applies game rules. It owns only a random source, so one Engine
// per game (or per goroutine) is the intended use; it is not safe for
// concurrent use.
type Engine struct {
	rng Random
}

// New creates an engine. A nil rng is replaced by a time-seeded source.
func New(rng Random) *Engine {
	if rng == nil {
		rng = defaultRandom()
	}
	return &Engine{rng: rng}
}

// Initialize returns a fresh game with two spawned tiles.
func (e *Engine) Initialize(cfg Config) (*GameState, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	s := &GameState{
		Mode:       cfg.Mode,
		Status:     StatusPlaying,
		Grid:       NewGrid(cfg.GridSize),
		Tiles:      make([]Tile, 0, cfg.GridSize*cfg.GridSize),
		GridSize:   cfg.GridSize,
		GoalValue:  cfg.GoalValue,
		Spawn4Prob: cfg.Spawn4Prob,
		NextTileID: 1,
		TimeLimit:  cfg.TimeLimit,
		TimeLeft:   cfg.TimeLimit,
	}
	spawn(s, e.rng, false)
	spawn(s, e.rng, false)

	s.GoalReached = GoalReached(s.Grid, s.GoalValue)
	s.GameOver = s.Grid.Exhausted()
	s.deriveStatus()
	return s, nil
}

// Move slides every line toward dir, merges equal neighbours and spawns
// one tile. It returns s itself when the game is over or nothing moved.
// An unknown direction returns s and an error wrapping ErrInvalidDirection.
func (e *Engine) Move(s *GameState, dir Direction) (*GameState, error) {
	if !dir.Valid() {
		return s, fmt.Errorf("%w: %q", ErrInvalidDirection, string(dir))
	}
	if s.Terminal() {
		return s, nil
	}

	out := slide(s, dir)
	if !out.moved {
		return s, nil
	}

	next := *s
	next.Grid = out.grid
	next.Tiles = out.tiles
	next.Consumed = out.consumed
	next.PreviousTiles = cloneTiles(s.Tiles)
	for i := range next.PreviousTiles {
		next.PreviousTiles[i] = next.PreviousTiles[i].settled()
	}
	next.NextTileID = out.nextID
	next.Score = s.Score + out.score
	next.MoveCount = s.MoveCount + 1

	spawn(&next, e.rng, true)

	next.GoalReached = s.GoalReached || GoalReached(next.Grid, next.GoalValue)
	next.GameOver = next.Grid.Exhausted()
	next.deriveStatus()
	return &next, nil
}

// Tick advances a time attack countdown by elapsed. Other modes, finished
// games and non-positive durations return s unchanged. When the time runs
// out the game is lost.
func (e *Engine) Tick(s *GameState, elapsed time.Duration) *GameState {
	if s.Mode != ModeTimeAttack || s.Terminal() || elapsed <= 0 {
		return s
	}

	next := *s
	next.TimeLeft = max(0, s.TimeLeft-elapsed)
	next.deriveStatus()
	return &next
}

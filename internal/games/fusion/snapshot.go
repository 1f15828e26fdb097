package fusion

import (
	"time"

	"github.com/vovakirdan/fusion2048/internal/engine"
)

// Snapshot captures the game for determinism testing and replay.
type Snapshot struct {
	Tick     uint64
	Mode     engine.Mode
	Level    int // 1-indexed target level, 0 outside target mode
	Goal     int
	Score    int
	Moves    int
	Grid     engine.Grid
	MaxTile  int
	Status   engine.Status
	TimeLeft time.Duration
	Paused   bool
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	s := g.state
	level := 0
	if g.mode == engine.ModeTarget {
		level = g.level + 1
	}
	return Snapshot{
		Tick:     g.tick,
		Mode:     s.Mode,
		Level:    level,
		Goal:     s.GoalValue,
		Score:    s.Score,
		Moves:    s.MoveCount,
		Grid:     s.Grid.Clone(),
		MaxTile:  s.MaxTile(),
		Status:   s.Status,
		TimeLeft: s.TimeLeft,
		Paused:   g.paused,
	}
}

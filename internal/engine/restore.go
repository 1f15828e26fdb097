package engine

import (
	"fmt"
	"math/bits"
)

// Restore checks a snapshot loaded from storage and returns a copy ready for
// play. Transient flags and previous-move data are dropped, NextTileID is
// raised past every live id, and status is re-derived. A snapshot that
// breaks a board invariant yields ErrCorruptState.
func Restore(s *GameState) (*GameState, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil state", ErrCorruptState)
	}
	n := s.Grid.Size()
	if n <= 1 || n > MaxGridSize || n != s.GridSize {
		return nil, fmt.Errorf("%w: grid size %d (declared %d)", ErrCorruptState, n, s.GridSize)
	}
	for r := range s.Grid {
		if len(s.Grid[r]) != n {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrCorruptState, r, len(s.Grid[r]))
		}
	}
	if s.GoalValue <= 0 {
		return nil, fmt.Errorf("%w: goal value %d", ErrCorruptState, s.GoalValue)
	}
	if s.Score < 0 || s.MoveCount < 0 {
		return nil, fmt.Errorf("%w: negative score or move count", ErrCorruptState)
	}
	mode, err := ParseMode(string(s.Mode))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	out := s.Clone()
	out.Mode = mode
	out.Consumed = nil
	out.PreviousTiles = nil

	if err := checkTiles(out); err != nil {
		return nil, err
	}

	maxID := 0
	for i := range out.Tiles {
		out.Tiles[i] = out.Tiles[i].settled()
		maxID = max(maxID, out.Tiles[i].ID)
	}
	out.NextTileID = max(out.NextTileID, maxID+1)
	sortTiles(out.Tiles)

	if out.Spawn4Prob < 0 || out.Spawn4Prob > 1 {
		out.Spawn4Prob = DefaultSpawn4Prob
	}
	if out.Mode == ModeTimeAttack && out.TimeLimit <= 0 {
		out.TimeLimit = DefaultTimeLimit
	}
	out.TimeLeft = max(0, min(out.TimeLeft, out.TimeLimit))

	out.GoalReached = out.GoalReached || GoalReached(out.Grid, out.GoalValue)
	out.GameOver = out.Grid.Exhausted()
	if out.Status == "" {
		out.Status = StatusPlaying
	}
	out.deriveStatus()
	return out, nil
}

// checkTiles verifies that tiles and grid describe the same board.
func checkTiles(s *GameState) error {
	seenIDs := make(map[int]bool, len(s.Tiles))
	byCell := make(map[Cell]bool, len(s.Tiles))
	for _, t := range s.Tiles {
		if t.ID <= 0 || seenIDs[t.ID] {
			return fmt.Errorf("%w: tile id %d", ErrCorruptState, t.ID)
		}
		seenIDs[t.ID] = true
		if t.Row < 0 || t.Row >= s.GridSize || t.Col < 0 || t.Col >= s.GridSize {
			return fmt.Errorf("%w: tile %d at (%d,%d)", ErrCorruptState, t.ID, t.Row, t.Col)
		}
		if byCell[t.Cell()] {
			return fmt.Errorf("%w: two tiles at (%d,%d)", ErrCorruptState, t.Row, t.Col)
		}
		byCell[t.Cell()] = true
		if s.Grid[t.Row][t.Col] != t.Value {
			return fmt.Errorf("%w: tile %d value %d, grid has %d", ErrCorruptState, t.ID, t.Value, s.Grid[t.Row][t.Col])
		}
	}
	for r := range s.Grid {
		for c, v := range s.Grid[r] {
			if v == 0 {
				continue
			}
			if !isTileValue(v) {
				return fmt.Errorf("%w: value %d at (%d,%d)", ErrCorruptState, v, r, c)
			}
			if !byCell[Cell{Row: r, Col: c}] {
				return fmt.Errorf("%w: no tile at (%d,%d)", ErrCorruptState, r, c)
			}
		}
	}
	return nil
}

// isTileValue reports whether v is a power of two no smaller than 2.
func isTileValue(v int) bool {
	return v >= 2 && bits.OnesCount(uint(v)) == 1
}

// FromGrid builds a playing state from a bare grid, assigning tile ids in
// row-major order. It is meant for puzzles, tests and importing boards
// that carry no tile identities.
func FromGrid(cfg Config, g Grid) (*GameState, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if g.Size() != cfg.GridSize {
		return nil, fmt.Errorf("%w: grid is %d×%d, config wants %d", ErrInvalidConfiguration, g.Size(), g.Size(), cfg.GridSize)
	}

	s := &GameState{
		Mode:       cfg.Mode,
		Status:     StatusPlaying,
		Grid:       g.Clone(),
		GridSize:   cfg.GridSize,
		GoalValue:  cfg.GoalValue,
		Spawn4Prob: cfg.Spawn4Prob,
		NextTileID: 1,
		TimeLimit:  cfg.TimeLimit,
		TimeLeft:   cfg.TimeLimit,
	}
	for r := range s.Grid {
		if len(s.Grid[r]) != cfg.GridSize {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrInvalidConfiguration, r, len(s.Grid[r]))
		}
		for c, v := range s.Grid[r] {
			if v == 0 {
				continue
			}
			if !isTileValue(v) {
				return nil, fmt.Errorf("%w: value %d at (%d,%d)", ErrInvalidConfiguration, v, r, c)
			}
			s.Tiles = append(s.Tiles, Tile{ID: s.NextTileID, Value: v, Row: r, Col: c})
			s.NextTileID++
		}
	}

	s.GoalReached = GoalReached(s.Grid, s.GoalValue)
	s.GameOver = s.Grid.Exhausted()
	s.deriveStatus()
	return s, nil
}

package engine

import (
	"math/rand"
	"testing"
)

// scriptedRandom replays fixed answers. Intn answers are reduced modulo n;
// when a script runs out, Intn returns 0 (n-1 with last set) and Float64
// returns 0.99, which spawns a 2.
type scriptedRandom struct {
	ints   []int
	floats []float64
	last   bool
}

func (r *scriptedRandom) Intn(n int) int {
	if len(r.ints) == 0 {
		if r.last {
			return n - 1
		}
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRandom) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func seeded(seed int64) *Engine {
	return New(rand.New(rand.NewSource(seed)))
}

func mustFromGrid(t *testing.T, cfg Config, g Grid) *GameState {
	t.Helper()
	s, err := FromGrid(cfg, g)
	if err != nil {
		t.Fatalf("FromGrid: %v", err)
	}
	return s
}

func classic(size, goal int) Config {
	return Config{Mode: ModeClassic, GridSize: size, GoalValue: goal}
}

// checkInvariants verifies the board invariants every snapshot must hold.
func checkInvariants(t *testing.T, s *GameState) {
	t.Helper()

	n := s.GridSize
	if s.Grid.Size() != n {
		t.Fatalf("grid size %d, GridSize %d", s.Grid.Size(), n)
	}

	ids := make(map[int]bool)
	cells := make(map[Cell]bool)
	for _, tile := range s.Tiles {
		if ids[tile.ID] {
			t.Fatalf("duplicate tile id %d", tile.ID)
		}
		ids[tile.ID] = true
		if tile.ID >= s.NextTileID {
			t.Fatalf("tile id %d not below NextTileID %d", tile.ID, s.NextTileID)
		}
		if tile.Row < 0 || tile.Row >= n || tile.Col < 0 || tile.Col >= n {
			t.Fatalf("tile %d out of bounds at (%d,%d)", tile.ID, tile.Row, tile.Col)
		}
		if cells[tile.Cell()] {
			t.Fatalf("two tiles at (%d,%d)", tile.Row, tile.Col)
		}
		cells[tile.Cell()] = true
		if got := s.Grid[tile.Row][tile.Col]; got != tile.Value {
			t.Fatalf("tile %d value %d, grid has %d", tile.ID, tile.Value, got)
		}
		if !isTileValue(tile.Value) {
			t.Fatalf("tile %d has value %d", tile.ID, tile.Value)
		}
		if tile.WillDisappear {
			t.Fatalf("live tile %d marked WillDisappear", tile.ID)
		}
	}
	for r := range s.Grid {
		for c, v := range s.Grid[r] {
			if (v != 0) != cells[Cell{Row: r, Col: c}] {
				t.Fatalf("grid (%d,%d)=%d disagrees with tile set", r, c, v)
			}
		}
	}
	if s.GameOver != s.Grid.Exhausted() {
		t.Fatalf("GameOver=%v, exhausted=%v", s.GameOver, s.Grid.Exhausted())
	}
}

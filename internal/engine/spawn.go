package engine

import (
	"math/rand"
	"time"
)

// Random is the source of randomness for spawning. *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
	Float64() float64
}

func defaultRandom() Random {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// spawnValue picks 4 with probability p4, otherwise 2.
func spawnValue(rng Random, p4 float64) int {
	if rng.Float64() < p4 {
		return 4
	}
	return 2
}

// spawn places one tile on a uniformly random empty cell of s, which the
// caller owns. IsNew is cleared on the existing tiles first, so only the
// new tile carries it. MergedFrom is left alone: it describes the move that
// just happened. afterMove marks the tile for delayed appearance.
func spawn(s *GameState, rng Random, afterMove bool) {
	for i := range s.Tiles {
		s.Tiles[i].IsNew = false
		s.Tiles[i].DelayAppearance = false
	}

	empty := s.Grid.EmptyCells()
	if len(empty) == 0 {
		return
	}

	cell := empty[rng.Intn(len(empty))]
	value := spawnValue(rng, s.Spawn4Prob)

	s.Grid[cell.Row][cell.Col] = value
	s.Tiles = append(s.Tiles, Tile{
		ID:              s.NextTileID,
		Value:           value,
		Row:             cell.Row,
		Col:             cell.Col,
		IsNew:           true,
		DelayAppearance: afterMove,
	})
	s.NextTileID++
}

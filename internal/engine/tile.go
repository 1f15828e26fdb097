package engine

import "sort"

// Tile is a value with a stable identity, so a renderer can follow it
// across moves. Only the flags below change between snapshots; ID never does.
type Tile struct {
	ID    int `json:"id"`
	Value int `json:"value"`
	Row   int `json:"row"`
	Col   int `json:"col"`

	// IsNew is set only in the snapshot where the tile was spawned.
	IsNew bool `json:"is_new,omitempty"`

	// DelayAppearance marks a tile spawned after a move: show it once the
	// slide animation has finished.
	DelayAppearance bool `json:"delay_appearance,omitempty"`

	// MergedFrom holds the two source ids when the tile was produced by a
	// merge in the most recent move.
	MergedFrom []int `json:"merged_from,omitempty"`

	// WillDisappear, TargetRow and TargetCol are set on a tile consumed by a
	// merge. Such tiles appear only in GameState.Consumed.
	WillDisappear bool `json:"will_disappear,omitempty"`
	TargetRow     *int `json:"target_row,omitempty"`
	TargetCol     *int `json:"target_col,omitempty"`
}

// Cell returns the tile position.
func (t Tile) Cell() Cell {
	return Cell{Row: t.Row, Col: t.Col}
}

// Merged reports whether the tile was created by a merge in the last move.
func (t Tile) Merged() bool {
	return len(t.MergedFrom) == 2
}

// settled returns a copy with every per-move flag cleared.
func (t Tile) settled() Tile {
	t.IsNew = false
	t.DelayAppearance = false
	t.MergedFrom = nil
	t.WillDisappear = false
	t.TargetRow = nil
	t.TargetCol = nil
	return t
}

// consumedInto returns a copy marked as merged away toward target.
func (t Tile) consumedInto(target Cell) Tile {
	t = t.settled()
	row, col := target.Row, target.Col
	t.WillDisappear = true
	t.TargetRow = &row
	t.TargetCol = &col
	return t
}

// cloneTiles copies a tile slice. MergedFrom is copied too; target
// pointers are shared since nothing writes through them.
func cloneTiles(tiles []Tile) []Tile {
	if tiles == nil {
		return nil
	}
	out := make([]Tile, len(tiles))
	for i, t := range tiles {
		if t.MergedFrom != nil {
			t.MergedFrom = append([]int(nil), t.MergedFrom...)
		}
		out[i] = t
	}
	return out
}

// sortTiles orders tiles by id.
func sortTiles(tiles []Tile) {
	sort.Slice(tiles, func(i, j int) bool {
		return tiles[i].ID < tiles[j].ID
	})
}

// indexTiles maps each occupied cell to its tile.
func indexTiles(tiles []Tile) map[Cell]Tile {
	byCell := make(map[Cell]Tile, len(tiles))
	for _, t := range tiles {
		byCell[t.Cell()] = t
	}
	return byCell
}

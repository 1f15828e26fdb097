package engine

import (
	"strconv"
	"strings"
)

// MaxGridSize bounds the board dimension. Move and PossibleMoves are
// O(N²) per direction, which is only trivially cheap for small boards.
const MaxGridSize = 8

// Cell is a grid coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Grid is a square matrix of tile values. 0 marks an empty cell.
// A Grid held by a GameState is never written to; use Clone before editing.
type Grid [][]int

// NewGrid returns an empty size×size grid.
func NewGrid(size int) Grid {
	g := make(Grid, size)
	for r := range g {
		g[r] = make([]int, size)
	}
	return g
}

// Size returns the grid dimension.
func (g Grid) Size() int {
	return len(g)
}

// ValueAt returns the value at (r, c), or 0 outside the grid.
func (g Grid) ValueAt(r, c int) int {
	if r < 0 || r >= len(g) || c < 0 || c >= len(g[r]) {
		return 0
	}
	return g[r][c]
}

// EmptyCells returns the empty cells in row-major order.
func (g Grid) EmptyCells() []Cell {
	var cells []Cell
	for r := range g {
		for c := range g[r] {
			if g[r][c] == 0 {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return cells
}

// HasEmptyCell returns true if there's at least one empty cell.
func (g Grid) HasEmptyCell() bool {
	for r := range g {
		for c := range g[r] {
			if g[r][c] == 0 {
				return true
			}
		}
	}
	return false
}

// Equal reports whether both grids have the same size and values.
func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for r := range g {
		if len(g[r]) != len(other[r]) {
			return false
		}
		for c := range g[r] {
			if g[r][c] != other[r][c] {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for r := range g {
		out[r] = append([]int(nil), g[r]...)
	}
	return out
}

// MaxValue returns the highest value on the grid.
func (g Grid) MaxValue() int {
	maxVal := 0
	for r := range g {
		for _, v := range g[r] {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}

// Row returns a copy of row r.
func (g Grid) Row(r int) []int {
	return append([]int(nil), g[r]...)
}

// Column returns a copy of column c, top to bottom.
func (g Grid) Column(c int) []int {
	col := make([]int, len(g))
	for r := range g {
		col[r] = g[r][c]
	}
	return col
}

// readLine returns line idx in travel order for dir.
func (g Grid) readLine(dir Direction, idx int) []int {
	n := len(g)
	line := make([]int, n)
	for pos := range n {
		cell := lineCell(dir, n, idx, pos)
		line[pos] = g[cell.Row][cell.Col]
	}
	return line
}

// writeLine stores values (travel order for dir) into line idx.
func (g Grid) writeLine(dir Direction, idx int, values []int) {
	n := len(g)
	for pos, v := range values {
		cell := lineCell(dir, n, idx, pos)
		g[cell.Row][cell.Col] = v
	}
}

// String renders the grid as rows of space-separated values.
func (g Grid) String() string {
	var sb strings.Builder
	for r := range g {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c, v := range g[r] {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(v))
		}
	}
	return sb.String()
}

package engine

// GoalReached reports whether any cell holds goal or more.
func GoalReached(g Grid, goal int) bool {
	return g.MaxValue() >= goal
}

// HasPossibleMerge reports whether two horizontally or vertically adjacent
// cells hold the same non-zero value.
func HasPossibleMerge(g Grid) bool {
	n := len(g)
	for r := range n {
		for c := range n {
			v := g[r][c]
			if v == 0 {
				continue
			}
			if c+1 < n && g[r][c+1] == v {
				return true
			}
			if r+1 < n && g[r+1][c] == v {
				return true
			}
		}
	}
	return false
}

// Exhausted reports whether the grid is full with no adjacent equal pair,
// i.e. no direction can change it.
func (g Grid) Exhausted() bool {
	return !g.HasEmptyCell() && !HasPossibleMerge(g)
}

// IsGameOver reports whether no move can change the board of s.
func IsGameOver(s *GameState) bool {
	return s.Grid.Exhausted()
}

// PossibleMoves returns the directions in which a move would change the
// board, in the order of Directions. Each direction is tried in full
// (O(4·N²)) without spawning; that is cheap at MaxGridSize but should not
// sit in a search loop.
func PossibleMoves(s *GameState) []Direction {
	var moves []Direction
	for _, dir := range Directions {
		if canMove(s.Grid, dir) {
			moves = append(moves, dir)
		}
	}
	return moves
}

// CanMove reports whether moving s in dir would change the board.
func CanMove(s *GameState, dir Direction) bool {
	return dir.Valid() && canMove(s.Grid, dir)
}

func canMove(g Grid, dir Direction) bool {
	for idx := range g.Size() {
		line := g.readLine(dir, idx)
		slid, _ := slideLine(line)
		if lineChanged(line, slid) {
			return true
		}
	}
	return false
}

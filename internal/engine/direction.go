package engine

import (
	"fmt"
	"strings"
)

// Direction is a move direction. The string form is what the API and the
// save format use.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// Directions lists the four directions in the order PossibleMoves reports them.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// Valid reports whether d is one of the four recognized directions.
func (d Direction) Valid() bool {
	switch d {
	case DirUp, DirDown, DirLeft, DirRight:
		return true
	}
	return false
}

// String returns the direction name.
func (d Direction) String() string {
	return string(d)
}

// ParseDirection parses a direction name, case-insensitively.
// Single-letter forms (u, d, l, r) are accepted too.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return DirUp, nil
	case "down", "d":
		return DirDown, nil
	case "left", "l":
		return DirLeft, nil
	case "right", "r":
		return DirRight, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// lineCell maps position pos of line idx to a grid cell. Position 0 is the
// leading edge, so reading a line in pos order is the same as reversing
// right/down lines and transposing columns.
func lineCell(dir Direction, size, idx, pos int) Cell {
	switch dir {
	case DirLeft:
		return Cell{Row: idx, Col: pos}
	case DirRight:
		return Cell{Row: idx, Col: size - 1 - pos}
	case DirUp:
		return Cell{Row: pos, Col: idx}
	default:
		return Cell{Row: size - 1 - pos, Col: idx}
	}
}

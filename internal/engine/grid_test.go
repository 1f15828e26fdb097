package engine

import (
	"slices"
	"testing"
)

func TestGridBasics(t *testing.T) {
	g := Grid{
		{2, 0, 0},
		{0, 4, 0},
		{0, 0, 8},
	}

	if g.Size() != 3 {
		t.Errorf("Size() = %d, want 3", g.Size())
	}
	if g.ValueAt(1, 1) != 4 {
		t.Errorf("ValueAt(1,1) = %d, want 4", g.ValueAt(1, 1))
	}
	if g.ValueAt(-1, 0) != 0 || g.ValueAt(0, 3) != 0 {
		t.Error("ValueAt outside the grid should be 0")
	}
	if g.MaxValue() != 8 {
		t.Errorf("MaxValue() = %d, want 8", g.MaxValue())
	}
	if len(g.EmptyCells()) != 6 {
		t.Errorf("EmptyCells() has %d cells, want 6", len(g.EmptyCells()))
	}
	if first := g.EmptyCells()[0]; first != (Cell{Row: 0, Col: 1}) {
		t.Errorf("first empty cell = %v, want (0,1)", first)
	}
	if !slices.Equal(g.Column(2), []int{0, 0, 8}) {
		t.Errorf("Column(2) = %v", g.Column(2))
	}
	if g.String() != "2 0 0\n0 4 0\n0 0 8" {
		t.Errorf("String() = %q", g.String())
	}
}

func TestGridCloneIsDeep(t *testing.T) {
	g := Grid{{2, 0}, {0, 2}}
	c := g.Clone()
	c[0][0] = 4

	if g[0][0] != 2 {
		t.Error("Clone shares rows with the original")
	}
	if g.Equal(c) {
		t.Error("Equal should report the edited clone as different")
	}
	if !g.Equal(g.Clone()) {
		t.Error("Equal should report a fresh clone as equal")
	}
}

func TestReadWriteLine(t *testing.T) {
	g := Grid{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}

	tests := []struct {
		dir  Direction
		idx  int
		want []int
	}{
		{DirLeft, 0, []int{1, 2, 3}},
		{DirRight, 0, []int{3, 2, 1}},
		{DirUp, 1, []int{2, 5, 8}},
		{DirDown, 1, []int{8, 5, 2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			got := g.readLine(tt.dir, tt.idx)
			if !slices.Equal(got, tt.want) {
				t.Errorf("readLine(%s, %d) = %v, want %v", tt.dir, tt.idx, got, tt.want)
			}

			c := g.Clone()
			c.writeLine(tt.dir, tt.idx, got)
			if !c.Equal(g) {
				t.Errorf("writeLine(readLine) changed the grid:\n%s", c)
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	for _, in := range []string{"up", "UP", " Left ", "d", "r"} {
		if _, err := ParseDirection(in); err != nil {
			t.Errorf("ParseDirection(%q) failed: %v", in, err)
		}
	}
	if _, err := ParseDirection("diagonal"); err == nil {
		t.Error("ParseDirection(diagonal) should fail")
	}
}

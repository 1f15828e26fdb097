package engine

// moveOutcome is the result of sliding every line of a grid in one
// direction, before any spawn.
type moveOutcome struct {
	grid     Grid
	tiles    []Tile // live tiles after the move, ordered by id
	consumed []Tile // tiles merged away, with WillDisappear set
	score    int
	moved    bool
	nextID   int
}

// slide applies the move processor to every line of s in direction dir.
// It does not touch s.
func slide(s *GameState, dir Direction) moveOutcome {
	n := s.Grid.Size()
	out := moveOutcome{
		grid:   NewGrid(n),
		tiles:  make([]Tile, 0, len(s.Tiles)),
		nextID: s.NextTileID,
	}
	byCell := indexTiles(s.Tiles)

	for idx := range n {
		line := s.Grid.readLine(dir, idx)
		slid, score := slideLine(line)
		out.grid.writeLine(dir, idx, slid)
		out.score += score
		if lineChanged(line, slid) {
			out.moved = true
		}
		out.walkLine(dir, n, idx, byCell)
	}

	sortTiles(out.tiles)
	return out
}

// walkLine re-derives tile identities for one line. Tiles are taken in
// travel order and paired with the same rule slideLine applies to values,
// so the tile set always agrees with the new grid.
func (o *moveOutcome) walkLine(dir Direction, n, idx int, byCell map[Cell]Tile) {
	line := make([]Tile, 0, n)
	for pos := range n {
		if t, ok := byCell[lineCell(dir, n, idx, pos)]; ok {
			line = append(line, t.settled())
		}
	}

	writePos := 0
	for i := 0; i < len(line); i++ {
		target := lineCell(dir, n, idx, writePos)
		writePos++

		if i+1 < len(line) && line[i].Value == line[i+1].Value {
			a, b := line[i], line[i+1]
			o.consumed = append(o.consumed, a.consumedInto(target), b.consumedInto(target))
			o.tiles = append(o.tiles, Tile{
				ID:         o.nextID,
				Value:      a.Value * 2,
				Row:        target.Row,
				Col:        target.Col,
				MergedFrom: []int{a.ID, b.ID},
			})
			o.nextID++
			i++
			continue
		}

		t := line[i]
		t.Row, t.Col = target.Row, target.Col
		o.tiles = append(o.tiles, t)
	}
}

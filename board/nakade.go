package board

// IsNakade reports whether the empty region containing (x, y) is a nakade
// vital-point shape: an internal eye space small and awkwardly shaped
// enough that a single point inside it, if filled by the surrounding
// group's owner, cannot be split into two separate eyes. A group whose
// only internal space is such a shape is dead despite appearing to have
// room, which is why markFixedGroups refuses to count a nakade-shaped
// region as a vital eye when testing life.
func (b *Board) IsNakade(x, y int) bool {
	p := b.idx(x, y)
	if b.colors[p] != Empty {
		return false
	}
	region, _ := b.floodRegionAll(p, make(map[int32]bool))
	cells := make([]Coord, 0, len(region))
	for pos := range region {
		rx, ry := b.fromIdx(pos)
		cells = append(cells, Coord{X: rx, Y: ry})
	}
	return b.isNakadeShape(cells)
}

// isNakadeShape is the vital-point test itself, ported from the original
// engine's Board::_isNakade: project the region onto a local 5x5 grid and
// look for one point whose direct, diagonal, and corner connections reach
// all but one of the other points in the shape. The corner test is
// adapted from the original's padded-buffer index arithmetic to this
// board's own (x, y) coordinates: a cell counts as a board corner when it
// sits on both a horizontal and a vertical edge of the real playing area.
func (b *Board) isNakadeShape(cells []Coord) bool {
	const span = 5
	n := len(cells)
	if n == 0 || n >= 7 {
		return false
	}

	startX, startY := cells[0].X, cells[0].Y
	endX, endY := startX, startY
	for _, c := range cells[1:] {
		if c.X < startX {
			startX = c.X
		}
		if c.Y < startY {
			startY = c.Y
		}
		if c.X > endX {
			endX = c.X
		}
		if c.Y > endY {
			endY = c.Y
		}
	}
	if endX-startX > 3 || endY-startY > 3 {
		return false
	}

	var grid, corner [span * span]bool
	for _, c := range cells {
		dx, dy := c.X-startX+1, c.Y-startY+1
		grid[dy*span+dx] = true
		if (c.X == 0 || c.X == b.W-1) && (c.Y == 0 || c.Y == b.H-1) {
			corner[dy*span+dx] = true
		}
	}

	get := func(x, y int) bool {
		if x < 0 || x >= span || y < 0 || y >= span {
			return false
		}
		return grid[y*span+x]
	}
	getCorner := func(x, y int) bool {
		if x < 0 || x >= span || y < 0 || y >= span {
			return false
		}
		return corner[y*span+x]
	}

	type delta struct{ dx, dy int }
	arounds := [4]delta{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonals := [4]struct{ v, h delta }{
		{delta{0, 1}, delta{1, 0}},
		{delta{0, 1}, delta{-1, 0}},
		{delta{0, -1}, delta{1, 0}},
		{delta{0, -1}, delta{-1, 0}},
	}

	for py := 1; py < span-1; py++ {
		for px := 1; px < span-1; px++ {
			if !get(px, py) {
				continue
			}

			directConnections := 0
			for _, a := range arounds {
				if get(px+a.dx, py+a.dy) {
					directConnections++
				}
			}

			skewConnections := 0
			cornerConnections := 0
			for _, d := range diagonals {
				vx, vy := px+d.v.dx, py+d.v.dy
				hx, hy := px+d.h.dx, py+d.h.dy
				if !get(vx+d.h.dx, vy+d.h.dy) {
					continue
				}
				switch {
				case cornerConnections == 0 && getCorner(vx, vy) && get(vx, vy):
					cornerConnections = 1
				case cornerConnections == 0 && getCorner(hx, hy) && get(hx, hy):
					cornerConnections = 1
				case skewConnections == 0 && get(vx, vy) && get(hx, hy):
					skewConnections = 1
				}
			}

			if directConnections+skewConnections+cornerConnections >= n-1 {
				return true
			}
		}
	}
	return false
}

package board

import "time"

// Board is the Go rules engine underlying every search node. Internally it
// uses a padded index space of (W+2)*(H+2) with a single Edge sentinel
// group at index 0, so neighbor iteration needs no bounds checks.
type Board struct {
	W, H   int
	stride int

	colors []Color
	renIDs []int32
	rens   map[int32]*ren

	pattern Pattern
	history History

	koPos   int32
	koColor Color

	rule    Rule
	komi    float32
	superko bool

	z zobrist

	moveCount int
}

// NewBoard allocates an empty w x h board.
func NewBoard(w, h int, rule Rule, komi float32, superko bool) *Board {
	stride := w + 2
	size := stride * (h + 2)
	b := &Board{
		W: w, H: h, stride: stride,
		colors:  make([]Color, size),
		renIDs:  make([]int32, size),
		rens:    make(map[int32]*ren),
		pattern: newPattern(w, h),
		history: newHistory(),
		koPos:   -1,
		koColor: Empty,
		rule:    rule,
		komi:    komi,
		superko: superko,
		z:       makeZobrist(w, h, time.Now().UnixNano()),
	}
	for i := range b.renIDs {
		b.renIDs[i] = -1
	}
	b.rens[0] = &ren{leader: 0, color: edgeColor}
	for x := -1; x <= w; x++ {
		b.setEdge(x, -1)
		b.setEdge(x, h)
	}
	for y := 0; y < h; y++ {
		b.setEdge(-1, y)
		b.setEdge(w, y)
	}
	return b
}

func (b *Board) setEdge(x, y int) {
	p := b.idx(x, y)
	b.colors[p] = edgeColor
	b.renIDs[p] = 0
}

func (b *Board) idx(x, y int) int32 { return int32((y+1)*b.stride + (x + 1)) }

func (b *Board) fromIdx(p int32) (x, y int) {
	v := int(p)
	y = v/b.stride - 1
	x = v%b.stride - 1
	return
}

func (b *Board) neighbors(p int32) [4]int32 {
	s := int32(b.stride)
	return [4]int32{p - s, p + s, p - 1, p + 1}
}

func (b *Board) groupAt(p int32) *ren {
	if b.colors[p] == Empty {
		return nil
	}
	return b.rens[b.renIDs[p]]
}

// Rule, Komi, Superko expose the board's static configuration.
func (b *Board) Rule() Rule       { return b.rule }
func (b *Board) Komi() float32    { return b.komi }
func (b *Board) Superko() bool    { return b.superko }
func (b *Board) MoveCount() int   { return b.moveCount }
func (b *Board) Hash() int64      { return b.z.hash }
func (b *Board) History() History { return b.history }
func (b *Board) PatternBits() Pattern {
	return b.pattern
}

// ColorAt returns the color at (x, y); out-of-bounds coordinates report Edge.
func (b *Board) ColorAt(x, y int) Color {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return edgeColor
	}
	return b.colors[b.idx(x, y)]
}

// GetColors returns a fresh row-major, unpadded snapshot of the board.
func (b *Board) GetColors() []Color {
	out := make([]Color, b.W*b.H)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			out[y*b.W+x] = b.colors[b.idx(x, y)]
		}
	}
	return out
}

// GetRenSize returns the size of the group occupying (x, y), or 0 if empty.
func (b *Board) GetRenSize(x, y int) int {
	g := b.groupAt(b.idx(x, y))
	if g == nil {
		return 0
	}
	return g.size()
}

// GetRenSpace returns the liberty count of the group occupying (x, y), or 0
// if empty.
func (b *Board) GetRenSpace(x, y int) int {
	g := b.groupAt(b.idx(x, y))
	if g == nil {
		return 0
	}
	return len(g.liberties)
}

// GetKo returns the forbidden point and the color that may not play it,
// or (Pass, Empty) if there is no live ko.
func (b *Board) GetKo() (Coord, Color) {
	if b.koPos < 0 {
		return Pass, Empty
	}
	x, y := b.fromIdx(b.koPos)
	return Coord{X: x, Y: y}, b.koColor
}

// canPlace implements the shared suicide-or-capture predicate used by both
// IsEnabled and Play: there must be an adjacent empty cell, an adjacent
// same-color group with at least two liberties, or an adjacent opposite
// color group with exactly one liberty.
func (b *Board) canPlace(p int32, color Color) bool {
	opponent := color.Opposite()
	for _, n := range b.neighbors(p) {
		switch {
		case b.colors[n] == Empty:
			return true
		case b.colors[n] == color:
			if len(b.rens[b.renIDs[n]].liberties) >= 2 {
				return true
			}
		case b.colors[n] == opponent:
			if len(b.rens[b.renIDs[n]].liberties) == 1 {
				return true
			}
		}
	}
	return false
}

// IsEnabled reports whether color may legally play at (x, y). checkSeki, if
// true, additionally rejects points the seki predicate identifies as a
// shared, unfillable liberty between two alive groups.
func (b *Board) IsEnabled(x, y int, color Color, checkSeki bool) bool {
	if x < 0 || y < 0 {
		return true
	}
	if x >= b.W || y >= b.H {
		return false
	}
	p := b.idx(x, y)
	if b.colors[p] != Empty {
		return false
	}
	if b.koPos == p && b.koColor == color {
		return false
	}
	if checkSeki && b.isSekiPoint(p) {
		return false
	}
	return b.canPlace(p, color)
}

// Play places a stone for color at (x, y). A pass (x<0 or y<0) clears ko and
// returns 0. Illegal moves return -1 and an error without mutating the
// board. Otherwise it returns the number of captured stones.
func (b *Board) Play(x, y int, color Color) (int, error) {
	if x < 0 || y < 0 {
		b.koPos = -1
		b.koColor = Empty
		return 0, nil
	}
	if x >= b.W || y >= b.H {
		return -1, illegalMove(x, y, color, "out of bounds")
	}
	p := b.idx(x, y)
	if b.colors[p] != Empty {
		return -1, illegalMove(x, y, color, "occupied")
	}
	if b.koPos == p && b.koColor == color {
		return -1, illegalMove(x, y, color, "ko")
	}
	if !b.canPlace(p, color) {
		return -1, illegalMove(x, y, color, "suicide")
	}

	neighbors := b.neighbors(p)
	opponent := color.Opposite()

	// Provisionally place the stone so liberty bookkeeping below sees it as
	// an occupied neighbor.
	b.colors[p] = color

	var captured []int32
	capturedStones := 0
	seenOpp := make(map[int32]bool, 4)
	for _, n := range neighbors {
		if b.colors[n] != opponent || seenOpp[b.renIDs[n]] {
			continue
		}
		seenOpp[b.renIDs[n]] = true
		g := b.rens[b.renIDs[n]]
		g.removeLiberty(p)
		if len(g.liberties) == 0 {
			captured = append(captured, g.leader)
			capturedStones += g.size()
		}
	}
	for _, leader := range captured {
		b.removeGroup(leader)
	}

	var newGroup *ren
	seenOwn := make(map[int32]bool, 4)
	for _, n := range neighbors {
		if b.colors[n] != color || seenOwn[b.renIDs[n]] {
			continue
		}
		leader := b.renIDs[n]
		seenOwn[leader] = true
		g := b.rens[leader]
		g.removeLiberty(p)
		if newGroup == nil {
			newGroup = g
		} else {
			newGroup.merge(g)
			delete(b.rens, g.leader)
			for s := range g.stones {
				b.renIDs[s] = newGroup.leader
			}
		}
	}
	if newGroup == nil {
		newGroup = newRen(p, color)
		b.rens[p] = newGroup
	} else {
		newGroup.stones[p] = struct{}{}
	}
	b.renIDs[p] = newGroup.leader

	for _, n := range b.neighbors(p) {
		if b.colors[n] == Empty {
			newGroup.addLiberty(n)
		}
	}

	cellIdx := y*b.W + x
	b.pattern.Set(x, y, color)
	b.z.toggle(cellIdx, color)

	if capturedStones == 1 && newGroup.size() == 1 && len(newGroup.liberties) == 1 {
		b.koPos = captured[0]
		b.koColor = opponent
	} else {
		b.koPos = -1
		b.koColor = Empty
	}

	b.history.Push(color, int32(cellIdx))
	b.moveCount++
	return capturedStones, nil
}

// removeGroup deletes the group led by leader, freeing every stone and
// handing each freed position back as a liberty to any adjacent group.
func (b *Board) removeGroup(leader int32) {
	g, ok := b.rens[leader]
	if !ok {
		return
	}
	for s := range g.stones {
		b.colors[s] = Empty
		b.renIDs[s] = -1
		sx, sy := b.fromIdx(s)
		b.pattern.Set(sx, sy, Empty)
		b.z.toggle(sy*b.W+sx, g.color)
		for _, n := range b.neighbors(s) {
			if b.colors[n].IsStone() {
				if ng, ok := b.rens[b.renIDs[n]]; ok {
					ng.addLiberty(s)
				}
			}
		}
	}
	delete(b.rens, leader)
}

// Clone deep-copies the board, including all group bookkeeping. It is the
// workhorse of ladder search and of Node's per-node board ownership.
func (b *Board) Clone() *Board {
	out := &Board{
		W: b.W, H: b.H, stride: b.stride,
		colors:    append([]Color(nil), b.colors...),
		renIDs:    append([]int32(nil), b.renIDs...),
		rens:      make(map[int32]*ren, len(b.rens)),
		pattern:   b.pattern.Clone(),
		history:   b.history.Clone(),
		koPos:     b.koPos,
		koColor:   b.koColor,
		rule:      b.rule,
		komi:      b.komi,
		superko:   b.superko,
		z:         b.z.clone(),
		moveCount: b.moveCount,
	}
	for k, g := range b.rens {
		out.rens[k] = g.clone()
	}
	return out
}

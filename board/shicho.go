package board

// shichoFrame is one node of the explicit ladder-search stack: the group
// led by leader is being chased by the opponent of color, on the board bd.
type shichoFrame struct {
	bd     *Board
	leader int32
	color  Color
	depth  int
}

// hasCounterCaptureEscape reports whether any stone group of the opposite
// color adjacent to g has exactly one liberty: if so, g's owner can escape
// the chase by capturing that group instead of running, so this branch of
// the ladder is not a capture.
func (b *Board) hasCounterCaptureEscape(g *ren) bool {
	opponent := g.color.Opposite()
	seen := make(map[int32]bool)
	for s := range g.stones {
		for _, n := range b.neighbors(s) {
			if b.colors[n] != opponent || seen[b.renIDs[n]] {
				continue
			}
			seen[b.renIDs[n]] = true
			if len(b.rens[b.renIDs[n]].liberties) == 1 {
				return true
			}
		}
	}
	return false
}

// IsShicho reports whether the group occupying (x, y) is caught in a
// ladder: a forced sequence of atari/extend moves that ends in capture no
// matter how the group's owner responds. A group with more than two
// liberties is never in immediate ladder danger. The search is an
// explicit-stack DFS over cloned boards (never recursive Go calls), bounded
// to 2*W*H plies; a branch past the bound is treated as escaped rather than
// explored further, per the open question on unbounded ladder recursion
// depth.
func (b *Board) IsShicho(x, y int) bool {
	p := b.idx(x, y)
	g := b.groupAt(p)
	if g == nil || len(g.liberties) > 2 {
		return false
	}
	maxDepth := 2 * b.W * b.H
	stack := []shichoFrame{{bd: b, leader: g.leader, color: g.color, depth: 0}}

	for len(stack) > 0 {
		n := len(stack) - 1
		frame := stack[n]
		stack = stack[:n]
		if frame.depth >= maxDepth {
			continue
		}
		grp, ok := frame.bd.rens[frame.leader]
		if !ok {
			return true // already fully captured along this branch
		}
		if len(grp.liberties) > 2 {
			continue // escaped
		}
		if frame.bd.hasCounterCaptureEscape(grp) {
			continue // escapes by capturing an adjacent dead opponent group
		}

		switch len(grp.liberties) {
		case 1:
			var escapeAt int32
			for lib := range grp.liberties {
				escapeAt = lib
			}
			if !frame.bd.canPlace(escapeAt, frame.color) {
				return true // no legal extension: caught
			}
			next := frame.bd.Clone()
			ex, ey := next.fromIdx(escapeAt)
			if _, err := next.Play(ex, ey, frame.color); err != nil {
				return true
			}
			newLeader := next.renIDs[escapeAt]
			escaped, ok := next.rens[newLeader]
			if !ok {
				continue // self-capture would have been illegal; defensive only
			}
			switch {
			case len(escaped.liberties) == 1:
				return true
			case len(escaped.liberties) == 2:
				stack = append(stack, shichoFrame{
					bd: next, leader: newLeader, color: frame.color, depth: frame.depth + 1,
				})
			default:
				continue // ran free
			}

		case 2:
			attacker := frame.color.Opposite()
			libs := make([]int32, 0, 2)
			for lib := range grp.liberties {
				libs = append(libs, lib)
			}
			for _, atariAt := range libs {
				next := frame.bd.Clone()
				if !next.canPlace(atariAt, attacker) {
					continue
				}
				ax, ay := next.fromIdx(atariAt)
				if _, err := next.Play(ax, ay, attacker); err != nil {
					continue
				}
				chased, ok := next.rens[frame.leader]
				if !ok {
					return true
				}
				if len(chased.liberties) != 1 {
					continue // this attacker move didn't force atari
				}
				stack = append(stack, shichoFrame{
					bd: next, leader: frame.leader, color: frame.color, depth: frame.depth + 1,
				})
			}
		}
	}
	return false
}

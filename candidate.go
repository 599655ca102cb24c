package ishi

import "github.com/ishigo/ishi/board"

// Candidate is one reportable move: the position, the color that would
// play it, its search statistics if it has been expanded, and (when it has
// children of its own) the principal variation hanging off it.
type Candidate struct {
	X, Y       int
	Color      board.Color
	Visits     uint32
	Playouts   uint32
	Policy     float32
	Value      float32
	LCB        float32
	Variations []board.Coord
}

// IsPass reports whether this candidate represents a pass move.
func (c Candidate) IsPass() bool { return c.X < 0 || c.Y < 0 }

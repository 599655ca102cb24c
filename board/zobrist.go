package board

import (
	"math/rand"
)

// zobrist maintains an incrementally updated position hash, generalized
// from the teacher's (board-size, 2)-table design: one random key per
// (cell, color) pair, XORed in and out as stones are placed and captured.
// Positional-superko enforcement uses the exact Pattern.Key() instead of
// this hash, since a hash collision would wrongly forbid a legal move;
// Board.Hash is exposed purely as a cheap, collision-tolerant position key;
// nothing in this module calls it.
type zobrist struct {
	table []int64 // [cell*2+colorIndex]
	hash  int64
}

func makeZobrist(w, h int, seed int64) zobrist {
	r := rand.New(rand.NewSource(seed))
	table := make([]int64, w*h*2)
	for i := range table {
		table[i] = r.Int63()
	}
	return zobrist{table: table}
}

func colorIndex(c Color) int {
	if c == Black {
		return 0
	}
	return 1
}

func (z *zobrist) toggle(cell int, c Color) {
	z.hash ^= z.table[cell*2+colorIndex(c)]
}

func (z zobrist) clone() zobrist {
	out := zobrist{table: make([]int64, len(z.table)), hash: z.hash}
	copy(out.table, z.table)
	return out
}

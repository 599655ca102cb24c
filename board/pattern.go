package board

import "encoding/binary"

// Pattern is a packed bitmap: for every board cell, two bits encode
// {empty, black, white}. It is maintained incrementally on every put/remove
// and is what getState/loadState persist; Key() also makes it usable as an
// exact position-repetition key for positional-superko history.
type Pattern struct {
	w, h  int
	words []int32
}

const (
	bitsPerCell  = 2
	cellsPerWord = 32 / bitsPerCell // 16 cells per packed int32
)

func newPattern(w, h int) Pattern {
	cells := w * h
	return Pattern{
		w:     w,
		h:     h,
		words: make([]int32, (cells+cellsPerWord-1)/cellsPerWord),
	}
}

func (p Pattern) cellIndex(x, y int) int { return y*p.w + x }

func (p *Pattern) bitsFor(c Color) int32 {
	switch c {
	case Black:
		return 1
	case White:
		return 2
	default:
		return 0
	}
}

func (p *Pattern) colorFor(bits int32) Color {
	switch bits {
	case 1:
		return Black
	case 2:
		return White
	default:
		return Empty
	}
}

// Set packs the color of cell (x, y).
func (p *Pattern) Set(x, y int, c Color) {
	cell := p.cellIndex(x, y)
	word, shift := cell/cellsPerWord, uint((cell%cellsPerWord)*bitsPerCell)
	p.words[word] &^= 0x3 << shift
	p.words[word] |= p.bitsFor(c) << shift
}

// Get unpacks the color of cell (x, y).
func (p *Pattern) Get(x, y int) Color {
	cell := p.cellIndex(x, y)
	word, shift := cell/cellsPerWord, uint((cell%cellsPerWord)*bitsPerCell)
	return p.colorFor((p.words[word] >> shift) & 0x3)
}

// Words returns the backing packed representation, row-major, ceil(W*H/16)
// int32s as described by the persisted state layout.
func (p Pattern) Words() []int32 {
	out := make([]int32, len(p.words))
	copy(out, p.words)
	return out
}

// LoadWords restores the packed representation from a prior Words() dump.
func (p *Pattern) LoadWords(words []int32) {
	copy(p.words, words)
}

// Key returns a comparable snapshot of the packed representation, usable
// as a map key for exact position-repetition checks such as positional
// superko, which needs the whole-board pattern rather than a hash that
// could collide.
func (p Pattern) Key() string {
	buf := make([]byte, len(p.words)*4)
	for i, w := range p.words {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(w))
	}
	return string(buf)
}

// Clone deep-copies the pattern.
func (p Pattern) Clone() Pattern {
	out := Pattern{w: p.w, h: p.h, words: make([]int32, len(p.words))}
	copy(out.words, p.words)
	return out
}

// Equal reports whether two patterns describe the same board.
func (p Pattern) Equal(other Pattern) bool {
	if p.w != other.w || p.h != other.h || len(p.words) != len(other.words) {
		return false
	}
	for i := range p.words {
		if p.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

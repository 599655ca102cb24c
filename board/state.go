package board

// GetState returns the compact persisted snapshot: the packed pattern
// bitmap, one int packing (koIndex+1, koColor+1), then two ints packing the
// three most-recent moves per color. It intentionally does not preserve
// group identities; LoadState rebuilds them from scratch.
func (b *Board) GetState() []int32 {
	words := b.pattern.Words()
	out := make([]int32, 0, len(words)+3)
	out = append(out, words...)

	koIndexPlus1 := int32(0)
	if b.koPos >= 0 {
		kx, ky := b.fromIdx(b.koPos)
		koIndexPlus1 = int32(ky*b.W+kx) + 1
	}
	koColorPlus1 := int32(b.koColor) + 1
	out = append(out, koIndexPlus1|(koColorPlus1<<16))

	blackWord, whiteWord := b.history.packedInts()
	out = append(out, blackWord, whiteWord)
	return out
}

// LoadState clears the board and replays it from a snapshot produced by
// GetState: stones are replayed in row-major order via Play (rebuilding
// group bookkeeping from scratch), then ko and history are restored
// directly rather than re-derived.
func (b *Board) LoadState(data []int32) error {
	nWords := len(b.pattern.Words())
	if len(data) != nWords+3 {
		return illegalMove(0, 0, Empty, "malformed state length")
	}

	fresh := NewBoard(b.W, b.H, b.rule, b.komi, b.superko)
	p := newPattern(b.W, b.H)
	p.LoadWords(data[:nWords])

	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			c := p.Get(x, y)
			if c == Empty {
				continue
			}
			if _, err := fresh.Play(x, y, c); err != nil {
				return err
			}
		}
	}

	koWord := data[nWords]
	koIndexPlus1 := koWord & 0xFFFF
	koColorPlus1 := (koWord >> 16) & 0xFFFF
	if koIndexPlus1 == 0 {
		fresh.koPos = -1
		fresh.koColor = Empty
	} else {
		kx, ky := int((koIndexPlus1-1))%b.W, int((koIndexPlus1-1))/b.W
		fresh.koPos = fresh.idx(kx, ky)
		fresh.koColor = Color(koColorPlus1 - 1)
	}
	fresh.history.loadPackedInts(data[nWords+1], data[nWords+2])

	*b = *fresh
	return nil
}

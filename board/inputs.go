package board

import "gorgonia.org/tensor"

// Model dimensions, compiled in. ModelSize is the square canvas every board
// is centered into regardless of its own W/H, so a single network can serve
// any supported board size.
const (
	ModelSize     = 19
	ModelFeatures = 32
	ModelInfos    = 7
)

// ModelInputSize is the flattened length of one Inputs() row: (features+1)
// planes of ModelSize x ModelSize, plus the trailing scalar vector.
const ModelInputSize = (ModelFeatures+1)*ModelSize*ModelSize + ModelInfos

func clampLiberty(libs int) int {
	if libs > 8 {
		libs = 8
	}
	return libs - 1
}

func distanceToEdge(x, y, w, h int) int {
	d := x
	if v := w - 1 - x; v < d {
		d = v
	}
	if v := y; v < d {
		d = v
	}
	if v := h - 1 - y; v < d {
		d = v
	}
	return d
}

// ladderMask returns, for the given color, which row-major cells belong to
// a group currently caught in a ladder (IsShicho true). Groups with more
// than two liberties are skipped without calling IsShicho, since it always
// reports false for them.
func (b *Board) ladderMask(color Color) []bool {
	mask := make([]bool, b.W*b.H)
	for leader, g := range b.rens {
		if g.color != color || len(g.liberties) > 2 {
			continue
		}
		lx, ly := b.fromIdx(leader)
		if !b.IsShicho(lx, ly) {
			continue
		}
		for s := range g.stones {
			sx, sy := b.fromIdx(s)
			mask[sy*b.W+sx] = true
		}
	}
	return mask
}

// Inputs builds the MODEL_INPUT_SIZE feature row for the side to move
// (color), centering the board into the ModelSize canvas. Plane layout
// follows the 0-indexed scheme: 0 empty, 1 own, 2 own-ladder, 3..10 own
// liberty buckets, 11..13 own last-three moves, 14 opp, 15 opp-ladder,
// 16..23 opp liberty buckets, 24..26 opp last-three moves, 27..30 line
// indicators, 31 ko recapture point, plane 32 padding mask, followed by the
// seven trailing scalars.
func (b *Board) Inputs(color Color) *tensor.Dense {
	data := make([]float32, ModelInputSize)
	planeSize := ModelSize * ModelSize
	offsetX := (ModelSize - b.W) / 2
	offsetY := (ModelSize - b.H) / 2

	opponent := color.Opposite()
	ladderOwn := b.ladderMask(color)
	ladderOpp := b.ladderMask(opponent)
	ownHist := b.history.Recent(color)
	oppHist := b.history.Recent(opponent)
	koCoord, koColor := b.GetKo()

	plane := func(i int) []float32 {
		return data[i*planeSize : (i+1)*planeSize]
	}

	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			cell := y*b.W + x
			c := b.colors[b.idx(x, y)]
			out := (y+offsetY)*ModelSize + (x + offsetX)

			switch c {
			case Empty:
				plane(0)[out] = 1
			case color:
				plane(1)[out] = 1
				if ladderOwn[cell] {
					plane(2)[out] = 1
				}
				if libs := b.GetRenSpace(x, y); libs >= 1 {
					plane(3 + clampLiberty(libs))[out] = 1
				}
			case opponent:
				plane(14)[out] = 1
				if ladderOpp[cell] {
					plane(15)[out] = 1
				}
				if libs := b.GetRenSpace(x, y); libs >= 1 {
					plane(16 + clampLiberty(libs))[out] = 1
				}
			}

			for i, mv := range ownHist {
				if mv >= 0 && int(mv) == cell {
					plane(11 + i)[out] = 1
				}
			}
			for i, mv := range oppHist {
				if mv >= 0 && int(mv) == cell {
					plane(24 + i)[out] = 1
				}
			}

			if d := distanceToEdge(x, y, b.W, b.H); d <= 3 {
				plane(27 + d)[out] = 1
			}

			if !koCoord.IsPass() && koColor == color && koCoord.X == x && koCoord.Y == y {
				plane(31)[out] = 1
			}

			plane(ModelFeatures)[out] = 1 // padding mask: inside the real board
		}
	}

	infos := data[(ModelFeatures+1)*planeSize:]
	if color == Black {
		infos[0] = 1
	} else {
		infos[1] = 1
	}
	infos[2] = b.komi * float32(color) / 13
	if b.superko {
		infos[3] = 1
	}
	if !koCoord.IsPass() {
		infos[4] = 1
	}
	if b.rule != RuleJapanese {
		infos[5] = 1
	} else {
		infos[6] = 1
	}

	return tensor.New(tensor.WithBacking(data), tensor.WithShape(ModelInputSize))
}


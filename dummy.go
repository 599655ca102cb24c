package ishi

import (
	"github.com/ishigo/ishi/board"
	"github.com/ishigo/ishi/infer"
)

// DummyInferencer is a deterministic mock model: it never runs a forward
// pass through any real network, returning a uniform policy over the board
// canvas and a fixed, caller-supplied value for every row. It stands in for
// the out-of-scope model file format and forward implementation, the way
// the teacher's own dummyInferer stood in for a trained DualNet during
// early self-play bring-up.
type DummyInferencer struct {
	// Value is the side-to-move-relative value ([-1, 1]) every row reports,
	// before Evaluator's own rescale-and-negate.
	Value float32
}

// Forward implements infer.Inferencer.
func (d DummyInferencer) Forward(inputs []float32, batch int) ([]float32, error) {
	out := make([]float32, batch*infer.ModelOutputSize)
	n := board.ModelSize * board.ModelSize
	uniform := float32(1) / float32(n)
	for b := 0; b < batch; b++ {
		row := out[b*infer.ModelOutputSize : (b+1)*infer.ModelOutputSize]
		for i := 0; i < n; i++ {
			row[i] = uniform
		}
		row[n] = (d.Value + 1) / 2
	}
	return out, nil
}

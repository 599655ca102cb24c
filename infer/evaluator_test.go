package infer

import (
	"context"
	"testing"

	"github.com/ishigo/ishi/board"
)

// uniformModel returns a uniform policy and a fixed value, the deterministic
// mock evaluator the end-to-end scenarios call for.
type uniformModel struct{ value float32 }

func (m uniformModel) Forward(inputs []float32, batch int) ([]float32, error) {
	out := make([]float32, batch*ModelOutputSize)
	planeSize := board.ModelSize * board.ModelSize
	for b := 0; b < batch; b++ {
		row := out[b*ModelOutputSize : (b+1)*ModelOutputSize]
		for i := 0; i < planeSize; i++ {
			row[i] = 1.0 / float32(planeSize)
		}
		row[planeSize] = (m.value + 1) / 2
	}
	return out, nil
}

func TestEvaluatorFiltersOccupiedCellAndIsIdempotent(t *testing.T) {
	cfg := Config{BatchSize: 1, Devices: 1, ThreadsPerDevice: 1, InputSize: board.ModelInputSize, OutputSize: ModelOutputSize}
	proc := NewProcessor([]Inferencer{uniformModel{value: 0}}, cfg)
	defer proc.Shutdown()

	bd := board.NewBoard(9, 9, board.RuleChinese, 7.5, false)
	if _, err := bd.Play(4, 4, board.Black); err != nil {
		t.Fatalf("play: %v", err)
	}

	var e Evaluator
	if err := e.Evaluate(context.Background(), proc, bd, board.White); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	for _, p := range e.Policies() {
		if p.X == 4 && p.Y == 4 {
			t.Fatalf("occupied cell (4,4) should not appear in policy list")
		}
	}
	if !e.Evaluated() {
		t.Fatalf("Evaluated() should be true after Evaluate")
	}

	before := len(e.Policies())
	if err := e.Evaluate(context.Background(), proc, bd, board.White); err != nil {
		t.Fatalf("second Evaluate: %v", err)
	}
	if len(e.Policies()) != before {
		t.Fatalf("second Evaluate should be a no-op once already evaluated")
	}
}

func TestEvaluatorValueSignConvention(t *testing.T) {
	cfg := Config{BatchSize: 1, Devices: 1, ThreadsPerDevice: 1, InputSize: board.ModelInputSize, OutputSize: ModelOutputSize}
	proc := NewProcessor([]Inferencer{uniformModel{value: 0.5}}, cfg)
	defer proc.Shutdown()

	bd := board.NewBoard(9, 9, board.RuleChinese, 7.5, false)

	var black Evaluator
	if err := black.Evaluate(context.Background(), proc, bd, board.Black); err != nil {
		t.Fatalf("Evaluate black: %v", err)
	}
	var white Evaluator
	if err := white.Evaluate(context.Background(), proc, bd, board.White); err != nil {
		t.Fatalf("Evaluate white: %v", err)
	}
	if black.Value() != -white.Value() {
		t.Fatalf("value should negate for White: black=%v white=%v", black.Value(), white.Value())
	}
}

package infer

import (
	"context"

	"github.com/ishigo/ishi/board"
	"gorgonia.org/vecf32"
)

// Output layout constants. A single policy plane (one probability per
// board cell on the model canvas) plus a single scalar value head is
// enough to drive the selection/expansion rule in search; nothing in this
// engine consumes a richer value head.
const (
	ModelPredictions = 1
	ModelValues      = 1
)

// ModelOutputSize is the flattened length of one inference result row.
const ModelOutputSize = ModelPredictions*board.ModelSize*board.ModelSize + ModelValues

// PolicyEntry is a transient per-candidate record: a legal, not-already-own
// -territory board position together with its raw policy probability.
type PolicyEntry struct {
	X, Y  int
	Prior float32
}

// Evaluator owns the last inference result for one board+color: the
// filtered policy list and the side-to-move value. It is idempotent: a
// second Evaluate call while already evaluated is a no-op, matching the
// "_evaluated" guard spec.md describes.
type Evaluator struct {
	evaluated bool
	policies  []PolicyEntry
	value     float32
}

// Evaluate runs bd's input builder, calls proc.Execute once, and extracts
// the per-cell policy restricted to moves color may legally play
// (checkSeki=true) and that do not already sit inside color's own
// territory. The value is read from the scalar head, rescaled from [0,1]
// to [-1,1], and negated for White so it is always side-to-move relative.
func (e *Evaluator) Evaluate(ctx context.Context, proc *Processor, bd *board.Board, color board.Color) error {
	if e.evaluated {
		return nil
	}

	input := bd.Inputs(color)
	raw, ok := input.Data().([]float32)
	if !ok {
		return errNotFloat32Backing
	}

	out := make([]float32, ModelOutputSize)
	if err := proc.Execute(ctx, raw, out, 1); err != nil {
		return err
	}

	modelSize := board.ModelSize
	offsetX := (modelSize - bd.W) / 2
	offsetY := (modelSize - bd.H) / 2
	territories := bd.GetTerritories()
	ownTerritory := territoryOwnerFor(color)

	policies := make([]PolicyEntry, 0, bd.W*bd.H)
	for y := 0; y < bd.H; y++ {
		for x := 0; x < bd.W; x++ {
			if !bd.IsEnabled(x, y, color, true) {
				continue
			}
			cell := y*bd.W + x
			if territories[cell] == ownTerritory {
				continue
			}
			canvasIdx := (y+offsetY)*modelSize + (x + offsetX)
			policies = append(policies, PolicyEntry{X: x, Y: y, Prior: out[canvasIdx]})
		}
	}

	valueOffset := ModelPredictions * modelSize * modelSize
	rescaled := []float32{out[valueOffset]*2 - 1}
	if color == board.White {
		// Flip perspective for the second player, the same way the
		// teacher's own board encoder flips a whole plane with
		// vecf32.Scale(retVal, -1); here the "plane" is the one-element
		// value slice.
		vecf32.Scale(rescaled, -1)
	}

	e.policies = policies
	e.value = rescaled[0]
	e.evaluated = true
	return nil
}

func territoryOwnerFor(c board.Color) board.Owner {
	if c == board.Black {
		return board.OwnerBlack
	}
	return board.OwnerWhite
}

// Policies returns the filtered (position, prior) list from the last
// Evaluate call.
func (e *Evaluator) Policies() []PolicyEntry { return e.policies }

// Value returns the side-to-move value from the last Evaluate call.
func (e *Evaluator) Value() float32 { return e.value }

// Evaluated reports whether Evaluate has produced a result since the last
// Reset.
func (e *Evaluator) Evaluated() bool { return e.evaluated }

// Reset clears the evaluator, as happens whenever the owning node resets.
func (e *Evaluator) Reset() {
	e.evaluated = false
	e.policies = nil
	e.value = 0
}

var errNotFloat32Backing = errBacking{}

type errBacking struct{}

func (errBacking) Error() string { return "infer: input tensor is not backed by []float32" }

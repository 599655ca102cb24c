package search

import (
	"context"
	"math/rand"
	"testing"

	"github.com/ishigo/ishi/board"
	"github.com/ishigo/ishi/infer"
	"github.com/stretchr/testify/require"
)

// uniformModel is a deterministic mock: uniform policy over the canvas,
// constant value, used to drive full descents without a trained network.
type uniformModel struct{ value float32 }

func (m uniformModel) Forward(inputs []float32, batch int) ([]float32, error) {
	n := board.ModelSize * board.ModelSize
	out := make([]float32, batch*infer.ModelOutputSize)
	uniform := float32(1) / float32(n)
	for b := 0; b < batch; b++ {
		row := out[b*infer.ModelOutputSize : (b+1)*infer.ModelOutputSize]
		for i := 0; i < n; i++ {
			row[i] = uniform
		}
		row[n] = (m.value + 1) / 2
	}
	return out, nil
}

func newTestProcessor(value float32) *infer.Processor {
	cfg := infer.DefaultConfig(board.ModelInputSize, infer.ModelOutputSize)
	return infer.NewProcessor([]infer.Inferencer{uniformModel{value: value}}, cfg)
}

func TestStepFirstVisitReturnsLeaf(t *testing.T) {
	pool := NewNodePool(4)
	root := pool.NewRoot(newTestBoard())
	proc := newTestProcessor(0)
	defer proc.Shutdown()

	res, err := root.Step(context.Background(), proc, DefaultConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Equal(t, Nil, res.Next)
	require.Equal(t, 1, res.Playouts)
	require.NotEmpty(t, root.Policies())
}

func TestDescendChildrenVisitsSumToRootVisitsMinusOne(t *testing.T) {
	pool := NewNodePool(64)
	root := pool.NewRoot(newTestBoard())
	proc := newTestProcessor(0)
	defer proc.Shutdown()

	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(42))

	const n = 200
	for i := 0; i < n; i++ {
		path, res, err := Descend(context.Background(), proc, pool, root.ID(), cfg, rng)
		require.NoError(t, err)
		Backpropagate(pool, path, res)
	}

	var childVisits uint32
	for _, c := range root.Children() {
		childVisits += c.Visits()
	}
	require.Equal(t, root.Visits()-1, childVisits)
	require.GreaterOrEqual(t, root.Visits(), uint32(n))
}

func TestEvalLeafOnlyCancelsBranchBirthContribution(t *testing.T) {
	pool := NewNodePool(64)
	root := pool.NewRoot(newTestBoard())
	proc := newTestProcessor(0)
	defer proc.Shutdown()

	cfg := DefaultConfig()
	cfg.EvalLeafOnly = true
	rng := rand.New(rand.NewSource(7))

	// The very first descent is root's own first-visit evaluation, not a
	// branch-birth event: it returns a normal leaf result.
	path, res, err := Descend(context.Background(), proc, pool, root.ID(), cfg, rng)
	require.NoError(t, err)
	require.Equal(t, 1, res.Playouts)
	Backpropagate(pool, path, res)
	require.Equal(t, uint32(1), root.Count())

	// The second descent births the root's first child and must cancel the
	// value it just, speculatively, contributed above.
	path, res, err = Descend(context.Background(), proc, pool, root.ID(), cfg, rng)
	require.NoError(t, err)
	require.Equal(t, -1, res.Playouts)
	Backpropagate(pool, path, res)
	require.Equal(t, uint32(0), root.Count())
}

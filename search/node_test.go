package search

import (
	"testing"

	"github.com/ishigo/ishi/board"
	"github.com/stretchr/testify/require"
)

func newTestBoard() *board.Board {
	return board.NewBoard(9, 9, board.RuleChinese, 7.5, true)
}

func TestNewChildAlternatesColor(t *testing.T) {
	pool := NewNodePool(16)
	root := pool.NewRoot(newTestBoard())
	require.Equal(t, board.White, root.Color())

	child, err := pool.NewChild(root, 2, 2, 0.5)
	require.NoError(t, err)
	require.Equal(t, board.Black, child.Color())

	grandchild, err := pool.NewChild(child, 3, 3, 0.5)
	require.NoError(t, err)
	require.Equal(t, board.White, grandchild.Color())
}

func TestNewChildRejectsIllegalMove(t *testing.T) {
	pool := NewNodePool(16)
	root := pool.NewRoot(newTestBoard())

	child, err := pool.NewChild(root, 2, 2, 0.5)
	require.NoError(t, err)

	// White cannot play on top of Black's stone at (2,2).
	_, err = pool.NewChild(child, 2, 2, 0.5)
	require.Error(t, err)
}

func TestPoolReleasesAndReusesIndices(t *testing.T) {
	pool := NewNodePool(4)
	root := pool.NewRoot(newTestBoard())
	child, err := pool.NewChild(root, 0, 0, 1)
	require.NoError(t, err)

	before := pool.Len()
	pool.ReleaseSubtree(child.ID(), Nil)
	require.Equal(t, before, pool.Len(), "release must not shrink the backing slice")

	other, err := pool.NewChild(root, 1, 1, 1)
	require.NoError(t, err)
	require.Equal(t, child.ID(), other.ID(), "freed index should be recycled by the next alloc")
}

func TestLCBNeverExceedsColorRelativeMeanValue(t *testing.T) {
	pool := NewNodePool(4)
	root := pool.NewRoot(newTestBoard())
	child, err := pool.NewChild(root, 4, 4, 1)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		child.updateValue(0.4)
	}
	for i := 0; i < 3; i++ {
		child.valueMu.Lock()
		child.visits++
		child.valueMu.Unlock()
	}

	q := child.MeanValue() * float32(child.Color())
	lcb := child.LCB()
	require.LessOrEqual(t, lcb, q)
	require.GreaterOrEqual(t, lcb, float32(-1.5))
	require.LessOrEqual(t, q, float32(1))
}

func TestReleaseSubtreeSkipsKeep(t *testing.T) {
	pool := NewNodePool(4)
	root := pool.NewRoot(newTestBoard())
	kept, err := pool.NewChild(root, 0, 0, 1)
	require.NoError(t, err)
	sibling, err := pool.NewChild(root, 1, 1, 1)
	require.NoError(t, err)
	root.children[cellKey(root.bd, 0, 0)] = kept.ID()
	root.children[cellKey(root.bd, 1, 1)] = sibling.ID()

	inUseBefore := pool.InUse()
	pool.ReleaseSubtree(root.ID(), kept.ID())

	require.Equal(t, inUseBefore-2, pool.InUse(), "root and sibling released, kept survives")
	_ = sibling
}

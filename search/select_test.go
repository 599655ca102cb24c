package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPucbPrioritySentinelForUnvisitedChild(t *testing.T) {
	pool := NewNodePool(4)
	root := pool.NewRoot(newTestBoard())
	child, err := pool.NewChild(root, 4, 4, 0.9)
	require.NoError(t, err)

	require.Equal(t, sentinelPriority, pucbPriority(0, child))
}

func TestPucbPriorityFavorsHigherPrior(t *testing.T) {
	pool := NewNodePool(4)
	root := pool.NewRoot(newTestBoard())

	strong, err := pool.NewChild(root, 4, 4, 0.9)
	require.NoError(t, err)
	weak, err := pool.NewChild(root, 3, 3, 0.1)
	require.NoError(t, err)

	for _, c := range []*Node{strong, weak} {
		c.updateValue(0)
		c.valueMu.Lock()
		c.visits = 1
		c.valueMu.Unlock()
	}

	require.Greater(t, pucbPriority(10, strong), pucbPriority(10, weak))
}

func TestSelectChildNilWithoutChildren(t *testing.T) {
	pool := NewNodePool(4)
	root := pool.NewRoot(newTestBoard())
	require.Equal(t, Nil, root.selectChild(DefaultConfig()))
}

func TestBestByVisitsPicksMostVisited(t *testing.T) {
	pool := NewNodePool(4)
	root := pool.NewRoot(newTestBoard())

	a, err := pool.NewChild(root, 0, 0, 0.5)
	require.NoError(t, err)
	b, err := pool.NewChild(root, 1, 1, 0.5)
	require.NoError(t, err)
	root.children[cellKey(root.bd, 0, 0)] = a.ID()
	root.children[cellKey(root.bd, 1, 1)] = b.ID()

	a.valueMu.Lock()
	a.visits = 3
	a.valueMu.Unlock()
	b.valueMu.Lock()
	b.visits = 7
	b.valueMu.Unlock()

	require.Equal(t, b.ID(), root.BestByVisits())
}

package search

import (
	"sync"

	"github.com/ishigo/ishi/board"
)

// NodePool is the process-wide pool of Node storage shared by one Player.
// It grows on demand and never shrinks, mirroring mcts.MCTS's arena-of-nodes
// design: freed nodes go back into a free list instead of being garbage
// collected, since search churns through thousands of short-lived nodes per
// second.
type NodePool struct {
	mu       sync.RWMutex
	nodes    []*Node
	free     []naughty
	inUse    map[naughty]bool
	capacity int

	lumberjack
}

// NewNodePool builds an empty pool. capacity is only a hint for the initial
// backing slice; the pool grows past it transparently.
func NewNodePool(capacity int) *NodePool {
	if capacity <= 0 {
		capacity = 4096
	}
	p := &NodePool{
		nodes:      make([]*Node, 0, capacity),
		inUse:      make(map[naughty]bool, capacity),
		capacity:   capacity,
		lumberjack: makeLumberJack(),
	}
	go p.lumberjack.start()
	return p
}

// get returns the node at index id. Callers must only pass ids they own
// (obtained from alloc, Children, or a prior get); the pool never checks
// bounds against IsValid-style flags the way the teacher's naughty type did,
// since ownership here is enforced by the pause-drain discipline in the
// Player rather than by the pool itself.
func (p *NodePool) get(id naughty) *Node {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.nodes[id]
}

// Get is the exported form of get, for callers outside the package (e.g.
// the Player) that hold a raw naughty id from a Result.
func (p *NodePool) Get(id naughty) *Node { return p.get(id) }

// alloc pulls a node from the free list, or grows the backing slice.
func (p *NodePool) alloc() *Node {
	p.mu.Lock()
	defer p.mu.Unlock()

	if l := len(p.free); l > 0 {
		id := p.free[l-1]
		p.free = p.free[:l-1]
		n := p.nodes[id]
		n.reset()
		p.inUse[id] = true
		return n
	}

	id := naughty(len(p.nodes))
	n := &Node{pool: p, id: id}
	n.reset()
	p.nodes = append(p.nodes, n)
	p.inUse[id] = true
	return n
}

// NewRoot allocates a fresh root node at the given (empty) board. Per
// spec.md's invariant, the root's color is White so that the first
// candidate move (the root's own children) is Black.
func (p *NodePool) NewRoot(bd *board.Board) *Node {
	n := p.alloc()
	n.x, n.y = -1, -1
	n.color = board.White
	n.bd = bd
	return n
}

// NewChild allocates a child of parent at (x, y), playing the move on a
// clone of the parent's board. captured is the number of stones the move
// took; err is non-nil if the move turned out to be illegal (which should
// not happen for a move drawn from the parent's own filtered policy list,
// but is surfaced rather than panicked on since board state can race with
// concurrent structural changes only under a caller bug).
func (p *NodePool) NewChild(parent *Node, x, y int, prior float32) (*Node, error) {
	child := p.alloc()
	clone := parent.bd.Clone()
	captured, err := clone.Play(x, y, parent.color.Opposite())
	if err != nil {
		p.release(child.id)
		return nil, err
	}
	child.x, child.y = x, y
	child.color = parent.color.Opposite()
	child.captured = captured
	child.prior = prior
	child.bd = clone
	return child, nil
}

// release returns id's node to the free list without touching its
// children; the caller is responsible for walking and releasing a subtree
// first (see ReleaseSubtree).
func (p *NodePool) release(id naughty) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.inUse[id] {
		return
	}
	delete(p.inUse, id)
	p.free = append(p.free, id)
}

// ReleaseSubtree walks the subtree rooted at id (explicit stack, not
// recursion, so releasing a deep line of forced replies doesn't grow the Go
// stack) and returns every node to the free list, skipping keep if it
// appears anywhere in the subtree (used when promoting a child to the new
// root: its own subtree must survive). No node is released while a worker
// might still hold a pointer to it; the Player guarantees this by only
// calling ReleaseSubtree from inside a paused, drained section.
func (p *NodePool) ReleaseSubtree(id, keep naughty) {
	if id == Nil || id == keep {
		return
	}
	stack := []naughty{id}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		if cur == keep {
			continue
		}
		node := p.get(cur)
		for _, child := range node.ChildIDs() {
			stack = append(stack, child)
		}
		p.release(cur)
	}
}

// Len returns the number of nodes ever allocated (in use or free), useful
// for debug/graph export and tests.
func (p *NodePool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.nodes)
}

// InUse returns the number of currently allocated (not freed) nodes.
func (p *NodePool) InUse() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.inUse)
}

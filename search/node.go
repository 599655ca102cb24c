// Package search implements the best-first tree that interleaves PUCB/UCB1
// selection with a KataGo/Gumbel-AlphaZero-style policy-expansion rule. A
// Node owns a Board, an Evaluator, and its own statistics; a NodePool
// allocates and recycles Nodes without ever shrinking, generalizing the
// teacher's index-into-slice ("naughty") trick from mcts.Node to the
// two-lock structural/value split spec.md calls for.
package search

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/ishigo/ishi/board"
	"github.com/ishigo/ishi/infer"
)

// naughty indexes into the NodePool's backing storage in place of a pointer,
// so a released subtree can be returned to a free list and reused without
// invalidating any Node still referencing its own index.
type naughty int32

// Nil is the sentinel "no node" index, returned wherever spec.md's
// pseudocode says "nextNode = null".
const Nil naughty = -1

// sentinelPriority is spec.md's "-99": the priority assigned to a child that
// has never completed an evaluation, so it is only chosen once nothing else
// is available.
const sentinelPriority = float32(-99)

// Policy is a transient per-child record carried by the parent: a candidate
// move and prior probability from the parent's Evaluator, plus how many
// times the expansion rule has picked it (distinct from the child node's
// own visit count, which only exists once the child is materialized).
type Policy struct {
	X, Y             int
	Prior            float32
	VisitsFromParent uint32
}

// Result is what one call to (*Node).Step hands back to the descending
// worker: which node to visit next (Nil to stop and backpropagate), the
// value to backpropagate, and how many playouts to credit.
//
// Playouts == -1 is the evalLeafOnly branch-birth signal: the caller must
// cancel the value it previously, speculatively added at every node on the
// path instead of adding a new one (spec.md §4.3, §9 design note 4).
type Result struct {
	Next     naughty
	Value    float32
	Playouts int
}

// Node owns a Board, an Evaluator, its own (x, y, color, captured, prior),
// a map from child cell key to child index, the parent's Policy list, an
// expansion FIFO with a dedup set, and the aggregated (visits, playouts,
// value/count) statistics. evalMu guards structural mutation (children,
// policies, the expansion queue); valueMu guards statistical mutation
// (visits, playouts, the value accumulator). Splitting the two lets many
// workers backpropagate concurrently with a few expanding elsewhere in the
// tree.
type Node struct {
	evalMu  sync.RWMutex
	valueMu sync.RWMutex

	pool *NodePool
	id   naughty

	x, y     int
	color    board.Color
	captured int
	prior    float32

	bd *board.Board
	ev *infer.Evaluator

	children map[int]naughty // keyed by passKey or y*W+x
	policies []Policy
	queue    []int        // FIFO of policy indices awaiting materialization
	queued   map[int]bool // dedup set mirroring queue

	visits   uint32
	playouts uint32
	valueSum float32
	count    uint32

	inUse bool
}

const passKey = -1

func cellKey(bd *board.Board, x, y int) int {
	if x < 0 || y < 0 {
		return passKey
	}
	return y*bd.W + x
}

// reset restores a Node to its just-allocated, unowned state so the
// NodePool can hand it out again.
func (n *Node) reset() {
	n.x, n.y = 0, 0
	n.color = board.Empty
	n.captured = 0
	n.prior = 0
	n.bd = nil
	if n.ev != nil {
		n.ev.Reset()
	} else {
		n.ev = &infer.Evaluator{}
	}
	if n.children == nil {
		n.children = make(map[int]naughty)
	} else {
		for k := range n.children {
			delete(n.children, k)
		}
	}
	n.policies = n.policies[:0]
	n.queue = n.queue[:0]
	if n.queued == nil {
		n.queued = make(map[int]bool)
	} else {
		for k := range n.queued {
			delete(n.queued, k)
		}
	}
	n.visits = 0
	n.playouts = 0
	n.valueSum = 0
	n.count = 0
	n.inUse = true
}

// ID returns the node's pool index, stable for the node's lifetime between
// allocation and release.
func (n *Node) ID() naughty { return n.id }

// Move returns the coordinate this node's own move was played at.
func (n *Node) Move() board.Coord { return board.Coord{X: n.x, Y: n.y} }

// Color returns the color that played this node's move.
func (n *Node) Color() board.Color { return n.color }

// Captured returns the number of stones this node's move captured.
func (n *Node) Captured() int { return n.captured }

// Prior returns the policy prior this node's move was expanded with.
func (n *Node) Prior() float32 { return n.prior }

// Board exposes the node's owned board, e.g. for feature-tensor or
// candidate reporting.
func (n *Node) Board() *board.Board { return n.bd }

// Visits returns the node's selection count: the number of times a
// descending worker has stepped into this node.
func (n *Node) Visits() uint32 {
	n.valueMu.RLock()
	defer n.valueMu.RUnlock()
	return n.visits
}

// Playouts returns the number of leaf evaluations that have completed
// somewhere below (or at) this node.
func (n *Node) Playouts() uint32 {
	n.valueMu.RLock()
	defer n.valueMu.RUnlock()
	return n.playouts
}

// Count returns the number of successful backpropagations that reached this
// node; a count of 0 means the node has never received a real leaf value,
// which is what drives the sentinel-priority rule.
func (n *Node) Count() uint32 {
	n.valueMu.RLock()
	defer n.valueMu.RUnlock()
	return n.count
}

// MeanValue returns the accumulated backpropagated value divided by count,
// in the fixed Black-relative convention every Node stores its accumulator
// in (see pucbPriority and the other rules in select.go for where color is
// applied). Zero when count==0.
func (n *Node) MeanValue() float32 {
	n.valueMu.RLock()
	defer n.valueMu.RUnlock()
	return n.meanValueLocked()
}

func (n *Node) meanValueLocked() float32 {
	if n.count == 0 {
		return 0
	}
	return n.valueSum / float32(n.count)
}

// LCB is the lower-confidence-bound spec.md §4.3 defines: Q_c minus a
// visit-shrinking margin, both expressed relative to this node's color so
// that "robust" always means "good for the side that played this move".
func (n *Node) LCB() float32 {
	n.valueMu.RLock()
	defer n.valueMu.RUnlock()
	q := n.meanValueLocked()
	margin := 1.96 * 0.5 / math32.Sqrt(float32(n.visits)+1)
	return float32(n.color)*q - margin
}

// EvaluatorValue returns the last raw value this node's Evaluator produced
// (side-to-move relative), used for leaf results and for cancelling a
// branch under evalLeafOnly.
func (n *Node) EvaluatorValue() float32 { return n.ev.Value() }

// updateValue adds a Black-relative value to the accumulator and increments
// count; used on the way back up a descent.
func (n *Node) updateValue(v float32) {
	n.valueMu.Lock()
	n.valueSum += v
	n.count++
	n.valueMu.Unlock()
}

// cancelValue undoes a previous updateValue, used by the evalLeafOnly
// branch-birth compensation.
func (n *Node) cancelValue(v float32) {
	n.valueMu.Lock()
	n.valueSum -= v
	if n.count > 0 {
		n.count--
	}
	n.valueMu.Unlock()
}

// addPlayouts credits delta leaf evaluations to this node.
func (n *Node) addPlayouts(delta uint32) {
	n.valueMu.Lock()
	n.playouts += delta
	n.valueMu.Unlock()
}

// Children returns a snapshot of the node's currently materialized
// children, for reporting (getCandidates) and for the selection rule.
func (n *Node) Children() []*Node {
	n.evalMu.RLock()
	defer n.evalMu.RUnlock()
	out := make([]*Node, 0, len(n.children))
	for _, id := range n.children {
		out = append(out, n.pool.get(id))
	}
	return out
}

// ChildIDs is like Children but returns pool indices, used internally where
// a snapshot of ids (rather than pointers) is more convenient.
func (n *Node) ChildIDs() []naughty {
	n.evalMu.RLock()
	defer n.evalMu.RUnlock()
	out := make([]naughty, 0, len(n.children))
	for _, id := range n.children {
		out = append(out, id)
	}
	return out
}

// HasChildren reports whether this node has any materialized child.
func (n *Node) HasChildren() bool {
	n.evalMu.RLock()
	defer n.evalMu.RUnlock()
	return len(n.children) > 0
}

// FindChild returns the materialized child at (x, y), or Nil.
func (n *Node) FindChild(x, y int) naughty {
	n.evalMu.RLock()
	defer n.evalMu.RUnlock()
	id, ok := n.children[cellKey(n.bd, x, y)]
	if !ok {
		return Nil
	}
	return id
}

// Policies returns a snapshot of the parent's raw evaluator-derived
// candidate list, e.g. for getCandidates' "Policy-network best move"
// fallback.
func (n *Node) Policies() []Policy {
	n.evalMu.RLock()
	defer n.evalMu.RUnlock()
	out := make([]Policy, len(n.policies))
	copy(out, n.policies)
	return out
}

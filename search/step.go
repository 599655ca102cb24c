package search

import (
	"context"
	"math/rand"

	"github.com/ishigo/ishi/infer"
)

// Step implements spec.md §4.3's per-node evaluate() operation: one call
// per node visited along a descent. The very first visit runs the node's
// Evaluator and returns a leaf result; a terminal node (no legal
// candidates) does the same. Otherwise the node either drains its
// expansion FIFO or picks a fresh candidate to expand, and returns it as
// the next node to descend into; if none can be materialized (width
// reached), it falls back to selecting among existing children.
func (n *Node) Step(ctx context.Context, proc *infer.Processor, cfg Config, rng *rand.Rand) (Result, error) {
	// evalMu is taken before the visit is counted and, on a first visit,
	// held until the policies are loaded, so a concurrent visitor waits for
	// the evaluation instead of mistaking the node for a terminal one.
	n.evalMu.Lock()
	n.valueMu.Lock()
	n.visits++
	firstVisit := n.visits == 1
	n.valueMu.Unlock()

	if firstVisit {
		err := n.ev.Evaluate(ctx, proc, n.bd, n.color)
		if err == nil {
			n.loadPolicies()
		}
		n.evalMu.Unlock()
		if err != nil {
			return Result{}, err
		}
		n.addPlayouts(1)
		return Result{Next: Nil, Value: n.ev.Value(), Playouts: 1}, nil
	}
	n.evalMu.Unlock()

	if n.policyCount() == 0 {
		n.addPlayouts(1)
		return Result{Next: Nil, Value: n.ev.Value(), Playouts: 1}, nil
	}

	childrenBefore := n.childCount()
	childID, born, err := n.selectOrExpand(cfg, rng)
	if err != nil {
		return Result{}, err
	}
	if childID != Nil {
		if born && cfg.EvalLeafOnly && childrenBefore == 0 {
			return Result{Next: childID, Value: 0, Playouts: -1}, nil
		}
		return Result{Next: childID, Value: 0, Playouts: 0}, nil
	}

	best := n.selectChild(cfg)
	if best == Nil {
		n.addPlayouts(1)
		return Result{Next: Nil, Value: n.ev.Value(), Playouts: 1}, nil
	}
	return Result{Next: best, Value: 0, Playouts: 0}, nil
}

// Descend walks from root following Step calls until it reaches a leaf
// result, applying cfg only at the root and Config.deeper() at every level
// below it, per spec.md's "root-only settings" rule. It returns the full
// path (root first) and the final Result, so the caller (Player) can
// backpropagate or cancel along path.
func Descend(ctx context.Context, proc *infer.Processor, pool *NodePool, rootID naughty, cfg Config, rng *rand.Rand) ([]naughty, Result, error) {
	path := make([]naughty, 0, 64)
	cur := pool.get(rootID)
	path = append(path, rootID)
	depth := 0

	for {
		effective := cfg
		if depth > 0 {
			effective = cfg.deeper()
		}
		res, err := cur.Step(ctx, proc, effective, rng)
		if err != nil {
			return path, Result{}, err
		}
		if res.Next == Nil {
			return path, res, nil
		}
		path = append(path, res.Next)
		if res.Playouts == -1 {
			return path, res, nil
		}
		cur = pool.get(res.Next)
		depth++
	}
}

// Backpropagate applies a leaf Result to every node on path, converting the
// leaf's side-to-move-relative value into the fixed Black-relative
// convention every Node's accumulator is stored in (absolute = value *
// leafColor), then adding it at every node on path and the leaf's playout
// at every ancestor (the leaf counted its own playout in Step).
func Backpropagate(pool *NodePool, path []naughty, res Result) {
	if res.Playouts == -1 {
		cancelBranch(pool, path)
		return
	}
	leaf := pool.get(path[len(path)-1])
	absolute := res.Value * float32(leaf.Color())
	for i, id := range path {
		node := pool.get(id)
		node.updateValue(absolute)
		if i < len(path)-1 {
			node.addPlayouts(uint32(res.Playouts))
		}
	}
	pool.log("backprop leaf=%d depth=%d value=%f", leaf.ID(), len(path), absolute)
}

// cancelBranch implements spec.md §9 design note 4: when a node's first
// child is born under evalLeafOnly, the value that node's own single
// -continuation evaluation speculatively contributed to every ancestor (via
// an earlier Backpropagate call, back when this node still looked like a
// leaf) must be removed, since only true leaves should count toward Q. The
// compensation uses the node's *current* Evaluator value rather than
// whatever value was actually added at the time, which is the accepted
// approximation the design note describes: if another worker has since
// updated the Evaluator, the cancellation is off by that drift.
func cancelBranch(pool *NodePool, path []naughty) {
	parent := pool.get(path[len(path)-2])
	absolute := parent.EvaluatorValue() * float32(parent.Color())
	for _, id := range path[:len(path)-1] {
		pool.get(id).cancelValue(absolute)
	}
}

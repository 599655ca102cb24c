package search

import (
	"math"
	"math/rand"

	"github.com/chewxy/math32"
)

// gumbel draws one sample from a Gumbel(0, scale) distribution via the
// standard inverse-CDF trick: -log(-log(U)), U ~ Uniform(0,1). scale==0
// short-circuits to exactly 0 rather than risking log(0) from a degenerate
// rng draw.
func gumbel(rng *rand.Rand, scale float32) float32 {
	if scale == 0 {
		return 0
	}
	u := rng.Float64()
	for u <= 0 || u >= 1 {
		u = rng.Float64()
	}
	return scale * float32(-math.Log(-math.Log(u)))
}

// winChance converts a node's mean backpropagated value (Black-relative)
// into the probability, from the *opposite* side's perspective, that spec.md's
// expansion rule uses to decide how much to sharpen or flatten the prior
// distribution: winChance = (parent.meanValue * OPPOSITE(parent.color))/2
// + 0.5.
func winChance(n *Node) float32 {
	return n.MeanValue()*float32(n.color.Opposite())/2 + 0.5
}

// temperaturePower implements spec.md's win-chance-adjusted sharpening
// exponent: p' = prior^temperaturePower, temperaturePower = winChance +
// (1/temperature)*(1-winChance). A parent that is losing (low winChance)
// sharpens toward 1/temperature; a parent that is winning flattens toward
// 1 (uniform-er).
func temperaturePower(n *Node, temperature float32) float32 {
	wc := winChance(n)
	return wc + (1/temperature)*(1-wc)
}

// pickExpansion implements the "temperature- and noise-adjusted priority"
// half of spec.md's expansion rule: among the parent's policy entries not
// yet expanded-or-queued, find the one with the highest
// prior^temperaturePower * exp(gumbel), where "not yet expanded" (type 1)
// always dominates "already present" (type 0) regardless of score. Must be
// called with evalMu held for writing. Returns -1 if expansion is not
// allowed right now (width or policy-count cap reached).
func (n *Node) pickExpansion(cfg Config, rng *rand.Rand) int {
	inFlight := len(n.children) + len(n.queue)
	if inFlight >= len(n.policies) {
		return -1
	}
	if cfg.Width > 0 && inFlight >= cfg.Width {
		return -1
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 1
	}
	power := temperaturePower(n, temperature)

	noise := cfg.Noise
	if len(n.policies) <= 4 {
		noise = 0
	}

	best := -1
	bestType := -1
	bestScore := math32.Inf(-1)
	for i, p := range n.policies {
		_, expanded := n.children[cellKey(n.bd, p.X, p.Y)]
		queued := n.queued[i]
		typ := 1
		if expanded || queued {
			typ = 0
		}

		adjusted := math32.Pow(p.Prior, power) * math32.Exp(gumbel(rng, noise))
		if typ > bestType || (typ == bestType && adjusted > bestScore) {
			bestType = typ
			bestScore = adjusted
			best = i
		}
	}
	return best
}

// materialize turns policies[idx] into a real child node, registering it in
// n.children. Must be called with evalMu held for writing.
func (n *Node) materialize(idx int) (naughty, error) {
	p := &n.policies[idx]
	child, err := n.pool.NewChild(n, p.X, p.Y, p.Prior)
	if err != nil {
		return Nil, err
	}
	n.children[cellKey(n.bd, p.X, p.Y)] = child.id
	return child.id, nil
}

// selectOrExpand implements the FIFO-first half of spec.md's coordinated
// expansion design: drain the expansion queue before considering a brand
// new candidate, so that under width>0 many racing workers still cover
// siblings in submission order rather than all piling onto whichever
// candidate looks best right now. born is true for every non-Nil child
// returned, since only a freshly materialized child is ever returned; when
// the pick is already expanded or queued, or expansion is capped, the
// result is Nil and the caller falls back to selecting among existing
// children.
func (n *Node) selectOrExpand(cfg Config, rng *rand.Rand) (child naughty, born bool, err error) {
	n.evalMu.Lock()
	defer n.evalMu.Unlock()

	if len(n.queue) > 0 {
		idx := n.queue[0]
		n.queue = n.queue[1:]
		delete(n.queued, idx)
		id, err := n.materialize(idx)
		if err != nil {
			return Nil, false, err
		}
		return id, true, nil
	}

	idx := n.pickExpansion(cfg, rng)
	if idx < 0 {
		return Nil, false, nil
	}
	n.policies[idx].VisitsFromParent++

	_, expanded := n.children[cellKey(n.bd, n.policies[idx].X, n.policies[idx].Y)]
	if expanded || n.queued[idx] {
		return Nil, false, nil
	}

	n.queue = append(n.queue, idx)
	n.queued[idx] = true

	// Immediately drain the FIFO we just appended to: the queue was empty
	// on entry to this branch and evalMu is held throughout, so it holds
	// exactly one entry and this always materializes the candidate we just
	// picked.
	next := n.queue[0]
	n.queue = n.queue[1:]
	delete(n.queued, next)
	id, err := n.materialize(next)
	if err != nil {
		return Nil, false, err
	}
	return id, true, nil
}

// loadPolicies copies the evaluator's filtered candidate list into the
// node's Policy slice, run exactly once per node right after its first
// (leaf-defining) evaluation. Must be called with evalMu held for writing.
func (n *Node) loadPolicies() {
	entries := n.ev.Policies()
	n.policies = make([]Policy, len(entries))
	for i, e := range entries {
		n.policies[i] = Policy{X: e.X, Y: e.Y, Prior: e.Prior}
	}
}

func (n *Node) policyCount() int {
	n.evalMu.RLock()
	defer n.evalMu.RUnlock()
	return len(n.policies)
}

// childCount reports how many children this node has ever materialized,
// used by the evalLeafOnly branch-birth check ("this is the parent's first
// child being born").
func (n *Node) childCount() int {
	n.evalMu.RLock()
	defer n.evalMu.RUnlock()
	return len(n.children)
}

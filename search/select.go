package search

import "github.com/chewxy/math32"

// pucbPriority implements spec.md's PUCB rule:
//
//	Q_c + 2 * c_puct * prior_c * sqrt(N) / (1 + visits_c)
//	c_puct = log((1 + N + 19652) / 19652) + 1.25
//
// Q_c is the child's mean value expressed relative to the child's own
// color, so "good for me" is positive from the parent's point of view
// regardless of which side the child represents.
func pucbPriority(parentVisits uint32, child *Node) float32 {
	if child.Count() == 0 {
		return sentinelPriority
	}
	n := float32(parentVisits)
	cPuct := math32.Log((1+n+19652)/19652) + 1.25
	q := child.MeanValue() * float32(child.color)
	visits := float32(child.Visits())
	return q + 2*cPuct*child.prior*math32.Sqrt(n)/(1+visits)
}

// ucb1Priority implements the classic bandit bound with no prior term:
// Q_c + 0.5 * sqrt(log(N) / (visits_c + 1)).
func ucb1Priority(parentVisits uint32, child *Node) float32 {
	if child.Count() == 0 {
		return sentinelPriority
	}
	n := float32(parentVisits)
	q := child.MeanValue() * float32(child.color)
	visits := float32(child.Visits())
	return q + 0.5*math32.Sqrt(math32.Log(n)/(visits+1))
}

// equallyPriority implements the Gumbel-root even-sibling-coverage variant:
// 1 / (visits_c + 1 - 0.5*Q_c), which preferentially revisits under-sampled,
// higher-valued children.
func equallyPriority(child *Node) float32 {
	if child.Count() == 0 {
		return sentinelPriority
	}
	q := child.MeanValue() * float32(child.color)
	visits := float32(child.Visits())
	return 1 / (visits + 1 - 0.5*q)
}

// priority dispatches to the configured selection rule.
func priority(cfg Config, parentVisits uint32, child *Node) float32 {
	switch {
	case cfg.Equally:
		return equallyPriority(child)
	case cfg.UseUcb1:
		return ucb1Priority(parentVisits, child)
	default:
		return pucbPriority(parentVisits, child)
	}
}

// selectChild picks the materialized child with the highest priority under
// cfg's selection rule; Nil if the node has no materialized children.
func (n *Node) selectChild(cfg Config) naughty {
	kids := n.ChildIDs()
	if len(kids) == 0 {
		return Nil
	}
	parentVisits := n.Visits()

	best := Nil
	bestPriority := math32.Inf(-1)
	for _, id := range kids {
		child := n.pool.get(id)
		p := priority(cfg, parentVisits, child)
		if p > bestPriority {
			bestPriority = p
			best = id
		}
	}
	return best
}

// BestChild is selectChild exported for callers that need the same rule
// outside a descent.
func (n *Node) BestChild(cfg Config) naughty { return n.selectChild(cfg) }

// BestByVisits returns the most-visited materialized child, used by
// GetVariations to build the principal variation independent of whichever
// selection rule drove the search.
func (n *Node) BestByVisits() naughty {
	kids := n.ChildIDs()
	best := Nil
	var bestVisits uint32
	for _, id := range kids {
		child := n.pool.get(id)
		v := child.Visits()
		if best == Nil || v > bestVisits {
			bestVisits = v
			best = id
		}
	}
	return best
}

// BestByLCB returns the materialized child with the highest LCB, the
// "robust child" criterion spec.md §6 names as one of the two candidate
// -selection policies (criterion=lcb).
func (n *Node) BestByLCB() naughty {
	kids := n.ChildIDs()
	best := Nil
	bestLCB := math32.Inf(-1)
	for _, id := range kids {
		child := n.pool.get(id)
		lcb := child.LCB()
		if best == Nil || lcb > bestLCB {
			bestLCB = lcb
			best = id
		}
	}
	return best
}

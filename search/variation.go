package search

import "github.com/ishigo/ishi/board"

// GetVariations returns the principal variation starting from this node's
// own move, followed recursively by the most-visited child's move, and so
// on until a node with no materialized children is reached.
func (n *Node) GetVariations(pool *NodePool) []board.Coord {
	var out []board.Coord
	cur := n
	for {
		out = append(out, cur.Move())
		id := cur.BestByVisits()
		if id == Nil {
			return out
		}
		cur = pool.get(id)
	}
}

package kdtree

// Stats summarizes the shape of a tree.
type Stats struct {
	Renderables  int     `json:"renderables"`
	Nodes        int     `json:"nodes"`
	Leaves       int     `json:"leaves"`
	EmptyNodes   int     `json:"empty_nodes"`
	MaxDepth     int     `json:"max_depth"`
	AvgLeafDepth float64 `json:"avg_leaf_depth"`
	// References counts renderables over all leaves. It exceeds
	// Renderables when some of them straddle split planes.
	References int `json:"references"`
}

// Stats walks the tree and collects its statistics.
func (t *Tree) Stats() Stats {
	s := Stats{Renderables: len(t.items)}
	depthSum := 0

	t.Walk(func(n *Node) bool {
		s.Nodes++
		if n.depth > s.MaxDepth {
			s.MaxDepth = n.depth
		}

		switch {
		case n.IsLeaf():
			s.Leaves++
			s.References += len(n.contained)
			depthSum += n.depth
		case n.left == nil && n.right == nil:
			s.EmptyNodes++
		}
		return true
	})

	if s.Leaves > 0 {
		s.AvgLeafDepth = float64(depthSum) / float64(s.Leaves)
	}
	return s
}

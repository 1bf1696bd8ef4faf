package analyzer

// topoOrder runs Kahn's algorithm over the CFG (spec §4.4, "Topological
// order"). Ready nodes are dequeued in insertion order (the order they
// became ready, seeded by c.Nodes' source order), so two analyses over
// equal inputs produce byte-identical orders. When the returned order is
// shorter than the node set, the graph has a cycle; cycleNodes lists every
// node still carrying positive in-degree.
func topoOrder(c *CFG) (order []string, cycleNodes []string) {
	indeg := make(map[string]int, len(c.Nodes))
	for _, n := range c.Nodes {
		indeg[n] = 0
	}
	for _, e := range c.Edges {
		indeg[e.To]++
	}

	var queue []string
	for _, n := range c.Nodes {
		if indeg[n] == 0 {
			queue = append(queue, n)
		}
	}

	visited := make(map[string]bool, len(c.Nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n] {
			continue
		}
		visited[n] = true
		order = append(order, n)
		for _, m := range c.adjOut[n] {
			indeg[m]--
			if indeg[m] == 0 {
				queue = append(queue, m)
			}
		}
	}

	if len(order) != len(c.Nodes) {
		for _, n := range c.Nodes {
			if !visited[n] {
				cycleNodes = append(cycleNodes, n)
			}
		}
	}
	return order, cycleNodes
}

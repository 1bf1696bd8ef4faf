package analyzer

import (
	flowast "github.com/flowgraph/flowc/internal/ast"
)

// Chain is a maximal sequential run of branching nodes flattened into one
// accumulated guard instead of nested if/else (spec §4.4 "Chain
// detection", §4.7 "Chain head").
type Chain struct {
	Members []string
}

// detectChains finds every maximal chain: a path through branching nodes
// where each node's failure route has no branching successor and its
// success route leads to exactly one other branching node.
func detectChains(c *CFG, branching map[string]bool, next map[string]string) []Chain {
	hasIncoming := map[string]bool{}
	for _, v := range next {
		hasIncoming[v] = true
	}

	var heads []string
	for _, n := range c.Nodes {
		if branching[n] && next[n] != "" && !hasIncoming[n] {
			heads = append(heads, n)
		}
	}

	var chains []Chain
	for _, h := range heads {
		members := []string{h}
		cur := h
		for {
			nx, ok := next[cur]
			if !ok {
				break
			}
			members = append(members, nx)
			cur = nx
		}
		if len(members) >= 2 {
			chains = append(chains, Chain{Members: members})
		}
	}
	return chains
}

// chainSuccessors computes, for every branching node, the unique next
// chain member reached via its success route when its failure route has
// no branching successor at all.
func chainSuccessors(w *flowast.Workflow, c *CFG, branching map[string]bool) map[string]string {
	next := map[string]string{}
	for b := range branching {
		succ := nextBranching(w, c, branching, b, flowast.PortOnSuccess)
		fail := nextBranching(w, c, branching, b, flowast.PortOnFailure)
		if succ != "" && fail == "" {
			next[b] = succ
		}
	}
	return next
}

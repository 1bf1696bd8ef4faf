package analyzer

import (
	flowast "github.com/flowgraph/flowc/internal/ast"
)

// Regions holds the branch region computed for one branching node's
// success and failure routes (spec §4.4, "Branching classification").
type Regions struct {
	Success []string
	Failure []string
}

// isBranching reports whether instanceID's type emits a control-flow
// output (success, failure, or an explicit STEP output) that has outgoing
// connections (spec §4.4).
func isBranching(w *flowast.Workflow, instanceID string) bool {
	nt, ok := w.InstanceType(instanceID)
	if !ok {
		return false
	}
	for _, out := range nt.Outputs {
		if !out.IsControlFlow {
			continue
		}
		if len(w.ConnectionsFrom(instanceID, out.Name)) > 0 {
			return true
		}
	}
	return false
}

// branchingSet computes isBranching for every node in the CFG.
func branchingSet(w *flowast.Workflow, c *CFG) map[string]bool {
	out := map[string]bool{}
	for _, n := range c.Nodes {
		if n == flowast.Start || n == flowast.Exit {
			continue
		}
		if isBranching(w, n) {
			out[n] = true
		}
	}
	return out
}

// branchRegions computes the Success/Failure region for every branching
// node: the set of non-branching descendants reachable via that route,
// excluding Start/Exit and stopping at other branching nodes (spec §4.4).
func branchRegions(w *flowast.Workflow, c *CFG, branching map[string]bool) map[string]*Regions {
	regions := map[string]*Regions{}
	for n := range branching {
		regions[n] = &Regions{
			Success: regionFrom(w, c, branching, n, flowast.PortOnSuccess),
			Failure: regionFrom(w, c, branching, n, flowast.PortOnFailure),
		}
	}
	return regions
}

func regionFrom(w *flowast.Workflow, c *CFG, branching map[string]bool, node, port string) []string {
	var start []string
	for _, conn := range w.ConnectionsFrom(node, port) {
		if conn.To.Scope != "" {
			continue
		}
		if c.has(conn.To.Node) {
			start = append(start, conn.To.Node)
		}
	}
	if len(start) == 0 {
		return nil
	}

	seen := map[string]bool{}
	var region []string
	queue := append([]string(nil), start...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == flowast.Start || n == flowast.Exit || seen[n] {
			continue
		}
		seen[n] = true
		if branching[n] {
			continue // stop at other branching nodes; they are not region members
		}
		region = append(region, n)
		queue = append(queue, c.adjOut[n]...)
	}
	return region
}

// nextBranching returns the unique branching node reached by following
// node's port out past any non-branching region members, or "" if there
// is none or more than one distinct candidate (used by chain detection).
func nextBranching(w *flowast.Workflow, c *CFG, branching map[string]bool, node, port string) string {
	seen := map[string]bool{}
	var queue []string
	for _, conn := range w.ConnectionsFrom(node, port) {
		if conn.To.Scope == "" && c.has(conn.To.Node) {
			queue = append(queue, conn.To.Node)
		}
	}
	found := map[string]bool{}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == flowast.Start || n == flowast.Exit || seen[n] {
			continue
		}
		seen[n] = true
		if branching[n] {
			found[n] = true
			continue
		}
		queue = append(queue, c.adjOut[n]...)
	}
	if len(found) != 1 {
		return ""
	}
	for k := range found {
		return k
	}
	return ""
}

// regionMembership counts, for every node, how many distinct branch
// regions (across all branching nodes' Success/Failure sets) it belongs
// to. Spec §4.4: a node landing in more than one region is promoted to
// top level.
func regionMembership(regions map[string]*Regions) map[string]int {
	count := map[string]int{}
	for _, r := range regions {
		for _, n := range r.Success {
			count[n]++
		}
		for _, n := range r.Failure {
			count[n]++
		}
	}
	return count
}

// removeMultiRegion strips any node counted in more than one region from
// every region's member list, returning the set of removed node IDs
// (executed at top level per spec §4.4).
func removeMultiRegion(regions map[string]*Regions, membership map[string]int) map[string]bool {
	multi := map[string]bool{}
	for n, count := range membership {
		if count > 1 {
			multi[n] = true
		}
	}
	if len(multi) == 0 {
		return multi
	}
	for _, r := range regions {
		r.Success = filterOut(r.Success, multi)
		r.Failure = filterOut(r.Failure, multi)
	}
	return multi
}

func filterOut(list []string, drop map[string]bool) []string {
	if len(drop) == 0 {
		return list
	}
	out := list[:0:0]
	for _, n := range list {
		if !drop[n] {
			out = append(out, n)
		}
	}
	return out
}

// regionOwner returns which branching node's region (and which side) a
// non-branching instance belongs to, if any.
func regionOwner(regions map[string]*Regions) (owner map[string]string, side map[string]string) {
	owner = map[string]string{}
	side = map[string]string{}
	for b, r := range regions {
		for _, n := range r.Success {
			owner[n] = b
			side[n] = flowast.PortOnSuccess
		}
		for _, n := range r.Failure {
			owner[n] = b
			side[n] = flowast.PortOnFailure
		}
	}
	return owner, side
}

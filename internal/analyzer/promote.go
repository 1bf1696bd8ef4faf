package analyzer

import (
	flowast "github.com/flowgraph/flowc/internal/ast"
)

// computePromotions implements spec §4.4's "Promotion": a node inside a
// branch region with a data dependency on a node outside that region (and
// not on its own branch parent) is promoted to top level. For every
// promoted node whose execute-port source is itself a branching node, that
// branching ancestor is marked as needing a `_success` flag so the
// promoted node's top-level guard can reference it.
func computePromotions(w *flowast.Workflow, regions map[string]*Regions, owner, side map[string]string, branching map[string]bool) (promoted map[string]bool, successFlagNeeded map[string]bool) {
	promoted = map[string]bool{}
	successFlagNeeded = map[string]bool{}

	memberSet := func(b, route string) map[string]bool {
		r, ok := regions[b]
		if !ok {
			return nil
		}
		set := map[string]bool{}
		list := r.Success
		if route == flowast.PortOnFailure {
			list = r.Failure
		}
		for _, n := range list {
			set[n] = true
		}
		return set
	}

	for n, b := range owner {
		route := side[n]
		set := memberSet(b, route)
		isPromoted := false
		for _, conn := range w.ConnectionsTo(n, "") {
			if conn.To.Scope != "" || conn.From.Scope != "" {
				continue
			}
			src := conn.From.Node
			if src == flowast.Start || src == n || src == b {
				continue
			}
			if set[src] {
				continue // dependency within the same region is not external
			}
			isPromoted = true
			if branching[src] && conn.To.Port == flowast.PortExecute {
				successFlagNeeded[src] = true
			}
		}
		if isPromoted {
			promoted[n] = true
		}
	}
	return promoted, successFlagNeeded
}

// applyPromotions removes every promoted node from its owning region,
// mirroring removeMultiRegion's shape.
func applyPromotions(regions map[string]*Regions, promoted map[string]bool) {
	if len(promoted) == 0 {
		return
	}
	for _, r := range regions {
		r.Success = filterOut(r.Success, promoted)
		r.Failure = filterOut(r.Failure, promoted)
	}
}

package analyzer

import (
	flowast "github.com/flowgraph/flowc/internal/ast"
	flowerrors "github.com/flowgraph/flowc/pkg/errors"
)

// Analysis is everything the emitter reads off an analyzed workflow: the
// CFG, its topological order, branching/region/promotion/scope/chain
// classifications (spec §4.4).
type Analysis struct {
	cfg *CFG

	Order []string // Start..Exit, deterministic; nil if the graph has a cycle

	Branching         map[string]bool
	Regions           map[string]*Regions // keyed by branching instance ID
	RegionOwner       map[string]string   // non-branching instance -> owning branching instance
	RegionSide        map[string]string   // non-branching instance -> PortOnSuccess/PortOnFailure
	MultiRegion       map[string]bool     // instances removed from all regions, executed top-level
	Promoted          map[string]bool     // instances promoted out of their region
	SuccessFlagNeeded map[string]bool     // branching instances that must emit a `_success` local

	ScopeKind map[string]ScopeKind

	Chains     []Chain
	ChainOf    map[string]*Chain // member instance -> its chain
	ChainIndex map[string]int    // member instance -> position within its chain
}

// Analyze runs the full analyzer pipeline over a workflow (spec §4.4). It
// returns a *flowerrors.StructuralError when the CFG contains a cycle,
// naming every node still carrying unresolved in-degree (spec §8,
// boundary "a cycle of size 1 (self-edge) is detected and reported with
// that single name").
func Analyze(w *flowast.Workflow) (*Analysis, error) {
	scopeKind := classifyScopes(w)
	cfg := buildCFG(w, scopeKind)

	order, cycle := topoOrder(cfg)
	if len(cycle) > 0 {
		return nil, flowerrors.NewStructuralError("CYCLE", cycle, "cycle detected among these instances")
	}

	branching := branchingSet(w, cfg)
	regions := branchRegions(w, cfg, branching)

	membership := regionMembership(regions)
	multi := removeMultiRegion(regions, membership)

	owner, side := regionOwner(regions)
	promoted, flagsFromPromotion := computePromotions(w, regions, owner, side, branching)
	applyPromotions(regions, promoted)
	// Recompute ownership now that multi-region and promoted nodes have
	// been stripped, so the emitter's region membership queries reflect
	// the final, settled regions.
	owner, side = regionOwner(regions)

	next := chainSuccessors(w, cfg, branching)
	chains := detectChains(cfg, branching, next)

	successFlagNeeded := map[string]bool{}
	for b, r := range regions {
		if len(r.Success) > 0 || len(r.Failure) > 0 {
			successFlagNeeded[b] = true
		}
	}
	for b := range flagsFromPromotion {
		successFlagNeeded[b] = true
	}
	chainOf := map[string]*Chain{}
	chainIndex := map[string]int{}
	for i := range chains {
		ch := &chains[i]
		for pos, m := range ch.Members {
			chainOf[m] = ch
			chainIndex[m] = pos
			if pos < len(ch.Members)-1 {
				successFlagNeeded[m] = true
			}
		}
	}

	return &Analysis{
		cfg:               cfg,
		Order:             order,
		Branching:         branching,
		Regions:           regions,
		RegionOwner:       owner,
		RegionSide:        side,
		MultiRegion:       multi,
		Promoted:          promoted,
		SuccessFlagNeeded: successFlagNeeded,
		ScopeKind:         scopeKind,
		Chains:            chains,
		ChainOf:           chainOf,
		ChainIndex:         chainIndex,
	}, nil
}

// Successors returns the CFG's direct successors of a node, in the
// deterministic order edges were added.
func (a *Analysis) Successors(node string) []string {
	return append([]string(nil), a.cfg.adjOut[node]...)
}

// Predecessors returns the CFG's direct predecessors of a node.
func (a *Analysis) Predecessors(node string) []string {
	return append([]string(nil), a.cfg.adjIn[node]...)
}

// InCFG reports whether an instance participates in the top-level CFG
// (i.e. it is not a per-port scoped child).
func (a *Analysis) InCFG(id string) bool {
	return a.cfg.has(id)
}

// SortRegion re-sorts a branch region's members topologically on the
// sub-DAG restricted to that region (spec §4.7, "Ordering & tie-breaks").
// Members with no edge between them keep their relative Order position.
func (a *Analysis) SortRegion(members []string) []string {
	if len(members) < 2 {
		return append([]string(nil), members...)
	}
	inSet := make(map[string]bool, len(members))
	for _, m := range members {
		inSet[m] = true
	}
	indeg := make(map[string]int, len(members))
	for _, m := range members {
		indeg[m] = 0
	}
	for _, m := range members {
		for _, succ := range a.cfg.adjOut[m] {
			if inSet[succ] {
				indeg[succ]++
			}
		}
	}
	var queue []string
	for _, m := range members {
		if indeg[m] == 0 {
			queue = append(queue, m)
		}
	}
	var out []string
	visited := make(map[string]bool, len(members))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n] {
			continue
		}
		visited[n] = true
		out = append(out, n)
		for _, succ := range a.cfg.adjOut[n] {
			if !inSet[succ] {
				continue
			}
			indeg[succ]--
			if indeg[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}
	for _, m := range members {
		if !visited[m] {
			out = append(out, m) // defensive: region sub-DAG cycle should not occur post top-level cycle check
		}
	}
	return out
}

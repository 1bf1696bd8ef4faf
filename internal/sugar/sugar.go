// Package sugar detects, validates, and filters the round-trip `@path`/
// `@map` macros described in spec §3 and §4.5: compact annotations whose
// expansion is a set of ordinary connections.
package sugar

import (
	flowast "github.com/flowgraph/flowc/internal/ast"
)

// maxCandidateRoutes bounds the DFS route search (spec §4.5, "a bound on
// the number of candidate routes") so a densely-connected workflow cannot
// make detection run away.
const maxCandidateRoutes = 4096

// controlAdjacency is the `node -> {ok?, fail?}` adjacency spec §4.5
// describes: a port with more than one outgoing connection is marked
// "not pathable" by leaving its side absent.
type controlAdjacency struct {
	ok, fail     string
	okPathable   bool
	failPathable bool
}

func buildAdjacency(w *flowast.Workflow) map[string]*controlAdjacency {
	adj := map[string]*controlAdjacency{}
	get := func(node string) *controlAdjacency {
		a, ok := adj[node]
		if !ok {
			a = &controlAdjacency{}
			adj[node] = a
		}
		return a
	}

	okTargets := map[string][]string{}
	failTargets := map[string][]string{}
	for _, c := range w.Connections {
		if c.From.Scope != "" || c.To.Scope != "" {
			continue
		}
		switch c.From.Port {
		case flowast.PortOnSuccess, flowast.PortExecute:
			if c.From.Port == flowast.PortExecute && c.From.Node != flowast.Start {
				continue
			}
			okTargets[c.From.Node] = append(okTargets[c.From.Node], c.To.Node)
		case flowast.PortOnFailure:
			failTargets[c.From.Node] = append(failTargets[c.From.Node], c.To.Node)
		}
	}
	for node, targets := range okTargets {
		a := get(node)
		if len(targets) == 1 {
			a.ok = targets[0]
			a.okPathable = true
		}
	}
	for node, targets := range failTargets {
		a := get(node)
		if len(targets) == 1 {
			a.fail = targets[0]
			a.failPathable = true
		}
	}
	return adj
}

// Route is one Start-to-Exit candidate path discovered by detection.
type Route struct {
	Steps []flowast.PathStep
	Edges []flowast.Connection // the control-flow edges this route implies
}

// Detect enumerates Start-to-Exit routes through pathable control-flow
// edges and greedily covers them, longest first, without overlapping
// edges already implied by user-authored macros (spec §4.5, "Detection").
func Detect(w *flowast.Workflow) []flowast.PathMacro {
	adj := buildAdjacency(w)
	used := usedEdges(w)

	routes := enumerateRoutes(w, adj)
	// Longest route first; stable on discovery order for determinism.
	for i := 1; i < len(routes); i++ {
		for j := i; j > 0 && len(routes[j].Steps) > len(routes[j-1].Steps); j-- {
			routes[j], routes[j-1] = routes[j-1], routes[j]
		}
	}

	var macros []flowast.PathMacro
	for _, r := range routes {
		if !validDataPath(w, r.Steps) {
			continue
		}
		if overlaps(r.Edges, used) {
			continue
		}
		macros = append(macros, flowast.PathMacro{Steps: r.Steps})
		for _, e := range r.Edges {
			used[edgeKey(e)] = true
		}
	}
	return macros
}

func usedEdges(w *flowast.Workflow) map[string]bool {
	out := map[string]bool{}
	for _, m := range w.PathMacros {
		for _, e := range expandPath(m) {
			out[edgeKey(e)] = true
		}
	}
	return out
}

func edgeKey(c flowast.Connection) string {
	return c.From.Node + "." + c.From.Port + "->" + c.To.Node + "." + c.To.Port
}

func overlaps(edges []flowast.Connection, used map[string]bool) bool {
	for _, e := range edges {
		if used[edgeKey(e)] {
			return true
		}
	}
	return false
}

func enumerateRoutes(w *flowast.Workflow, adj map[string]*controlAdjacency) []Route {
	var routes []Route
	var visit func(node string, steps []flowast.PathStep, edges []flowast.Connection, onPath map[string]bool)
	visit = func(node string, steps []flowast.PathStep, edges []flowast.Connection, onPath map[string]bool) {
		if len(routes) >= maxCandidateRoutes {
			return
		}
		a := adj[node]
		if a == nil {
			return
		}
		tryRoute := func(target, route string, pathable bool) {
			if !pathable || onPath[target] {
				return
			}
			port := flowast.PortOnSuccess
			if route == "fail" {
				port = flowast.PortOnFailure
			}
			edge := flowast.Connection{
				From: flowast.PortRef{Node: node, Port: port},
				To:   flowast.PortRef{Node: target, Port: flowast.PortExecute},
			}
			nextSteps := append(append([]flowast.PathStep(nil), steps...), flowast.PathStep{Node: node, Route: route})
			nextEdges := append(append([]flowast.Connection(nil), edges...), edge)
			if target == flowast.Exit {
				routes = append(routes, Route{Steps: nextSteps, Edges: nextEdges})
				return
			}
			nextOnPath := map[string]bool{}
			for k := range onPath {
				nextOnPath[k] = true
			}
			nextOnPath[target] = true
			visit(target, nextSteps, nextEdges, nextOnPath)
		}
		tryRoute(a.ok, "ok", a.okPathable)
		tryRoute(a.fail, "fail", a.failPathable)
	}

	start := adj[flowast.Start]
	if start == nil {
		return nil
	}
	if start.okPathable && start.ok != flowast.Exit {
		visit(start.ok, nil, nil, map[string]bool{flowast.Start: true, start.ok: true})
	}
	return routes
}

// expandPath returns the connections a @path macro implies (spec §4.5,
// "Validation"): `Start.execute -> first.execute` at the head,
// `cur.{onSuccess|onFailure} -> next.execute` between hops, and
// `cur.{onSuccess|onFailure} -> Exit.{onSuccess|onFailure}` at the tail.
func expandPath(m flowast.PathMacro) []flowast.Connection {
	if len(m.Steps) == 0 {
		return nil
	}
	var out []flowast.Connection
	out = append(out, flowast.Connection{
		From: flowast.PortRef{Node: flowast.Start, Port: flowast.PortExecute},
		To:   flowast.PortRef{Node: m.Steps[0].Node, Port: flowast.PortExecute},
	})
	for i := 0; i < len(m.Steps)-1; i++ {
		cur := m.Steps[i]
		nxt := m.Steps[i+1]
		port := routePort(cur.Route)
		out = append(out, flowast.Connection{
			From: flowast.PortRef{Node: cur.Node, Port: port},
			To:   flowast.PortRef{Node: nxt.Node, Port: flowast.PortExecute},
		})
	}
	last := m.Steps[len(m.Steps)-1]
	port := routePort(last.Route)
	exitPort := flowast.PortOnSuccess
	if last.Route == "fail" {
		exitPort = flowast.PortOnFailure
	}
	out = append(out, flowast.Connection{
		From: flowast.PortRef{Node: last.Node, Port: port},
		To:   flowast.PortRef{Node: flowast.Exit, Port: exitPort},
	})
	return out
}

func routePort(route string) string {
	if route == "fail" {
		return flowast.PortOnFailure
	}
	return flowast.PortOnSuccess
}

// Valid reports whether a @path macro's implied edges all exist in the
// workflow's current connection set (spec §4.5, §8 property 7): every
// step's route denotes the control-flow edge leaving that step, and the
// last step's route denotes which Exit port it feeds.
func Valid(w *flowast.Workflow, m flowast.PathMacro) bool {
	return validDataPath(w, m.Steps)
}

func has(w *flowast.Workflow, c flowast.Connection) bool {
	for _, existing := range w.Connections {
		if existing == c {
			return true
		}
	}
	return false
}

func validDataPath(w *flowast.Workflow, steps []flowast.PathStep) bool {
	if len(steps) == 0 {
		return false
	}
	if !has(w, flowast.Connection{
		From: flowast.PortRef{Node: flowast.Start, Port: flowast.PortExecute},
		To:   flowast.PortRef{Node: steps[0].Node, Port: flowast.PortExecute},
	}) {
		return false
	}
	for i := 0; i < len(steps)-1; i++ {
		cur := steps[i]
		nxt := steps[i+1]
		port := routePort(cur.Route)
		if !has(w, flowast.Connection{
			From: flowast.PortRef{Node: cur.Node, Port: port},
			To:   flowast.PortRef{Node: nxt.Node, Port: flowast.PortExecute},
		}) {
			return false
		}
	}
	last := steps[len(steps)-1]
	exitPort := flowast.PortOnSuccess
	if last.Route == "fail" {
		exitPort = flowast.PortOnFailure
	}
	return has(w, flowast.Connection{From: flowast.PortRef{Node: last.Node, Port: routePort(last.Route)}, To: flowast.PortRef{Node: flowast.Exit, Port: exitPort}})
}

// FilterStale drops every @path macro whose implied edges no longer
// exist (spec §4.5, "Filtering") — run on every assemble pass.
func FilterStale(w *flowast.Workflow) {
	kept := w.PathMacros[:0:0]
	for _, m := range w.PathMacros {
		if Valid(w, m) {
			kept = append(kept, m)
		}
	}
	w.PathMacros = kept

	keptMaps := w.MapMacros[:0:0]
	for _, m := range w.MapMacros {
		if ValidMap(w, m) {
			keptMaps = append(keptMaps, m)
		}
	}
	w.MapMacros = keptMaps
}

// ValidMap reports whether a @map macro's source connection still exists.
// The macro's instance must also still be declared, and a ChildID (when
// the macro carries one) must name a live scope child.
func ValidMap(w *flowast.Workflow, m flowast.MapMacro) bool {
	if _, ok := w.Instance(m.InstanceID); !ok {
		return false
	}
	if !has(w, flowast.Connection{
		From: flowast.PortRef{Node: m.SourceNode, Port: m.SourcePort},
		To:   flowast.PortRef{Node: m.InstanceID, Port: "items"},
	}) {
		return false
	}
	if m.ChildID != "" {
		found := false
		for _, id := range w.ScopeChildren(m.InstanceID, "iteration") {
			if id == m.ChildID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

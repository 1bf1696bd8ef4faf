package ast

// Workflow is the full reconstructed graph for one host-language workflow
// function (spec §3). Node types are keyed by name; instances are kept in
// both a lookup map and an explicit order so source-order-sensitive
// operations (re-emission, port ordering ties) stay stable.
type Workflow struct {
	Name          string
	NodeTypes     map[string]*NodeType
	Instances     map[string]*NodeInstance
	InstanceOrder []string
	Connections   []Connection
	Inputs        []PortDef // ports exposed on the synthetic Start node
	Outputs       []PortDef // ports exposed on the synthetic Exit node
	Scopes        []ScopeBinding
	PathMacros    []PathMacro
	MapMacros     []MapMacro
	Async         bool
	UserSpecifiedAsync bool
	Options       WorkflowOptions
}

// New creates an empty workflow ready for incremental assembly.
func New(name string) *Workflow {
	return &Workflow{
		Name:      name,
		NodeTypes: map[string]*NodeType{},
		Instances: map[string]*NodeInstance{},
	}
}

// NodeType looks up a node type by name.
func (w *Workflow) NodeType(name string) (*NodeType, bool) {
	nt, ok := w.NodeTypes[name]
	return nt, ok
}

// Instance looks up a node instance by ID.
func (w *Workflow) Instance(id string) (*NodeInstance, bool) {
	inst, ok := w.Instances[id]
	return inst, ok
}

// InstanceType resolves an instance's node type, if both exist.
func (w *Workflow) InstanceType(id string) (*NodeType, bool) {
	inst, ok := w.Instances[id]
	if !ok {
		return nil, false
	}
	return w.NodeType(inst.Type)
}

// AddNodeType registers a node type, overwriting any previous definition
// with the same name.
func (w *Workflow) AddNodeType(nt *NodeType) {
	w.NodeTypes[nt.Name] = nt
}

// AddInstance appends a node instance, preserving source order. Re-adding
// an existing ID replaces it in place without disturbing order.
func (w *Workflow) AddInstance(inst *NodeInstance) {
	if _, exists := w.Instances[inst.ID]; !exists {
		w.InstanceOrder = append(w.InstanceOrder, inst.ID)
	}
	w.Instances[inst.ID] = inst
}

// RemoveInstance deletes an instance, any connections touching it, and any
// scope bindings naming it as a child. It does not remove the instance as a
// scope owner; callers that delete a scope-opening node must also drop its
// ScopeBindings explicitly.
func (w *Workflow) RemoveInstance(id string) {
	delete(w.Instances, id)
	for i, existing := range w.InstanceOrder {
		if existing == id {
			w.InstanceOrder = append(w.InstanceOrder[:i], w.InstanceOrder[i+1:]...)
			break
		}
	}
	kept := w.Connections[:0]
	for _, c := range w.Connections {
		if c.From.Node == id || c.To.Node == id {
			continue
		}
		kept = append(kept, c)
	}
	w.Connections = kept

	for si := range w.Scopes {
		children := w.Scopes[si].Children[:0]
		for _, c := range w.Scopes[si].Children {
			if c != id {
				children = append(children, c)
			}
		}
		w.Scopes[si].Children = children
	}
}

// AddConnection appends a directed edge. Duplicate edges are allowed to be
// appended by callers that have already deduplicated; AddConnection itself
// performs no dedup so assembler round-trip ordering stays deterministic.
func (w *Workflow) AddConnection(c Connection) {
	w.Connections = append(w.Connections, c)
}

// RemoveConnection deletes the first connection exactly matching from/to.
func (w *Workflow) RemoveConnection(c Connection) bool {
	for i, existing := range w.Connections {
		if existing == c {
			w.Connections = append(w.Connections[:i], w.Connections[i+1:]...)
			return true
		}
	}
	return false
}

// ConnectionsFrom returns every connection whose source matches node/port
// (port "" matches any port).
func (w *Workflow) ConnectionsFrom(node, port string) []Connection {
	var out []Connection
	for _, c := range w.Connections {
		if c.From.Node == node && (port == "" || c.From.Port == port) {
			out = append(out, c)
		}
	}
	return out
}

// ConnectionsTo returns every connection whose destination matches
// node/port (port "" matches any port).
func (w *Workflow) ConnectionsTo(node, port string) []Connection {
	var out []Connection
	for _, c := range w.Connections {
		if c.To.Node == node && (port == "" || c.To.Port == port) {
			out = append(out, c)
		}
	}
	return out
}

// CreateScope registers (or replaces) the child-ID list for one scope
// opened by owner.
func (w *Workflow) CreateScope(owner, scope string, children []string) {
	for i := range w.Scopes {
		if w.Scopes[i].Owner == owner && w.Scopes[i].Scope == scope {
			w.Scopes[i].Children = children
			return
		}
	}
	w.Scopes = append(w.Scopes, ScopeBinding{Owner: owner, Scope: scope, Children: children})
}

// ScopeChildren returns the child instance IDs bound to owner/scope.
func (w *Workflow) ScopeChildren(owner, scope string) []string {
	for _, sb := range w.Scopes {
		if sb.Owner == owner && sb.Scope == scope {
			return sb.Children
		}
	}
	return nil
}

// ParentScope returns the owner/scope an instance is nested under, if any.
func (w *Workflow) ParentScope(id string) (owner, scope string, ok bool) {
	inst, exists := w.Instances[id]
	if !exists || inst.Config == nil || inst.Config.Parent == nil {
		return "", "", false
	}
	return inst.Config.Parent.ID, inst.Config.Parent.Scope, true
}

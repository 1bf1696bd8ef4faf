// Package ast is the immutable-by-convention data model for parsed workflow
// graphs: node types, instances, ports, connections, scopes, and sugar
// macros (spec §3).
package ast

// Reserved pseudo-node and port identifiers (spec §3, §6.2).
const (
	Start = "Start"
	Exit   = "Exit"

	PortExecute   = "execute"
	PortOnSuccess = "onSuccess"
	PortOnFailure = "onFailure"

	ScopedStart   = "start"
	ScopedSuccess = "success"
	ScopedFailure = "failure"
)

// DataType is the semantic type carried by a port (spec §3).
type DataType int

const (
	TString DataType = iota
	TNumber
	TBoolean
	TObject
	TArray
	TFunction
	TStep
	TAny
)

func (t DataType) String() string {
	switch t {
	case TString:
		return "STRING"
	case TNumber:
		return "NUMBER"
	case TBoolean:
		return "BOOLEAN"
	case TObject:
		return "OBJECT"
	case TArray:
		return "ARRAY"
	case TFunction:
		return "FUNCTION"
	case TStep:
		return "STEP"
	case TAny:
		return "ANY"
	default:
		return "ANY"
	}
}

// ExecuteWhen is a node's guard-combination strategy (spec §3, §4.7).
type ExecuteWhen int

const (
	Conjunction ExecuteWhen = iota
	Disjunction
	Custom
)

func (e ExecuteWhen) String() string {
	switch e {
	case Disjunction:
		return "DISJUNCTION"
	case Custom:
		return "CUSTOM"
	default:
		return "CONJUNCTION"
	}
}

// MergeStrategy governs how multiple incoming connections into one exit
// port coalesce (spec §4.7, §8 property 6). The core always applies the
// structural rule (STEP -> ||, data -> ??). MergeStrategy is recorded on
// PortDef, but no annotation sets it and the emitter does not read it, so
// a port's MergeFirst or MergeLast does not change that coalescing. This
// is an Open Question in spec.md (§9).
type MergeStrategy int

const (
	MergeDefault MergeStrategy = iota
	MergeFirst
	MergeLast
)

// Variant tags a node type's execution kind (spec §3).
type Variant int

const (
	VariantFunction Variant = iota
	VariantWorkflow
	VariantImportedWorkflow
	VariantMapIterator
)

func (v Variant) String() string {
	switch v {
	case VariantWorkflow:
		return "WORKFLOW"
	case VariantImportedWorkflow:
		return "IMPORTED_WORKFLOW"
	case VariantMapIterator:
		return "MAP_ITERATOR"
	default:
		return "FUNCTION"
	}
}

// PortDef is a single input or output port declaration on a node type
// (spec §3).
type PortDef struct {
	Name          string
	DataType      DataType
	HostType      string
	Schema        map[string]DataType
	Optional      bool
	Default       string
	HasDefault    bool
	Expression    bool
	Hidden        bool
	Failure       bool
	IsControlFlow bool
	Scope         string
	MergeStrategy MergeStrategy
	Order         int
	Label         string
	Description   string
}

// DefaultConfig is an instance-overridable pull-execution trigger carried
// by a node type (spec §3).
type DefaultConfig struct {
	TriggerPort string
	Label       string
	Description string
}

// NodeType is a reusable template referencing a host-language function
// (spec §3).
type NodeType struct {
	Name             string
	FunctionName     string
	Inputs           []PortDef
	Outputs          []PortDef
	HasSuccessPort   bool
	HasFailurePort   bool
	ExecuteWhen      ExecuteWhen
	IsAsync          bool
	Variant          Variant
	ScopeNames       []string
	Expression       bool
	ImportSource     string
	DefaultConfig    *DefaultConfig
	UserSpecifiedAsync bool
}

// Input looks up an input port definition by name.
func (n *NodeType) Input(name string) (PortDef, bool) {
	for _, p := range n.Inputs {
		if p.Name == name {
			return p, true
		}
	}
	return PortDef{}, false
}

// Output looks up an output port definition by name.
func (n *NodeType) Output(name string) (PortDef, bool) {
	for _, p := range n.Outputs {
		if p.Name == name {
			return p, true
		}
	}
	return PortDef{}, false
}

// OpensScope reports whether the node type declares the named scope, either
// via an explicit scope attribute or via scoped output ports (spec §4.4).
func (n *NodeType) OpensScope(name string) bool {
	for _, s := range n.ScopeNames {
		if s == name {
			return true
		}
	}
	for _, p := range n.Outputs {
		if p.Scope == name {
			return true
		}
	}
	return false
}

// HasScopedOutputs reports whether the node type has any output ports
// tagged with the given scope name — the test that distinguishes a
// per-port scope from a node-level scope (spec §4.4).
func (n *NodeType) HasScopedOutputs(scope string) bool {
	for _, p := range n.Outputs {
		if p.Scope == scope {
			return true
		}
	}
	return false
}

// Position is an instance's visual-editor coordinate, preserved for
// round-trip even though flowc does not interpret layout (spec §3, §1).
type Position struct {
	X, Y int
}

// Tag is a labeled, optionally-tooltipped instance tag.
type Tag struct {
	Label   string
	Tooltip string
}

// PullExecution marks an instance as lazily (pull) executed (spec §3).
type PullExecution struct {
	TriggerPort string
}

// ParentRef links an instance to the scope of an enclosing scoped node
// (spec §3).
type ParentRef struct {
	ID    string
	Scope string
}

// PortConfig is an instance-level override of a port's order/label/
// expression (spec §3).
type PortConfig struct {
	Order      int
	HasOrder   bool
	Label      string
	Expression string
}

// InstanceConfig carries all instance-level overrides (spec §3).
type InstanceConfig struct {
	Position         *Position
	Label            string
	Color            string
	Icon             string
	Tags             []Tag
	ExecuteWhen      *ExecuteWhen
	Ports            map[string]PortConfig
	PullExecution    *PullExecution
	Parent           *ParentRef
	Minimized        bool
}

// NodeInstance is a single vertex referencing a NodeType by name (spec §3).
type NodeInstance struct {
	ID     string
	Type   string
	Config *InstanceConfig
}

// PortRef identifies one endpoint of a connection (spec §3).
type PortRef struct {
	Node  string
	Port  string
	Scope string
}

// Connection is a directed edge between two typed ports (spec §3).
type Connection struct {
	From PortRef
	To   PortRef
}

// ScopeBinding maps one scope opened by an owning instance to its ordered
// child instance IDs (spec §3's "ordered list of scopes").
type ScopeBinding struct {
	Owner    string
	Scope    string
	Children []string
}

// PathStep is one hop of a @path sugar macro (spec §3).
type PathStep struct {
	Node  string
	Route string // "", "ok", or "fail"
}

// PathMacro is a round-trip-preserved @path sugar macro (spec §3, §4.5).
type PathMacro struct {
	Steps []PathStep
}

// MapMacro is a round-trip-preserved @map sugar macro (spec §3, §4.5).
type MapMacro struct {
	InstanceID string
	ChildID    string
	SourceNode string
	SourcePort string
	InputPort  string
	OutputPort string
}

// WorkflowOptions carries the workflow-level option tags (spec §6.1,
// §4.5) that the core preserves but never enforces: timeouts, retries,
// throttling, and cancellation/triggering sources are runtime concerns the
// emitter only passes through (spec §5).
type WorkflowOptions struct {
	TriggerEvent  string
	TriggerCron   string
	CancelOnEvent string
	CancelOnMatch string
	CancelOnTimeout string
	Retries       int
	HasRetries    bool
	Timeout       string
	ThrottleLimit int
	HasThrottleLimit bool
	ThrottlePeriod string
	StrictTypes   bool
	AsyncForced   bool
}

// Package execctx defines the execution-context contract the emitter
// targets (spec §6.3). flowc never implements this interface — it is an
// external collaborator (spec §1's Non-goals, "the runtime execution
// context itself... implementation is separate") — but the emitted
// procedure text imports this package and calls these methods directly,
// so the interface lives here as the compile-time boundary between the
// core and its runtime.
package execctx

import "context"

// Status mirrors the four node execution states observers see (spec
// §4.7, "Observability events").
type Status int

const (
	Running Status = iota
	Succeeded
	Failed
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case Succeeded:
		return "SUCCEEDED"
	case Failed:
		return "FAILED"
	case Cancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// VariableRef identifies one node-execution-scoped variable slot: an
// input or output port value tied to a specific execution index (spec
// §6.3).
type VariableRef struct {
	ID             string
	PortName       string
	ExecutionIndex int
	NodeTypeName   string
}

// StatusEvent is the payload for sendStatusChangedEvent (spec §6.3).
type StatusEvent struct {
	NodeTypeName   string
	ID             string
	ExecutionIndex int
	Status         Status
}

// CompletedEvent is the payload for sendWorkflowCompletedEvent (spec
// §6.3).
type CompletedEvent struct {
	ExecutionIndex int
	Status         Status
	Result         any
}

// PullExecutor is a parameterless, memoized closure synthesised by the
// emitter for a lazily (pull) executed node (spec §4.7, "Pull node").
type PullExecutor func(ctx context.Context) error

// Context is the execution-context interface every emitted procedure is
// written against (spec §6.3). An implementation is a runtime concern
// outside this module's scope; flowc only consumes it.
type Context interface {
	// AddExecution assigns a fresh execution index for an instance.
	AddExecution(instanceID string) int

	// SetVariable records an output or input value under ref; may
	// suspend when the workflow is emitted as async.
	SetVariable(ctx context.Context, ref VariableRef, value any) error

	// GetVariable retrieves a recorded value, triggering a pull
	// executor on first access; may suspend.
	GetVariable(ctx context.Context, ref VariableRef) (any, error)

	SendStatusChangedEvent(event StatusEvent)
	SendLogErrorEvent(nodeTypeName, id string, executionIndex int, err error)
	SendWorkflowCompletedEvent(event CompletedEvent)

	// RegisterPullExecutor registers a memoized executor for a lazily
	// executed node (spec §4.7, "Pull node").
	RegisterPullExecutor(instanceID string, executor PullExecutor)

	// CreateScope opens a child context for a scoped node's children
	// (spec §5, "Shared resources").
	CreateScope(parentID string, parentIdx int, scopeName string) Context
	// MergeScope folds a child context's effects back into its parent.
	MergeScope(child Context)

	// CheckAborted raises a cancellation error if the abort signal tied
	// to this context has been set (spec §5, "Cancellation").
	CheckAborted(instanceID string) error
}

// CancellationError is raised by CheckAborted and by a node invocation
// that observes cancellation mid-flight (spec §5, §7).
type CancellationError struct {
	InstanceID string
}

func (e *CancellationError) Error() string {
	if e == nil {
		return ""
	}
	return "execution cancelled at " + e.InstanceID
}

// IsCancellationError reports whether err (or anything it wraps) is a
// *CancellationError — the predicate spec §5 names explicitly
// (`CancellationError.isCancellationError`) to distinguish cancellation
// from an ordinary node failure on catch.
func IsCancellationError(err error) bool {
	_, ok := err.(*CancellationError)
	if ok {
		return true
	}
	type unwrapper interface{ Unwrap() error }
	for {
		u, ok := err.(unwrapper)
		if !ok {
			return false
		}
		err = u.Unwrap()
		if err == nil {
			return false
		}
		if _, ok := err.(*CancellationError); ok {
			return true
		}
	}
}

// MustGetVariable adapts the suspend-capable GetVariable into a single
// expression for the emitter's data-flow positions (argument literals,
// exit coalescing), which are plain expressions rather than statements
// that could check an error (spec §4.7, "Pull node": "consumers ... call
// getVariable"). A failed lookup degrades to nil rather than panicking,
// matching the same untyped-fallback boundary the emitter already accepts
// at unconnected ports (see internal/emit's inputExpr).
func MustGetVariable(ctx context.Context, ec Context, ref VariableRef) any {
	v, err := ec.GetVariable(ctx, ref)
	if err != nil {
		return nil
	}
	return v
}

// RecursionLimit is the hard ceiling on nested workflow-call depth (spec
// §4.7 step 1, §5, §8: "Recursion-depth is exactly 1000").
const RecursionLimit = 1000

// ErrRecursionLimit is raised before any node runs when __rd__ reaches
// RecursionLimit (spec §7, "recursion depth exceeded (raised before any
// node runs)").
type ErrRecursionLimit struct {
	Workflow string
}

func (e *ErrRecursionLimit) Error() string {
	if e == nil {
		return ""
	}
	return "recursion depth exceeded in workflow " + e.Workflow
}

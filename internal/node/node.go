// Package node holds the execution-state vocabulary shared by the stores,
// the graph facade and the executor.
package node

// Status is the execution state of a node within one run.
type Status int32

const (
	// StatusPending indicates the node is waiting for its producers.
	StatusPending Status = iota
	// StatusRunning indicates the node function is executing.
	StatusRunning
	// StatusCompleted indicates the node produced its outputs.
	StatusCompleted
	// StatusFailed indicates the node function returned an error.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outputs is the tuple a node produced, indexed by output slot.
type Outputs []any

// Slot returns the value at slot i. ok is false when the slot is out of range.
func (o Outputs) Slot(i int) (any, bool) {
	if i < 0 || i >= len(o) {
		return nil, false
	}
	return o[i], true
}

package scheduler

import "context"

// Scheduler maintains the pending set of a run.
type Scheduler interface {
	// Stage adds id to the pending set, after any producer it needs that has
	// neither completed nor been staged.
	Stage(ctx context.Context, id string) error

	// Wait makes a pending node wait for extra producers on top of its own
	// links. It is used for nodes that returned an expansion.
	Wait(ctx context.Context, id string, producers []string) error

	// Next returns the next ready node. ok is false when nothing is pending.
	// An error reports a stall.
	Next(ctx context.Context) (id string, ok bool, err error)

	// Done removes id from the pending set.
	Done(ctx context.Context, id string)

	// Pending returns the number of pending nodes.
	Pending() int
}

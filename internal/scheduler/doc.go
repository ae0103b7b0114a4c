// Package scheduler decides which node of a run executes next.
//
// # Why Scheduler Exists
//
// The scheduler separates "what can run" from "how to run it". The executor
// asks for the next ready node, runs it, and reports back; the scheduler
// keeps the pending set and the readiness rules.
//
// # How It Works
//
//  1. The executor stages every output node of the prompt.
//  2. Staging a node stages, first, every producer it links to that has not
//     completed. The pending list is therefore in dependency order.
//  3. Next returns the first pending node whose producers have all completed.
//  4. When a node expands, the executor stages the expansion's output nodes
//     and result producers and makes the expanding node wait for them.
//  5. The run ends when nothing is pending. If nodes are pending but none is
//     ready, the run has stalled (a failed producer or a cycle).
//
// # Ordering
//
// Execution is strictly sequential. Given the same prompt the scheduler
// always yields the same order, which keeps loop iterations reproducible.
package scheduler

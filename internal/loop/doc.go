// Package loop turns a static node graph into a bounded loop over the
// batches of a Play.
//
// Two nodes cooperate. The open node builds the Play and its batch queue on
// first use and hands the current batch to the graph. The close node pops the
// next batch and, while the queue is not empty, asks the host to run one more
// copy of everything between open and close: it computes the Closure of the
// loop body and Clones it into an expansion whose open node starts from the
// new state.
//
// Seen from Go this is a trampoline: each close either returns the final data
// or the next State. Controller.Run drives the same steps without a host
// graph.
package loop

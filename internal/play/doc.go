// Package play models a Play (Play, Act, Scene, Beat) and flattens it into
// the ordered queue of frame batches the loop nodes process one at a time.
//
// Tier records are built through constructors that enforce the slot rule:
// optional child slots must be filled contiguously from the first one.
// Build copies the tree it is given, fills in the derived fields (filename
// bases, frame counts, durations, back references) and returns the Play with
// its SequenceQueue.
package play

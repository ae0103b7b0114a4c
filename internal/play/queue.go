package play

// Batch is one unit of loop work: a contiguous frame range of a beat.
type Batch struct {
	// Index is the position within the beat.
	Index int
	// IndexPlay is the position within the whole play.
	IndexPlay   int
	FramesCount int
	FramesFirst int
	FramesLast  int
	Filename    string

	Beat  *Beat
	Scene *Scene
	// Act is nil when the play has no act tier.
	Act  *Act
	Play *Play

	// LatentPrevious carries the previous iteration's output. It is the only
	// field that changes after Build.
	LatentPrevious any
}

// SequenceQueue holds the batches still to be processed, front first.
type SequenceQueue []*Batch

// Len returns the number of queued batches.
func (q SequenceQueue) Len() int {
	return len(q)
}

// Pop returns the front batch and a copy of the rest. ok is false on an
// empty queue. The receiver is left untouched.
func (q SequenceQueue) Pop() (front *Batch, rest SequenceQueue, ok bool) {
	if len(q) == 0 {
		return nil, nil, false
	}
	rest = make(SequenceQueue, len(q)-1)
	copy(rest, q[1:])
	return q[0], rest, true
}

// Clone returns a copy of the queue. Batches are shared.
func (q SequenceQueue) Clone() SequenceQueue {
	if q == nil {
		return nil
	}
	out := make(SequenceQueue, len(q))
	copy(out, q)
	return out
}

package loop

import (
	"github.com/vk/playtraversal/internal/play"
)

// State is what one iteration hands to the next. D is the caller's carried
// payload; the loop stores and forwards it without looking inside.
type State[D any] struct {
	Play *play.Play
	// Current is the batch being processed. Its Beat, Scene, Act and Play
	// references are the "current" tier records.
	Current *play.Batch
	// Queue holds the batches after Current.
	Queue          play.SequenceQueue
	Data           D
	LatentPrevious any
}

// Step is the outcome of a close: either Done with the final Value, or the
// Next state to run.
type Step[D any] struct {
	Done  bool
	Value D
	Next  *State[D]
}

// OpenPhase tells whether an open built a new Play or resumed one.
type OpenPhase int

const (
	PhaseFresh OpenPhase = iota
	PhaseResuming
)

func (p OpenPhase) String() string {
	if p == PhaseFresh {
		return "fresh"
	}
	return "resuming"
}

// OpenInput is everything the open node receives.
type OpenInput[D any] struct {
	// Config and Tree are used on a fresh open only.
	Config play.Config
	Tree   play.Tree

	Data           D
	LatentPrevious any

	// Current marks a resumed open. Queue is the rest of the play.
	Current *play.Batch
	Queue   play.SequenceQueue
}

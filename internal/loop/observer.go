package loop

import (
	"context"

	"github.com/vk/playtraversal/internal/play"
)

// Observer is notified as a play moves through the loop. Implementations
// must not block and handle their own errors.
type Observer interface {
	// PlayBuilt is called once, after a fresh open built the queue. The
	// queue still includes the first batch.
	PlayBuilt(ctx context.Context, p *play.Play, q play.SequenceQueue)
	// Iteration is called each time a batch becomes current.
	Iteration(ctx context.Context, b *play.Batch, remaining int)
	// Stopped is called when a close finds the queue empty.
	Stopped(ctx context.Context, p *play.Play)
}

// Observers fans out to several observers in order.
type Observers []Observer

func (o Observers) PlayBuilt(ctx context.Context, p *play.Play, q play.SequenceQueue) {
	for _, obs := range o {
		obs.PlayBuilt(ctx, p, q)
	}
}

func (o Observers) Iteration(ctx context.Context, b *play.Batch, remaining int) {
	for _, obs := range o {
		obs.Iteration(ctx, b, remaining)
	}
}

func (o Observers) Stopped(ctx context.Context, p *play.Play) {
	for _, obs := range o {
		obs.Stopped(ctx, p)
	}
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) PlayBuilt(context.Context, *play.Play, play.SequenceQueue) {}
func (NopObserver) Iteration(context.Context, *play.Batch, int)               {}
func (NopObserver) Stopped(context.Context, *play.Play)                       {}

package loop

import (
	"context"
	"fmt"
)

// Body runs the loop body once for the current batch. It returns the data to
// carry forward and the latent to hand to the next batch.
type Body[D any] func(ctx context.Context, s State[D]) (data D, latent any, err error)

// Run drives the loop without a host graph: open, body, close, and again
// until a close stops. Each resumed open sees exactly what the previous close
// returned.
func (c *Controller[D]) Run(ctx context.Context, in OpenInput[D], body Body[D]) (D, error) {
	var zero D

	s, _, err := c.Open(ctx, in)
	if err != nil {
		return zero, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		data, latent, err := body(ctx, s)
		if err != nil {
			return zero, fmt.Errorf("batch %d: %w", s.Current.IndexPlay, err)
		}
		s.Data = data
		s.LatentPrevious = latent

		step, err := c.Close(ctx, s)
		if err != nil {
			return zero, err
		}
		if step.Done {
			return step.Value, nil
		}

		next := step.Next
		s, _, err = c.Open(ctx, OpenInput[D]{
			Data:           next.Data,
			LatentPrevious: next.LatentPrevious,
			Current:        next.Current,
			Queue:          next.Queue,
		})
		if err != nil {
			return zero, err
		}
	}
}

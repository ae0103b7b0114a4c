package loop

import (
	"context"
	"log/slog"

	"github.com/vk/playtraversal/internal/ctxlog"
	"github.com/vk/playtraversal/internal/perr"
	"github.com/vk/playtraversal/internal/play"
)

// Controller makes the open and close decisions. The zero value uses
// LatentAlways and no observer.
type Controller[D any] struct {
	Policy   LatentPolicy
	Observer Observer
}

// NewController returns a Controller with the given policy. A nil observer
// is replaced by NopObserver.
func NewController[D any](policy LatentPolicy, observer Observer) *Controller[D] {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Controller[D]{Policy: policy, Observer: observer}
}

func (c *Controller[D]) observer() Observer {
	if c.Observer == nil {
		return NopObserver{}
	}
	return c.Observer
}

// Open starts an iteration. Without a current batch it builds the Play from
// in.Config and in.Tree and pops the first batch. With one it resumes: the
// state is passed through. In both phases the incoming latent is written onto
// the current batch according to the policy.
func (c *Controller[D]) Open(ctx context.Context, in OpenInput[D]) (State[D], OpenPhase, error) {
	logger := ctxlog.FromContext(ctx)

	if in.Current == nil {
		p, q, err := play.Build(in.Config, in.Tree)
		if err != nil {
			return State[D]{}, PhaseFresh, err
		}
		c.observer().PlayBuilt(ctx, p, q)
		logger.InfoContext(ctx, "▶️ Play built",
			slog.String("title", p.Title),
			slog.Int("batches", q.Len()),
			slog.Int("frames", p.FramesCount),
		)

		current, rest, ok := q.Pop()
		if !ok {
			return State[D]{}, PhaseFresh, perr.Validationf("play", "Play %q produced no batches", p.Title)
		}
		c.Policy.Apply(current, in.LatentPrevious)
		s := State[D]{
			Play:           p,
			Current:        current,
			Queue:          rest,
			Data:           in.Data,
			LatentPrevious: in.LatentPrevious,
		}
		c.iteration(ctx, s)
		return s, PhaseFresh, nil
	}

	if in.Current.Play == nil || in.Current.Beat == nil || in.Current.Scene == nil {
		return State[D]{}, PhaseResuming, perr.Malformedf("batch %d is detached from its play", in.Current.IndexPlay)
	}
	c.Policy.Apply(in.Current, in.LatentPrevious)
	s := State[D]{
		Play:           in.Current.Play,
		Current:        in.Current,
		Queue:          in.Queue,
		Data:           in.Data,
		LatentPrevious: in.LatentPrevious,
	}
	c.iteration(ctx, s)
	return s, PhaseResuming, nil
}

func (c *Controller[D]) iteration(ctx context.Context, s State[D]) {
	b := s.Current
	c.observer().Iteration(ctx, b, s.Queue.Len())
	ctxlog.FromContext(ctx).DebugContext(ctx, "Batch current",
		slog.Int("index_play", b.IndexPlay),
		slog.Int("index", b.Index),
		slog.Int("frames_first", b.FramesFirst),
		slog.Int("frames_last", b.FramesLast),
		slog.String("filename", b.Filename),
		slog.Int("remaining", s.Queue.Len()),
	)
}

// Close ends an iteration. s carries the remaining queue, the data and the
// latent the iteration produced. An empty queue stops the loop with s.Data.
// Otherwise the next batch is popped, the latent is written onto it and the
// next state is returned.
func (c *Controller[D]) Close(ctx context.Context, s State[D]) (Step[D], error) {
	logger := ctxlog.FromContext(ctx)

	next, rest, ok := s.Queue.Pop()
	if !ok {
		c.observer().Stopped(ctx, s.Play)
		logger.InfoContext(ctx, "✅ Play finished")
		return Step[D]{Done: true, Value: s.Data}, nil
	}
	if next == nil {
		return Step[D]{}, perr.Malformedf("sequence queue holds a nil batch")
	}

	c.Policy.Apply(next, s.LatentPrevious)
	p := s.Play
	if p == nil {
		p = next.Play
	}
	logger.DebugContext(ctx, "Continuing play",
		slog.Int("next_index_play", next.IndexPlay),
		slog.Int("remaining", rest.Len()),
	)
	return Step[D]{Next: &State[D]{
		Play:           p,
		Current:        next,
		Queue:          rest,
		Data:           s.Data,
		LatentPrevious: s.LatentPrevious,
	}}, nil
}

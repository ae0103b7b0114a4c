package nodes

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/playtraversal/internal/ctxlog"
	"github.com/vk/playtraversal/internal/loop"
	"github.com/vk/playtraversal/internal/perr"
	"github.com/vk/playtraversal/internal/play"
	"github.com/vk/playtraversal/internal/prompt"
	"github.com/vk/playtraversal/internal/registry"
)

// Output slots of the open node.
const (
	slotFlow = iota
	slotSequenceBatches
	slotData
	slotModel
	slotClip
	slotVAE
	slotPlayCurrent
	slotActCurrent
	slotSceneCurrent
	slotBeatCurrent
	slotBatchCurrent
	slotLatentPrevious
)

var stateInputs = []string{
	"sequence_batches",
	"play_current",
	"act_current",
	"scene_current",
	"beat_current",
	"batch_current",
	"latent_previous",
}

func playStart(ctrl *loop.Controller[any]) *registry.Definition {
	return &registry.Definition{
		Class:       ClassPlayStart,
		DisplayName: "Play (Start)",
		Required: []string{
			"model", "clip", "vae",
			"title", "positive", "negative", "seed", "filename_base",
			"fps", "width", "height", "frames_count_per_batch",
		},
		Optional: slices.Concat([]string{"data"}, actSlots, sceneSlots),
		Hidden:   stateInputs,
		Outputs: []string{
			"flow", "sequence_batches", "data", "model", "clip", "vae",
			"play_current", "act_current", "scene_current", "beat_current",
			"batch_current", "latent_previous",
		},
		Fn: func(ctx context.Context, call *registry.Call) (registry.Result, error) {
			in, err := openInput(call.Inputs)
			if err != nil {
				return registry.Result{}, err
			}

			s, phase, err := ctrl.Open(ctx, in)
			if err != nil {
				return registry.Result{}, err
			}

			b := s.Current
			var act any
			if b.Act != nil {
				act = b.Act
			}
			ctxlog.FromContext(ctx).Info("Play iteration.",
				"phase", phase.String(),
				"batch", b.IndexPlay,
				"beat", b.Beat.Title,
				"scene", b.Scene.Title,
				"act", actTitle(b.Act),
				"play", s.Play.Title,
			)
			return registry.Return(
				call.UniqueID,
				s.Queue,
				s.Data,
				s.Play.Model,
				s.Play.Clip,
				s.Play.VAE,
				s.Play,
				act,
				b.Scene,
				b.Beat,
				b,
				b.LatentPrevious,
			), nil
		},
	}
}

// openInput reads the open node inputs. A batch_current input marks a
// resumed iteration; everything else is only read on a fresh one.
func openInput(inputs map[string]any) (loop.OpenInput[any], error) {
	in := loop.OpenInput[any]{
		Data:           inputs["data"],
		LatentPrevious: inputs["latent_previous"],
	}

	current, ok, err := optionalInput[*play.Batch](inputs, "batch_current")
	if err != nil {
		return in, perr.Malformedf("%v", err)
	}
	if ok && current != nil {
		q, err := queueInput(inputs)
		if err != nil {
			return in, err
		}
		in.Current = current
		in.Queue = q
		return in, nil
	}

	if in.Config, err = playConfig(inputs); err != nil {
		return in, err
	}
	if in.Tree.Acts, err = slotInputs[play.Act](inputs, "act", play.MaxSlots); err != nil {
		return in, err
	}
	if in.Tree.Scenes, err = slotInputs[play.Scene](inputs, "scene", play.MaxSlots); err != nil {
		return in, err
	}
	return in, nil
}

func playConfig(in map[string]any) (play.Config, error) {
	cfg := play.Config{
		Model: in["model"],
		Clip:  in["clip"],
		VAE:   in["vae"],
	}
	var err error
	for name, dst := range map[string]*string{
		"title":         &cfg.Title,
		"positive":      &cfg.Positive,
		"negative":      &cfg.Negative,
		"filename_base": &cfg.FilenameBase,
	} {
		if *dst, err = stringInput(in, name); err != nil {
			return cfg, err
		}
	}
	if cfg.Seed, err = intInput(in, "seed"); err != nil {
		return cfg, err
	}
	if cfg.FPS, err = floatInput(in, "fps"); err != nil {
		return cfg, err
	}
	for name, dst := range map[string]*int{
		"width":                  &cfg.Width,
		"height":                 &cfg.Height,
		"frames_count_per_batch": &cfg.FramesCountPerBatch,
	} {
		n, err := intInput(in, name)
		if err != nil {
			return cfg, err
		}
		*dst = int(n)
	}
	return cfg, nil
}

func queueInput(in map[string]any) (play.SequenceQueue, error) {
	q, _, err := optionalInput[play.SequenceQueue](in, "sequence_batches")
	if err != nil {
		return nil, perr.Malformedf("%v", err)
	}
	return q, nil
}

func actTitle(a *play.Act) string {
	if a == nil {
		return ""
	}
	return a.Title
}

func playContinue(ctrl *loop.Controller[any], analyzer loop.Analyzer) *registry.Definition {
	return &registry.Definition{
		Class:       ClassPlayContinue,
		DisplayName: "Play (Continue)",
		Required:    []string{"flow", "sequence_batches"},
		Optional:    []string{"data", "latent_previous"},
		RawLinks:    []string{"flow"},
		Outputs:     []string{"data"},
		// the close drives the loop, so it runs even when nothing reads its data
		OutputNode: true,
		Fn: func(ctx context.Context, call *registry.Call) (registry.Result, error) {
			flow, ok := call.Inputs["flow"].(prompt.Link)
			if !ok {
				return registry.Result{}, perr.Malformedf("input 'flow' must link to a %s node", ClassPlayStart)
			}
			q, err := queueInput(call.Inputs)
			if err != nil {
				return registry.Result{}, err
			}

			s := loop.State[any]{
				Queue:          q,
				Data:           call.Inputs["data"],
				LatentPrevious: call.Inputs["latent_previous"],
			}
			if v, ok := call.Graph.Resolve(ctx, prompt.Link{NodeID: flow.NodeID, Slot: slotPlayCurrent}); ok {
				s.Play, _ = v.(*play.Play)
			}

			step, err := ctrl.Close(ctx, s)
			if err != nil {
				return registry.Result{}, err
			}
			if step.Done {
				return registry.Return(step.Value), nil
			}

			ids, err := analyzer.Closure(ctx, call.Graph, call.UniqueID, flow.NodeID)
			if err != nil {
				return registry.Result{}, fmt.Errorf("loop body: %w", err)
			}
			exp, err := loop.Clone(ctx, call.Graph, call.Prefix, ids, flow.NodeID, call.UniqueID, nextInputs(step.Next))
			if err != nil {
				return registry.Result{}, fmt.Errorf("clone loop body: %w", err)
			}
			ctxlog.FromContext(ctx).Debug("Loop body cloned.", "nodes", len(ids), "next_batch", step.Next.Current.IndexPlay)
			return registry.Expand(exp), nil
		},
	}
}

// nextInputs are the hidden inputs of the next open node.
func nextInputs(s *loop.State[any]) map[string]any {
	b := s.Current
	var act any
	if b.Act != nil {
		act = b.Act
	}
	return map[string]any{
		"batch_current":    b,
		"beat_current":     b.Beat,
		"scene_current":    b.Scene,
		"act_current":      act,
		"play_current":     s.Play,
		"data":             s.Data,
		"sequence_batches": s.Queue,
		"latent_previous":  s.LatentPrevious,
	}
}

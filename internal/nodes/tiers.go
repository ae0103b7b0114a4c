package nodes

import (
	"context"

	"github.com/vk/playtraversal/internal/play"
	"github.com/vk/playtraversal/internal/registry"
)

func metaInput(in map[string]any) (play.Meta, error) {
	var m play.Meta
	var err error
	for name, dst := range map[string]*string{
		"title":         &m.Title,
		"positive":      &m.Positive,
		"negative":      &m.Negative,
		"filename_part": &m.FilenamePart,
	} {
		if *dst, err = stringInput(in, name); err != nil {
			return m, err
		}
	}
	return m, nil
}

var metaRequired = []string{"title", "positive", "negative", "filename_part"}

func playAct() *registry.Definition {
	return &registry.Definition{
		Class:       ClassPlayAct,
		DisplayName: "Play-Act",
		Required:    metaRequired,
		Optional:    sceneSlots,
		Outputs:     []string{"act"},
		Fn: func(ctx context.Context, call *registry.Call) (registry.Result, error) {
			meta, err := metaInput(call.Inputs)
			if err != nil {
				return registry.Result{}, err
			}
			slots, err := slotInputs[play.Scene](call.Inputs, "scene", play.MaxSlots)
			if err != nil {
				return registry.Result{}, err
			}
			act, err := play.NewAct(meta, slots...)
			if err != nil {
				return registry.Result{}, err
			}
			return registry.Return(act), nil
		},
	}
}

func scene() *registry.Definition {
	return &registry.Definition{
		Class:       ClassScene,
		DisplayName: "Scene",
		Required:    metaRequired,
		Optional:    beatSlots,
		Outputs:     []string{"scene"},
		Fn: func(ctx context.Context, call *registry.Call) (registry.Result, error) {
			meta, err := metaInput(call.Inputs)
			if err != nil {
				return registry.Result{}, err
			}
			slots, err := slotInputs[play.Beat](call.Inputs, "scene_beat", play.MaxSlots)
			if err != nil {
				return registry.Result{}, err
			}
			sc, err := play.NewScene(meta, slots...)
			if err != nil {
				return registry.Result{}, err
			}
			return registry.Return(sc), nil
		},
	}
}

func sceneBeat() *registry.Definition {
	return &registry.Definition{
		Class:       ClassSceneBeat,
		DisplayName: "Scene-Beat",
		Required:    []string{"title", "filename_part", "duration_secs", "positive", "negative"},
		Optional:    []string{"reference"},
		Outputs:     []string{"scene_beat"},
		Fn: func(ctx context.Context, call *registry.Call) (registry.Result, error) {
			meta, err := metaInput(call.Inputs)
			if err != nil {
				return registry.Result{}, err
			}
			secs, err := floatInput(call.Inputs, "duration_secs")
			if err != nil {
				return registry.Result{}, err
			}
			beat, err := play.NewBeat(meta, secs)
			if err != nil {
				return registry.Result{}, err
			}
			beat.Reference = call.Inputs["reference"]
			return registry.Return(beat), nil
		},
	}
}

// accessor builds a node that unpacks an optional record into outputs. An
// absent record yields nil for every output.
func accessor[T any](class, display, input string, outputs []string, unpack func(*T) []any) *registry.Definition {
	return &registry.Definition{
		Class:       class,
		DisplayName: display,
		Optional:    []string{input},
		Outputs:     outputs,
		Fn: func(ctx context.Context, call *registry.Call) (registry.Result, error) {
			rec, ok, err := optionalInput[*T](call.Inputs, input)
			if err != nil {
				return registry.Result{}, err
			}
			if !ok || rec == nil {
				return registry.Return(make([]any, len(outputs))...), nil
			}
			return registry.Return(unpack(rec)...), nil
		},
	}
}

func playData() *registry.Definition {
	return accessor(ClassPlayData, "Play Data", "play",
		[]string{"model", "clip", "vae", "title", "fps", "width", "height", "duration_secs", "frames_count", "positive", "negative", "seed"},
		func(p *play.Play) []any {
			return []any{p.Model, p.Clip, p.VAE, p.Title, p.FPS, p.Width, p.Height, p.DurationSecs, p.FramesCount, p.Positive, p.Negative, p.Seed}
		})
}

func playActData() *registry.Definition {
	return accessor(ClassPlayActData, "Play-Act Data", "act",
		[]string{"title", "positive", "negative", "filename_part", "frames_count"},
		func(a *play.Act) []any {
			return []any{a.Title, a.Positive, a.Negative, a.FilenamePart, a.FramesCount}
		})
}

func sceneData() *registry.Definition {
	return accessor(ClassSceneData, "Scene Data", "scene",
		[]string{"title", "positive", "negative", "filename_part", "frames_count"},
		func(s *play.Scene) []any {
			return []any{s.Title, s.Positive, s.Negative, s.FilenamePart, s.FramesCount}
		})
}

func sceneBeatData() *registry.Definition {
	return accessor(ClassSceneBeatData, "Scene-Beat Data", "scene_beat",
		[]string{"title", "duration_secs", "positive", "negative", "frames_count"},
		func(b *play.Beat) []any {
			return []any{b.Title, b.DurationSecs, b.Positive, b.Negative, b.FramesCount}
		})
}

func batchData() *registry.Definition {
	return accessor(ClassBatchData, "Batch Data", "batch",
		[]string{"index_play", "frames_count", "frames_first", "frames_last", "latent_previous", "filename"},
		func(b *play.Batch) []any {
			return []any{b.IndexPlay, b.FramesCount, b.FramesFirst, b.FramesLast, b.LatentPrevious, b.Filename}
		})
}

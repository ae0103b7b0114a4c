package nodes

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/playtraversal/internal/executor"
	"github.com/vk/playtraversal/internal/localsession"
	"github.com/vk/playtraversal/internal/loop"
	"github.com/vk/playtraversal/internal/media"
	"github.com/vk/playtraversal/internal/perr"
	"github.com/vk/playtraversal/internal/play"
	"github.com/vk/playtraversal/internal/prompt"
	"github.com/vk/playtraversal/internal/registry"
)

type batchRecorder struct {
	loop.NopObserver
	batches []*play.Batch
	stopped int
}

func (r *batchRecorder) Iteration(_ context.Context, b *play.Batch, _ int) {
	r.batches = append(r.batches, b)
}

func (r *batchRecorder) Stopped(context.Context, *play.Play) {
	r.stopped++
}

func lit(v any) prompt.Input { return prompt.Literal(v) }

func node(class string, inputs map[string]prompt.Input) *prompt.Node {
	n := prompt.NewNode(class)
	for k, v := range inputs {
		n.Inputs[k] = v
	}
	return n
}

func meta(title, part string) map[string]prompt.Input {
	return map[string]prompt.Input{
		"title":         lit(title),
		"positive":      lit(""),
		"negative":      lit(""),
		"filename_part": lit(part),
	}
}

func with(base map[string]prompt.Input, extra map[string]prompt.Input) map[string]prompt.Input {
	out := make(map[string]prompt.Input, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func startInputs(extra map[string]prompt.Input) map[string]prompt.Input {
	return with(map[string]prompt.Input{
		"model":                  lit("model"),
		"clip":                   lit("clip"),
		"vae":                    lit("vae"),
		"title":                  lit("Play"),
		"positive":               lit("pos"),
		"negative":               lit("neg"),
		"seed":                   lit(float64(7)),
		"filename_base":          lit("fot"),
		"fps":                    lit(float64(20)),
		"width":                  lit(float64(64)),
		"height":                 lit(float64(32)),
		"frames_count_per_batch": lit(float64(41)),
	}, extra)
}

// loopPrompt builds beat -> scene -> act -> start -> latent -> save -> continue.
func loopPrompt(data any) prompt.Prompt {
	return prompt.Prompt{
		"1": node(ClassSceneBeat, with(meta("Beat", "b1"), map[string]prompt.Input{"duration_secs": lit(float64(3))})),
		"2": node(ClassScene, with(meta("Scene", "s1"), map[string]prompt.Input{"scene_beat_1": prompt.LinkTo("1", 0)})),
		"3": node(ClassPlayAct, with(meta("Act", "a1"), map[string]prompt.Input{"scene_1": prompt.LinkTo("2", 0)})),
		"4": node(ClassPlayStart, startInputs(map[string]prompt.Input{
			"act_1": prompt.LinkTo("3", 0),
			"data":  lit(data),
		})),
		"5": node(ClassEmptyLatent, map[string]prompt.Input{"batch": prompt.LinkTo("4", slotBatchCurrent)}),
		"6": node(ClassSaveLatent, map[string]prompt.Input{
			"latent": prompt.LinkTo("5", 0),
			"batch":  prompt.LinkTo("4", slotBatchCurrent),
		}),
		"7": node(ClassPlayContinue, map[string]prompt.Input{
			"flow":             prompt.LinkTo("4", slotFlow),
			"sequence_batches": prompt.LinkTo("4", slotSequenceBatches),
			"data":             prompt.LinkTo("4", slotData),
			"latent_previous":  prompt.LinkTo("6", 0),
		}),
	}
}

func execute(t *testing.T, reg *registry.Registry, p prompt.Prompt) (*executor.Result, error) {
	t.Helper()
	ctx := context.Background()
	sess, err := (&localsession.SessionFactory{}).NewSession(ctx, p, reg)
	require.NoError(t, err)
	defer sess.Close(ctx)
	exec, err := sess.GetExecutor()
	require.NoError(t, err)
	return exec.Execute(ctx)
}

func TestPlayLoop_EndToEnd(t *testing.T) {
	out := t.TempDir()
	rec := &batchRecorder{}
	reg := registry.New(&Module{Policy: loop.LatentAlways, Observer: rec, OutputDir: out})
	data := map[string]any{"kept": true}

	res, err := execute(t, reg, loopPrompt(data))
	require.NoError(t, err)

	assert.Equal(t, data, res.Outputs["7"][0])
	assert.Equal(t, "7", res.Executed[len(res.Executed)-1])
	assert.Contains(t, res.Executed, "7.0."+loop.RecurseID)
	assert.Contains(t, res.Executed, "7.0.6")
	assert.NotContains(t, res.Executed, "7.0.3", "nodes upstream of the open node never re-run")

	require.Len(t, rec.batches, 2)
	assert.Equal(t, []int{0, 1}, []int{rec.batches[0].IndexPlay, rec.batches[1].IndexPlay})
	assert.Equal(t, 1, rec.stopped)
	assert.Nil(t, rec.batches[0].LatentPrevious)
	first, ok := rec.batches[1].LatentPrevious.(*media.Tensor)
	require.True(t, ok)
	assert.Equal(t, []int{1, 16, 11, 4, 8}, first.Shape)

	for _, name := range []string{"fot_a1_s1_b1_0_0", "fot_a1_s1_b1_1_1"} {
		assert.FileExists(t, filepath.Join(out, "batches", name+".blob"))
	}
}

func TestPlayLoop_ScenesWithoutActs(t *testing.T) {
	reg := registry.New(&Module{OutputDir: t.TempDir()})
	p := loopPrompt(nil)
	delete(p, "3")
	p["4"] = node(ClassPlayStart, startInputs(map[string]prompt.Input{"scene_1": prompt.LinkTo("2", 0)}))

	res, err := execute(t, reg, p)
	require.NoError(t, err)
	assert.Nil(t, res.Outputs["7"][0])
}

func TestPlayLoop_SlotGapFails(t *testing.T) {
	reg := registry.New(&Module{OutputDir: t.TempDir()})
	p := loopPrompt(nil)
	p["4"] = node(ClassPlayStart, startInputs(map[string]prompt.Input{"act_2": prompt.LinkTo("3", 0)}))

	_, err := execute(t, reg, p)
	require.Error(t, err)
	assert.True(t, perr.IsValidation(err))
	assert.Contains(t, err.Error(), "Found gap in acts")
}

func call(inputs map[string]any) *registry.Call {
	return &registry.Call{UniqueID: "1", Prefix: "1.0.", Inputs: inputs}
}

func lookup(t *testing.T, reg *registry.Registry, class string) *registry.Definition {
	t.Helper()
	def, ok := reg.Lookup(class)
	require.True(t, ok, class)
	return def
}

func TestModule_RegistersPack(t *testing.T) {
	reg := registry.New(&Module{})
	for _, class := range []string{
		ClassPlayStart, ClassPlayContinue, ClassPlayData, ClassPlayAct, ClassPlayActData,
		ClassScene, ClassSceneData, ClassSceneBeat, ClassSceneBeatData, ClassBatchData,
		ClassSceneBackdrop, ClassSceneBackdropData, ClassWorkspace, ClassEmptyLatent, ClassSaveLatent,
	} {
		def := lookup(t, reg, class)
		assert.Equal(t, Category, def.Category)
		assert.NotEmpty(t, def.DisplayName)
	}
	assert.Len(t, lookup(t, reg, ClassPlayStart).Outputs, 12)
	assert.True(t, lookup(t, reg, ClassPlayContinue).IsRawLink("flow"))
	assert.True(t, reg.IsOutputNode(ClassSceneBackdrop))
}

func TestAccessors_AbsentRecordYieldsNils(t *testing.T) {
	reg := registry.New(&Module{})
	tests := []struct {
		class string
		n     int
	}{
		{ClassPlayData, 12},
		{ClassPlayActData, 5},
		{ClassSceneData, 5},
		{ClassSceneBeatData, 5},
		{ClassBatchData, 6},
	}
	for _, tc := range tests {
		t.Run(tc.class, func(t *testing.T) {
			res, err := lookup(t, reg, tc.class).Fn(context.Background(), call(map[string]any{}))
			require.NoError(t, err)
			require.Len(t, res.Outputs, tc.n)
			for _, v := range res.Outputs {
				assert.Nil(t, v)
			}
		})
	}
}

func TestAccessors_Unpack(t *testing.T) {
	reg := registry.New(&Module{})
	ctx := context.Background()
	b := &play.Batch{IndexPlay: 3, FramesCount: 19, FramesFirst: 42, FramesLast: 60, Filename: "f", LatentPrevious: "l"}

	res, err := lookup(t, reg, ClassBatchData).Fn(ctx, call(map[string]any{"batch": b}))
	require.NoError(t, err)
	assert.Equal(t, []any{3, 19, 42, 60, "l", "f"}, []any(res.Outputs))

	act := &play.Act{Meta: play.Meta{Title: "A", FilenamePart: "a"}, FramesCount: 9}
	res, err = lookup(t, reg, ClassPlayActData).Fn(ctx, call(map[string]any{"act": act}))
	require.NoError(t, err)
	assert.Equal(t, []any{"A", "", "", "a", 9}, []any(res.Outputs))

	_, err = lookup(t, reg, ClassSceneData).Fn(ctx, call(map[string]any{"scene": "not a scene"}))
	require.Error(t, err)
}

func TestConstructors(t *testing.T) {
	reg := registry.New(&Module{})
	ctx := context.Background()

	res, err := lookup(t, reg, ClassSceneBeat).Fn(ctx, call(map[string]any{
		"title": "B", "filename_part": "b", "duration_secs": float64(2), "positive": "p", "negative": "n",
	}))
	require.NoError(t, err)
	beat := res.Outputs[0].(*play.Beat)
	assert.Equal(t, 2.0, beat.DurationSecs)
	assert.Equal(t, "p", beat.Positive)

	_, err = lookup(t, reg, ClassSceneBeat).Fn(ctx, call(map[string]any{
		"title": "B", "filename_part": "b", "duration_secs": float64(0),
	}))
	assert.True(t, perr.IsValidation(err))

	res, err = lookup(t, reg, ClassScene).Fn(ctx, call(map[string]any{"title": "S", "scene_beat_1": beat, "scene_beat_2": beat}))
	require.NoError(t, err)
	assert.Len(t, res.Outputs[0].(*play.Scene).Beats, 2)

	tests := []struct {
		name   string
		class  string
		inputs map[string]any
		msg    string
	}{
		{name: "scene without beats", class: ClassScene, inputs: map[string]any{"title": "S"}, msg: "At least one scene beat is required"},
		{name: "scene with gap", class: ClassScene, inputs: map[string]any{"scene_beat_2": beat}, msg: "Found gap in scene beats"},
		{name: "act without scenes", class: ClassPlayAct, inputs: map[string]any{"title": "A"}, msg: "At least one scene is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := lookup(t, reg, tc.class).Fn(ctx, call(tc.inputs))
			require.Error(t, err)
			assert.True(t, perr.IsValidation(err))
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestBackdropNodes(t *testing.T) {
	ctx := context.Background()
	reg := registry.New(&Module{OutputDir: t.TempDir()})

	res, err := lookup(t, reg, ClassWorkspace).Fn(ctx, call(map[string]any{"codename": "ws"}))
	require.NoError(t, err)
	ws := res.Outputs[0]

	img := media.NewImage(2, 2, 3)
	_, err = lookup(t, reg, ClassSceneBackdrop).Fn(ctx, call(map[string]any{
		"workspace": ws, "name": "forest", "positive": "trees", "image": img, "seed": float64(5),
	}))
	require.NoError(t, err)

	res, err = lookup(t, reg, ClassSceneBackdropData).Fn(ctx, call(map[string]any{"workspace": ws, "backdrop_name": "forest"}))
	require.NoError(t, err)
	require.Len(t, res.Outputs, 11)
	assert.Equal(t, "forest", res.Outputs[0])
	assert.Equal(t, "trees", res.Outputs[1])
	assert.IsType(t, &media.Image{}, res.Outputs[3])
	assert.Nil(t, res.Outputs[5])
	assert.IsType(t, &media.Mask{}, res.Outputs[7])
	assert.Nil(t, res.Outputs[8])
	assert.Equal(t, int64(5), res.Outputs[10])

	res, err = lookup(t, reg, ClassSceneBackdropData).Fn(ctx, call(map[string]any{"workspace": ws}))
	require.NoError(t, err)
	assert.Len(t, res.Outputs, 11)
	assert.Nil(t, res.Outputs[0])

	_, err = lookup(t, reg, ClassSceneBackdropData).Fn(ctx, call(map[string]any{"workspace": "ws", "backdrop_name": "none"}))
	assert.True(t, perr.IsNotFound(err))
}

func TestCoercion(t *testing.T) {
	in := map[string]any{"f": float64(3), "i": 4, "frac": 2.5, "s": "x", "bad": true}

	n, err := intInput(in, "f")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	n, err = intInput(in, "i")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	_, err = intInput(in, "frac")
	assert.Error(t, err)
	_, err = intInput(in, "missing")
	assert.Error(t, err)
	_, err = floatInput(in, "bad")
	assert.Error(t, err)

	s, err := stringInput(in, "s")
	require.NoError(t, err)
	assert.Equal(t, "x", s)
	s, err = stringInput(in, "missing")
	require.NoError(t, err)
	assert.Empty(t, s)
	_, err = stringInput(in, "f")
	assert.Error(t, err)
}

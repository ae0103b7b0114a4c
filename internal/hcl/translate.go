package hcl

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/playtraversal/internal/config"
	"github.com/vk/playtraversal/internal/perr"
	"github.com/vk/playtraversal/internal/schema"
)

// field pairs an attribute expression with its decoding target.
type field struct {
	name     string
	expr     hcl.Expression
	target   any
	required bool
}

func optional(name string, expr hcl.Expression, target any) field {
	return field{name: name, expr: expr, target: target}
}

func required(name string, expr hcl.Expression, target any) field {
	return field{name: name, expr: expr, target: target, required: true}
}

// evalFields decodes every field. gohcl hands absent expression attributes
// over as null, so a null required field is reported as missing here.
func (l *Loader) evalFields(ctx context.Context, evalCtx *hcl.EvalContext, fields ...field) error {
	for _, f := range fields {
		set, err := l.conv.Eval(ctx, f.expr, evalCtx, f.target)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", f.name, err)
		}
		if !set && f.required {
			return missingArgument(f)
		}
	}
	return nil
}

func missingArgument(f field) error {
	diag := &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Missing required argument",
		Detail:   fmt.Sprintf("The argument %q is required, but no definition was found.", f.name),
	}
	if f.expr != nil {
		rng := f.expr.Range()
		diag.Subject = &rng
	}
	return hcl.Diagnostics{diag}
}

// translatePlay evaluates the frame settings first, then every other
// expression with those settings in scope.
func (l *Loader) translatePlay(ctx context.Context, s *schema.Play) (*config.PlayFile, error) {
	pf := &config.PlayFile{}
	cfg := &pf.Config
	cfg.Title = s.Name

	err := l.evalFields(ctx, settingsContext(),
		required("fps", s.FPS, &cfg.FPS),
		required("width", s.Width, &cfg.Width),
		required("height", s.Height, &cfg.Height),
		required("frames_count_per_batch", s.FramesCountPerBatch, &cfg.FramesCountPerBatch),
	)
	if err != nil {
		return nil, err
	}

	evalCtx, err := playContext(l.conv, *cfg)
	if err != nil {
		return nil, err
	}
	err = l.evalFields(ctx, evalCtx,
		optional("title", s.Title, &cfg.Title),
		required("filename_base", s.FilenameBase, &cfg.FilenameBase),
		optional("seed", s.Seed, &cfg.Seed),
		optional("positive", s.Positive, &cfg.Positive),
		optional("negative", s.Negative, &cfg.Negative),
	)
	if err != nil {
		return nil, err
	}

	for _, a := range s.Acts {
		act, err := l.translateAct(ctx, evalCtx, a)
		if err != nil {
			return nil, err
		}
		pf.Acts = append(pf.Acts, act)
	}
	for _, sc := range s.Scenes {
		scene, err := l.translateScene(ctx, evalCtx, sc)
		if err != nil {
			return nil, err
		}
		pf.Scenes = append(pf.Scenes, scene)
	}
	return pf, nil
}

func (l *Loader) translateAct(ctx context.Context, evalCtx *hcl.EvalContext, s *schema.Act) (*config.Act, error) {
	slot, err := parseSlot("act", s.Slot)
	if err != nil {
		return nil, err
	}
	act := &config.Act{Slot: slot}
	if err := l.evalMeta(ctx, evalCtx, &act.Meta, s.Title, s.Positive, s.Negative, s.FilenamePart); err != nil {
		return nil, fmt.Errorf("act %q: %w", s.Slot, err)
	}
	for _, sc := range s.Scenes {
		scene, err := l.translateScene(ctx, evalCtx, sc)
		if err != nil {
			return nil, fmt.Errorf("act %q: %w", s.Slot, err)
		}
		act.Scenes = append(act.Scenes, scene)
	}
	return act, nil
}

func (l *Loader) translateScene(ctx context.Context, evalCtx *hcl.EvalContext, s *schema.Scene) (*config.Scene, error) {
	slot, err := parseSlot("scene", s.Slot)
	if err != nil {
		return nil, err
	}
	scene := &config.Scene{Slot: slot}
	if err := l.evalMeta(ctx, evalCtx, &scene.Meta, s.Title, s.Positive, s.Negative, s.FilenamePart); err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Slot, err)
	}
	for _, b := range s.Beats {
		beat, err := l.translateBeat(ctx, evalCtx, b)
		if err != nil {
			return nil, fmt.Errorf("scene %q: %w", s.Slot, err)
		}
		scene.Beats = append(scene.Beats, beat)
	}
	return scene, nil
}

func (l *Loader) translateBeat(ctx context.Context, evalCtx *hcl.EvalContext, s *schema.Beat) (*config.Beat, error) {
	slot, err := parseSlot("scene beat", s.Slot)
	if err != nil {
		return nil, err
	}
	beat := &config.Beat{Slot: slot}
	if err := l.evalMeta(ctx, evalCtx, &beat.Meta, s.Title, s.Positive, s.Negative, s.FilenamePart); err != nil {
		return nil, fmt.Errorf("beat %q: %w", s.Slot, err)
	}
	if err := l.evalFields(ctx, evalCtx, required("duration_secs", s.DurationSecs, &beat.DurationSecs)); err != nil {
		return nil, fmt.Errorf("beat %q: %w", s.Slot, err)
	}
	return beat, nil
}

func (l *Loader) evalMeta(ctx context.Context, evalCtx *hcl.EvalContext, m *config.Meta, title, positive, negative, part hcl.Expression) error {
	return l.evalFields(ctx, evalCtx,
		optional("title", title, &m.Title),
		optional("positive", positive, &m.Positive),
		optional("negative", negative, &m.Negative),
		optional("filename_part", part, &m.FilenamePart),
	)
}

func parseSlot(tier, label string) (int, error) {
	n, err := strconv.Atoi(label)
	if err != nil {
		return 0, perr.Validationf(tier, "%s label %q is not a slot number", tier, label)
	}
	return n, nil
}

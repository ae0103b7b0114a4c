package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/vk/playtraversal/internal/play"
)

func functions() map[string]function.Function {
	return map[string]function.Function{
		"floor": stdlib.FloorFunc,
		"ceil":  stdlib.CeilFunc,
		"min":   stdlib.MinFunc,
		"max":   stdlib.MaxFunc,
	}
}

// settingsContext evaluates the frame settings themselves: functions only.
func settingsContext() *hcl.EvalContext {
	return &hcl.EvalContext{Functions: functions()}
}

// playContext exposes the play's frame settings to every nested expression.
func playContext(c *Converter, cfg play.Config) (*hcl.EvalContext, error) {
	vars := map[string]any{
		"fps":                    cfg.FPS,
		"width":                  cfg.Width,
		"height":                 cfg.Height,
		"frames_count_per_batch": cfg.FramesCountPerBatch,
	}
	values := make(map[string]cty.Value, len(vars))
	for name, v := range vars {
		val, err := c.ToCtyValue(v)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		values[name] = val
	}
	return &hcl.EvalContext{Variables: values, Functions: functions()}, nil
}

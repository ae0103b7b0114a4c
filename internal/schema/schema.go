// Package schema holds the gohcl structs a play authoring file decodes into.
// Attributes stay unevaluated expressions: the loader evaluates them once the
// play's frame settings are known.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// PlayFile is the top-level structure of a play authoring file.
type PlayFile struct {
	Plays  []*Play  `hcl:"play,block"`
	Remain hcl.Body `hcl:",remain"`
}

// Play represents a `play` block. It holds either act blocks or, for a play
// without an act tier, scene blocks.
type Play struct {
	Name string `hcl:"name,label"`

	Title               hcl.Expression `hcl:"title,optional"`
	FilenameBase        hcl.Expression `hcl:"filename_base"`
	FPS                 hcl.Expression `hcl:"fps"`
	Width               hcl.Expression `hcl:"width"`
	Height              hcl.Expression `hcl:"height"`
	FramesCountPerBatch hcl.Expression `hcl:"frames_count_per_batch"`
	Seed                hcl.Expression `hcl:"seed,optional"`
	Positive            hcl.Expression `hcl:"positive,optional"`
	Negative            hcl.Expression `hcl:"negative,optional"`

	Acts   []*Act   `hcl:"act,block"`
	Scenes []*Scene `hcl:"scene,block"`
}

// Act represents an `act` block. The label is its 1-based slot.
type Act struct {
	Slot string `hcl:"slot,label"`

	Title        hcl.Expression `hcl:"title,optional"`
	Positive     hcl.Expression `hcl:"positive,optional"`
	Negative     hcl.Expression `hcl:"negative,optional"`
	FilenamePart hcl.Expression `hcl:"filename_part,optional"`

	Scenes []*Scene `hcl:"scene,block"`
}

// Scene represents a `scene` block. The label is its 1-based slot.
type Scene struct {
	Slot string `hcl:"slot,label"`

	Title        hcl.Expression `hcl:"title,optional"`
	Positive     hcl.Expression `hcl:"positive,optional"`
	Negative     hcl.Expression `hcl:"negative,optional"`
	FilenamePart hcl.Expression `hcl:"filename_part,optional"`

	Beats []*Beat `hcl:"beat,block"`
}

// Beat represents a `beat` block. The label is its 1-based slot.
type Beat struct {
	Slot string `hcl:"slot,label"`

	Title        hcl.Expression `hcl:"title,optional"`
	Positive     hcl.Expression `hcl:"positive,optional"`
	Negative     hcl.Expression `hcl:"negative,optional"`
	FilenamePart hcl.Expression `hcl:"filename_part,optional"`
	DurationSecs hcl.Expression `hcl:"duration_secs"`
}

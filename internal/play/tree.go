package play

import (
	"github.com/vk/playtraversal/internal/perr"
)

// Config holds the scalar settings of a Play.
type Config struct {
	Title        string
	Positive     string
	Negative     string
	Seed         int64
	FilenameBase string

	FPS                 float64
	Width               int
	Height              int
	FramesCountPerBatch int

	// Model, Clip and VAE are opaque media handles forwarded to the graph.
	Model any
	Clip  any
	VAE   any
}

func (c Config) validate() error {
	if c.FilenameBase == "" {
		return perr.Validationf("play", "filename_base must not be empty")
	}
	if c.FPS <= 0 {
		return perr.Validationf("play", "fps must be positive, got %v", c.FPS)
	}
	if c.FramesCountPerBatch <= 0 {
		return perr.Validationf("play", "frames_count_per_batch must be positive, got %d", c.FramesCountPerBatch)
	}
	return nil
}

// Meta is the authored description shared by Act, Scene and Beat.
type Meta struct {
	Title        string
	Positive     string
	Negative     string
	FilenamePart string
}

// Play is the root of the tree. It owns either Acts or, when there is no act
// tier, Scenes directly.
type Play struct {
	Config

	Acts   []*Act
	Scenes []*Scene

	DurationSecs float64
	FramesCount  int
}

// Act is the optional middle tier.
type Act struct {
	Meta
	Scenes []*Scene

	FilenameBase string
	DurationSecs float64
	FramesCount  int
	Play         *Play
}

// NewAct builds an act from its scene slots.
func NewAct(meta Meta, slots ...*Scene) (*Act, error) {
	scenes, err := CompactSlots("scene", slots)
	if err != nil {
		return nil, err
	}
	return &Act{Meta: meta, Scenes: scenes}, nil
}

// Scene owns the beats.
type Scene struct {
	Meta
	Beats []*Beat

	FilenameBase string
	DurationSecs float64
	FramesCount  int
	// Act is nil for scenes owned by the play directly.
	Act  *Act
	Play *Play
}

// NewScene builds a scene from its beat slots.
func NewScene(meta Meta, slots ...*Beat) (*Scene, error) {
	beats, err := CompactSlots("scene beat", slots)
	if err != nil {
		return nil, err
	}
	return &Scene{Meta: meta, Beats: beats}, nil
}

// Beat is the leaf tier. Its frames are split into batches.
type Beat struct {
	Meta
	DurationSecs float64
	// Reference is optional reference media for the beat.
	Reference any

	FilenameBase string
	FramesCount  int
	Scene        *Scene
}

// NewBeat builds a beat of the given duration.
func NewBeat(meta Meta, durationSecs float64) (*Beat, error) {
	if durationSecs <= 0 {
		return nil, perr.Validationf("scene beat", "duration_secs must be positive, got %v", durationSecs)
	}
	return &Beat{Meta: meta, DurationSecs: durationSecs}, nil
}

// Tree is the authored content of a Play: acts, or scenes when the play has
// no act tier. Slots are compacted by Build.
type Tree struct {
	Acts   []*Act
	Scenes []*Scene
}

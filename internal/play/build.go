package play

import (
	"math"
	"strconv"

	"github.com/vk/playtraversal/internal/perr"
)

// Build flattens a play tree into its batch queue.
//
// The tree is walked depth first (acts, scenes, beats) and each beat's frames
// are split into batches of cfg.FramesCountPerBatch, the last batch taking the
// remainder. IndexPlay counts batches across the whole play starting at 0.
// The records in tree are copied, never modified.
func Build(cfg Config, tree Tree) (*Play, SequenceQueue, error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}

	p := &Play{Config: cfg}
	s := &sequencer{play: p}

	if anySet(tree.Scenes) {
		if anySet(tree.Acts) {
			return nil, nil, perr.Validationf("play", "a play owns either acts or scenes, not both")
		}
		scenes, err := CompactSlots("scene", tree.Scenes)
		if err != nil {
			return nil, nil, err
		}
		for _, sc := range scenes {
			c, err := s.scene(sc, nil, cfg.FilenameBase)
			if err != nil {
				return nil, nil, err
			}
			p.Scenes = append(p.Scenes, c)
			p.DurationSecs += c.DurationSecs
			p.FramesCount += c.FramesCount
		}
	} else {
		acts, err := CompactSlots("act", tree.Acts)
		if err != nil {
			return nil, nil, err
		}
		for _, a := range acts {
			c, err := s.act(a)
			if err != nil {
				return nil, nil, err
			}
			p.Acts = append(p.Acts, c)
			p.DurationSecs += c.DurationSecs
			p.FramesCount += c.FramesCount
		}
	}

	if len(s.queue) == 0 {
		return nil, nil, perr.Validationf("play", "play %q produces no frames", cfg.Title)
	}
	return p, s.queue, nil
}

type sequencer struct {
	play      *Play
	queue     SequenceQueue
	indexPlay int
}

func (s *sequencer) act(src *Act) (*Act, error) {
	a := &Act{
		Meta:         src.Meta,
		FilenameBase: joinFilename(s.play.FilenameBase, src.FilenamePart),
		Play:         s.play,
	}
	scenes, err := CompactSlots("scene", src.Scenes)
	if err != nil {
		return nil, err
	}
	for _, sc := range scenes {
		c, err := s.scene(sc, a, a.FilenameBase)
		if err != nil {
			return nil, err
		}
		a.Scenes = append(a.Scenes, c)
		a.DurationSecs += c.DurationSecs
		a.FramesCount += c.FramesCount
	}
	return a, nil
}

func (s *sequencer) scene(src *Scene, act *Act, base string) (*Scene, error) {
	sc := &Scene{
		Meta:         src.Meta,
		FilenameBase: joinFilename(base, src.FilenamePart),
		Act:          act,
		Play:         s.play,
	}
	beats, err := CompactSlots("scene beat", src.Beats)
	if err != nil {
		return nil, err
	}
	for _, bt := range beats {
		c, err := s.beat(bt, sc)
		if err != nil {
			return nil, err
		}
		sc.Beats = append(sc.Beats, c)
		sc.DurationSecs += c.DurationSecs
		sc.FramesCount += c.FramesCount
	}
	return sc, nil
}

func (s *sequencer) beat(src *Beat, sc *Scene) (*Beat, error) {
	if src.DurationSecs <= 0 {
		return nil, perr.Validationf("scene beat", "duration_secs of %q must be positive, got %v", src.Title, src.DurationSecs)
	}
	bt := &Beat{
		Meta:         src.Meta,
		DurationSecs: src.DurationSecs,
		Reference:    src.Reference,
		FilenameBase: joinFilename(sc.FilenameBase, src.FilenamePart),
		FramesCount:  int(math.Round(s.play.FPS * src.DurationSecs)),
		Scene:        sc,
	}

	per := s.play.FramesCountPerBatch
	for first, index := 1, 0; first <= bt.FramesCount; first, index = first+per, index+1 {
		count := min(per, bt.FramesCount-first+1)
		s.queue = append(s.queue, &Batch{
			Index:       index,
			IndexPlay:   s.indexPlay,
			FramesCount: count,
			FramesFirst: first,
			FramesLast:  first + count - 1,
			Filename:    bt.FilenameBase + "_" + strconv.Itoa(index) + "_" + strconv.Itoa(s.indexPlay),
			Beat:        bt,
			Scene:       sc,
			Act:         sc.Act,
			Play:        s.play,
		})
		s.indexPlay++
	}
	return bt, nil
}

// joinFilename appends a fragment to a base, skipping empty parts.
func joinFilename(base, part string) string {
	switch {
	case part == "":
		return base
	case base == "":
		return part
	default:
		return base + "_" + part
	}
}

func anySet[T any](slots []*T) bool {
	for _, s := range slots {
		if s != nil {
			return true
		}
	}
	return false
}

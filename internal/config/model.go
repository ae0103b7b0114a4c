package config

import (
	"github.com/vk/playtraversal/internal/perr"
	"github.com/vk/playtraversal/internal/play"
)

// PlayFile is the format-agnostic representation of one authored play.
type PlayFile struct {
	// Path is the file the play was loaded from.
	Path   string
	Config play.Config
	Acts   []*Act
	// Scenes is set instead of Acts for a play without an act tier.
	Scenes []*Scene
}

// Meta is the authored description shared by the tiers.
type Meta struct {
	Title        string
	Positive     string
	Negative     string
	FilenamePart string
}

// Act is an authored act in slot Slot.
type Act struct {
	Slot int
	Meta
	Scenes []*Scene
}

// Scene is an authored scene in slot Slot.
type Scene struct {
	Slot int
	Meta
	Beats []*Beat
}

// Beat is an authored beat in slot Slot.
type Beat struct {
	Slot int
	Meta
	DurationSecs float64
}

// Tree places every record in its slot and builds the play tree.
func (f *PlayFile) Tree() (play.Tree, error) {
	acts, err := placeSlots("act", f.Acts, func(a *Act) int { return a.Slot }, buildAct)
	if err != nil {
		return play.Tree{}, err
	}
	scenes, err := placeSlots("scene", f.Scenes, func(s *Scene) int { return s.Slot }, buildScene)
	if err != nil {
		return play.Tree{}, err
	}
	return play.Tree{Acts: acts, Scenes: scenes}, nil
}

// Build sequences the play.
func (f *PlayFile) Build() (*play.Play, play.SequenceQueue, error) {
	tree, err := f.Tree()
	if err != nil {
		return nil, nil, err
	}
	return play.Build(f.Config, tree)
}

func buildAct(a *Act) (*play.Act, error) {
	scenes, err := placeSlots("scene", a.Scenes, func(s *Scene) int { return s.Slot }, buildScene)
	if err != nil {
		return nil, err
	}
	return play.NewAct(play.Meta(a.Meta), scenes...)
}

func buildScene(s *Scene) (*play.Scene, error) {
	beats, err := placeSlots("scene beat", s.Beats, func(b *Beat) int { return b.Slot }, buildBeat)
	if err != nil {
		return nil, err
	}
	return play.NewScene(play.Meta(s.Meta), beats...)
}

func buildBeat(b *Beat) (*play.Beat, error) {
	return play.NewBeat(play.Meta(b.Meta), b.DurationSecs)
}

// placeSlots returns nil when defs is empty so play.Build can tell an act
// tier from a scene tier.
func placeSlots[D, T any](tier string, defs []*D, slotOf func(*D) int, build func(*D) (*T, error)) ([]*T, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	slots := make([]*T, play.MaxSlots)
	for _, d := range defs {
		n := slotOf(d)
		if n < 1 || n > play.MaxSlots {
			return nil, perr.Validationf(tier, "%s slot %d is out of range 1..%d", tier, n, play.MaxSlots)
		}
		if slots[n-1] != nil {
			return nil, perr.Validationf(tier, "%s slot %d is defined twice", tier, n)
		}
		t, err := build(d)
		if err != nil {
			return nil, err
		}
		slots[n-1] = t
	}
	return slots, nil
}

package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/playtraversal/internal/loop"
	"github.com/vk/playtraversal/internal/play"
)

var _ loop.Observer = (*Notifier)(nil)

type event struct {
	name    string
	payload map[string]any
}

type fakeEmitter struct {
	events []event
	err    error
}

func (f *fakeEmitter) Emit(ev string, args ...any) error {
	f.events = append(f.events, event{name: ev, payload: args[0].(map[string]any)})
	return f.err
}

func TestNotifier_Events(t *testing.T) {
	ctx := context.Background()
	e := &fakeEmitter{}
	n := New(e)
	p := &play.Play{Config: play.Config{Title: "Play"}, FramesCount: 60}
	b := &play.Batch{IndexPlay: 1, Filename: "f", FramesFirst: 42, FramesLast: 60, FramesCount: 19}

	n.PlayBuilt(ctx, p, play.SequenceQueue{b, b})
	n.Iteration(ctx, b, 0)
	n.Stopped(ctx, p)

	require.Len(t, e.events, 3)
	assert.Equal(t, EventPlayBuilt, e.events[0].name)
	assert.Equal(t, 2, e.events[0].payload["batches"])
	assert.Equal(t, EventPlayBatch, e.events[1].name)
	assert.Equal(t, 1, e.events[1].payload["index_play"])
	assert.Equal(t, "f", e.events[1].payload["filename"])
	assert.Equal(t, EventPlayStopped, e.events[2].name)
	assert.Equal(t, "Play", e.events[2].payload["title"])
}

func TestNotifier_EmitErrorIsSwallowed(t *testing.T) {
	e := &fakeEmitter{err: errors.New("offline")}
	n := New(e)

	assert.NotPanics(t, func() { n.Stopped(context.Background(), nil) })
	assert.Len(t, e.events, 1)
}

func TestDial_EmptyURLIsNoop(t *testing.T) {
	n, err := Dial(context.Background(), Options{})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		n.Iteration(context.Background(), &play.Batch{}, 0)
		n.Close()
	})
}

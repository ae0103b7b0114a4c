package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/playtraversal/internal/prompt"
)

func noop(ctx context.Context, call *Call) (Result, error) {
	return Return(), nil
}

type testModule struct{}

func (testModule) Register(r *Registry) {
	r.Register(&Definition{Class: "Sink", OutputNode: true, Required: []string{"value"}, Fn: noop})
	r.Register(&Definition{
		Class:    "Close",
		Required: []string{"flow"},
		Optional: []string{"data"},
		RawLinks: []string{"flow"},
		Outputs:  []string{"data"},
		Fn:       noop,
	})
}

func TestRegistry_LookupAndPredicate(t *testing.T) {
	r := New(testModule{})

	def, ok := r.Lookup("Close")
	require.True(t, ok)
	assert.True(t, def.IsRawLink("flow"))
	assert.False(t, def.IsRawLink("data"))

	assert.True(t, r.IsOutputNode("Sink"))
	assert.False(t, r.IsOutputNode("Close"))
	assert.False(t, r.IsOutputNode("Unknown"))
	assert.Equal(t, []string{"Close", "Sink"}, r.Classes())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := New(testModule{})
	assert.Panics(t, func() { r.Register(&Definition{Class: "Sink", Fn: noop}) })
	assert.Panics(t, func() { r.Register(&Definition{Class: "NoFn"}) })
}

func TestRegistry_Validate(t *testing.T) {
	r := New(testModule{})

	good := prompt.Prompt{
		"1": {ClassType: "Sink", Inputs: map[string]prompt.Input{"value": prompt.Literal(1)}},
		"2": {ClassType: "Close", Inputs: map[string]prompt.Input{"flow": prompt.LinkTo("1", 0)}},
	}
	assert.NoError(t, r.Validate(good))

	bad := prompt.Prompt{
		"1": {ClassType: "Sink", Inputs: map[string]prompt.Input{"extra": prompt.Literal(1)}},
		"2": {ClassType: "Close", Inputs: map[string]prompt.Input{"flow": prompt.Literal("x")}},
		"3": {ClassType: "Nope", Inputs: map[string]prompt.Input{}},
	}
	err := r.Validate(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required input 'value'")
	assert.Contains(t, err.Error(), "unknown input 'extra'")
	assert.Contains(t, err.Error(), "must be a link")
	assert.Contains(t, err.Error(), "unknown class type 'Nope'")
}

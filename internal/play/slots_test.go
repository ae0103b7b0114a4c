package play

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/playtraversal/internal/perr"
)

func TestCompactSlots(t *testing.T) {
	a, b, c := new(int), new(int), new(int)

	tests := []struct {
		name    string
		slots   []*int
		want    []*int
		wantErr string
	}{
		{name: "all filled", slots: []*int{a, b, c}, want: []*int{a, b, c}},
		{name: "trailing empty trimmed", slots: []*int{a, b, nil}, want: []*int{a, b}},
		{name: "several trailing", slots: []*int{a, nil, nil, nil}, want: []*int{a}},
		{name: "gap", slots: []*int{a, nil, c}, wantErr: "Found gap in acts, please defragment!"},
		{name: "leading gap", slots: []*int{nil, b}, wantErr: "Found gap in acts, please defragment!"},
		{name: "all empty", slots: []*int{nil, nil}, wantErr: "At least one act is required"},
		{name: "no slots", slots: nil, wantErr: "At least one act is required"},
		{name: "too many", slots: []*int{a, a, a, a, a}, wantErr: "At most 4 acts"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CompactSlots("act", tc.slots)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.True(t, perr.IsValidation(err))
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConstructors_EnforceSlots(t *testing.T) {
	b1, err := NewBeat(Meta{Title: "b1"}, 1)
	require.NoError(t, err)
	b3, err := NewBeat(Meta{Title: "b3"}, 1)
	require.NoError(t, err)

	_, err = NewScene(Meta{Title: "s"}, b1, nil, b3)
	assert.True(t, perr.IsValidation(err))
	assert.Contains(t, err.Error(), "Found gap in scene beats")

	sc, err := NewScene(Meta{Title: "s"}, b1, b3, nil)
	require.NoError(t, err)
	assert.Equal(t, []*Beat{b1, b3}, sc.Beats)

	_, err = NewAct(Meta{Title: "a"})
	assert.Contains(t, err.Error(), "At least one scene is required")

	_, err = NewBeat(Meta{Title: "zero"}, 0)
	assert.True(t, perr.IsValidation(err))
}

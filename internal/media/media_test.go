package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/playtraversal/internal/perr"
)

func gradient(w, h, channels int) *Image {
	img := NewImage(w, h, channels)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < channels; c++ {
				img.Set(x, y, c, float32((x+y+c)%256)/255)
			}
		}
	}
	return img
}

func TestImage_RoundTripRGB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "img.png")
	src := gradient(5, 3, 3)

	require.NoError(t, StoreImage(src, path, true))
	got, mask, err := LoadImage(path)
	require.NoError(t, err)

	assert.Equal(t, src.Width, got.Width)
	assert.Equal(t, src.Height, got.Height)
	assert.Equal(t, 3, got.Channels)
	assert.InDeltaSlice(t, src.Pix, got.Pix, 1e-6)

	assert.Equal(t, NeutralMaskSize, mask.Width)
	assert.Equal(t, NeutralMaskSize, mask.Height)
	for _, v := range mask.Pix {
		require.Zero(t, v)
	}
}

func TestImage_AlphaBecomesInvertedMask(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	src := NewImage(2, 1, 4)
	src.Set(0, 0, 3, 1)   // opaque
	src.Set(1, 0, 3, 0.2) // mostly transparent

	require.NoError(t, StoreImage(src, path, true))
	_, mask, err := LoadImage(path)
	require.NoError(t, err)

	require.Equal(t, 2, mask.Width)
	require.Equal(t, 1, mask.Height)
	assert.InDelta(t, 0, mask.At(0, 0), 1e-6)
	assert.InDelta(t, 0.8, mask.At(1, 0), 1.0/255)
}

func TestImage_AlphaDroppedWithoutPreserve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	src := NewImage(2, 2, 4)

	require.NoError(t, StoreImage(src, path, false))
	_, mask, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, NeutralMaskSize, mask.Width)
}

func TestImage_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := LoadImage(filepath.Join(dir, "missing.png"))
	require.Error(t, err)
	assert.True(t, perr.IsNotFound(err))

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not a png"), 0o644))
	_, _, err = LoadImage(bad)
	require.Error(t, err)
	assert.False(t, perr.IsNotFound(err))

	tests := []struct {
		name string
		img  *Image
	}{
		{name: "two channels", img: &Image{Width: 1, Height: 1, Channels: 2, Pix: []float32{0, 0}}},
		{name: "short pixels", img: &Image{Width: 2, Height: 2, Channels: 3, Pix: []float32{0}}},
		{name: "empty", img: &Image{Channels: 3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, StoreImage(tc.img, filepath.Join(dir, "x.png"), true))
		})
	}
}

func TestMask_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		invert bool
	}{
		{name: "plain", invert: false},
		{name: "inverted on both sides", invert: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mask.png")
			m := NewMask(3, 2)
			m.Pix = []float32{0, 1, 0.5, 1, 0, 0.25}

			require.NoError(t, StoreMask(m, path, tc.invert))
			got, err := LoadMask(path, tc.invert, true)
			require.NoError(t, err)
			assert.InDeltaSlice(t, m.Pix, got.Pix, 1.0/255)
		})
	}
}

func TestMask_Luminance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gray.png")
	img := NewImage(2, 1, 1)
	img.Set(1, 0, 0, 1)
	require.NoError(t, StoreImage(img, path, true))

	m, err := LoadMask(path, false, false)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0, 1}, m.Pix, 1e-6)
}

func TestTensorBlob_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latent.blob")
	src := NewTensor(2, 3)
	for i := range src.Data {
		src.Data[i] = float32(i) * 0.5
	}

	require.NoError(t, StoreTensorBlob(src, path))
	got, err := LoadTensorBlob(path)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestTensorBlob_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTensorBlob(filepath.Join(dir, "missing.blob"))
	assert.True(t, perr.IsNotFound(err))

	err = StoreTensorBlob(&Tensor{Shape: []int{2, 2}, Data: []float32{1}}, filepath.Join(dir, "bad.blob"))
	require.Error(t, err)
}

func TestNewLatent(t *testing.T) {
	l, err := NewLatent(480, 832, 41)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 16, 11, 104, 60}, l.Shape)
	assert.Len(t, l.Data, 16*11*104*60)

	_, err = NewLatent(0, 8, 1)
	require.Error(t, err)
}

func TestJSONRecord(t *testing.T) {
	type record struct {
		Name string `json:"name"`
		Seed int64  `json:"seed"`
	}
	path := filepath.Join(t.TempDir(), "a", "record.json")

	require.NoError(t, StoreJSONRecord(record{Name: "n", Seed: 7}, path))
	var got record
	require.NoError(t, LoadJSONRecord(path, &got))
	assert.Equal(t, record{Name: "n", Seed: 7}, got)

	err := LoadJSONRecord(filepath.Join(t.TempDir(), "none.json"), &got)
	assert.True(t, perr.IsNotFound(err))
}

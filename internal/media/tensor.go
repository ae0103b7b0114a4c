package media

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vk/playtraversal/internal/perr"
)

// Latent geometry of the video model: 16 channels, 8x spatial and 4x
// temporal compression with the first frame kept.
const (
	LatentChannels   = 16
	LatentSpatial    = 8
	LatentTemporal   = 4
	latentBlobFormat = 1
)

// Tensor is a dense float32 array in row-major order.
type Tensor struct {
	Shape []int     `msgpack:"shape"`
	Data  []float32 `msgpack:"data"`
}

// NewTensor allocates a zero tensor of the given shape.
func NewTensor(shape ...int) *Tensor {
	return &Tensor{Shape: append([]int(nil), shape...), Data: make([]float32, numel(shape))}
}

// NewLatent returns the zero latent for frames frames of width x height.
func NewLatent(width, height, frames int) (*Tensor, error) {
	if width <= 0 || height <= 0 || frames <= 0 {
		return nil, fmt.Errorf("invalid latent size %dx%d with %d frames", width, height, frames)
	}
	return NewTensor(1, LatentChannels, (frames-1)/LatentTemporal+1, height/LatentSpatial, width/LatentSpatial), nil
}

// Validate checks that Data matches Shape.
func (t *Tensor) Validate() error {
	for _, d := range t.Shape {
		if d < 0 {
			return fmt.Errorf("negative dimension in shape %v", t.Shape)
		}
	}
	if n := numel(t.Shape); n != len(t.Data) {
		return fmt.Errorf("shape %v needs %d values, got %d", t.Shape, n, len(t.Data))
	}
	return nil
}

func numel(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

type tensorBlob struct {
	Format int `msgpack:"format"`
	Tensor
}

// StoreTensorBlob writes t as a msgpack blob.
func StoreTensorBlob(t *Tensor, path string) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("store tensor %s: %w", path, err)
	}
	b, err := msgpack.Marshal(&tensorBlob{Format: latentBlobFormat, Tensor: *t})
	if err != nil {
		return fmt.Errorf("encode tensor %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return err
	}
	slog.Debug("Tensor saved.", "path", path, "shape", t.Shape)
	return nil
}

// LoadTensorBlob reads a blob written by StoreTensorBlob.
func LoadTensorBlob(path string) (*Tensor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perr.NotFound("tensor blob", path)
		}
		return nil, err
	}
	var blob tensorBlob
	if err := msgpack.Unmarshal(b, &blob); err != nil {
		return nil, fmt.Errorf("decode tensor %s: %w", path, err)
	}
	if blob.Format != latentBlobFormat {
		return nil, fmt.Errorf("tensor %s: unsupported blob format %d", path, blob.Format)
	}
	t := blob.Tensor
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("tensor %s: %w", path, err)
	}
	return &t, nil
}

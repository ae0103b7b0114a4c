package media

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vk/playtraversal/internal/perr"
)

// NeutralMaskSize is the edge of the all-zero mask returned for images
// without an alpha channel.
const NeutralMaskSize = 64

// Image is a decoded picture. Channels is 1, 3 or 4.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []float32
}

// NewImage allocates a black image.
func NewImage(width, height, channels int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]float32, width*height*channels),
	}
}

// At returns channel c of pixel (x, y).
func (img *Image) At(x, y, c int) float32 {
	return img.Pix[(y*img.Width+x)*img.Channels+c]
}

// Set sets channel c of pixel (x, y).
func (img *Image) Set(x, y, c int, v float32) {
	img.Pix[(y*img.Width+x)*img.Channels+c] = v
}

func (img *Image) validate() error {
	switch img.Channels {
	case 1, 3, 4:
	default:
		return fmt.Errorf("unsupported channel count %d", img.Channels)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", img.Width, img.Height)
	}
	if len(img.Pix) != img.Width*img.Height*img.Channels {
		return fmt.Errorf("image holds %d values, want %d", len(img.Pix), img.Width*img.Height*img.Channels)
	}
	return nil
}

// Mask is a single channel image. 1 marks a masked pixel.
type Mask struct {
	Width  int
	Height int
	Pix    []float32
}

// NewMask allocates an all-zero mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]float32, width*height)}
}

// At returns the mask value of pixel (x, y).
func (m *Mask) At(x, y int) float32 {
	return m.Pix[y*m.Width+x]
}

// LoadImage decodes a PNG into an RGB image. When the file carries alpha the
// returned mask is the inverted alpha channel; otherwise it is a
// NeutralMaskSize square of zeros.
func LoadImage(path string) (*Image, *Mask, error) {
	src, err := decodePNG("image", path)
	if err != nil {
		return nil, nil, err
	}

	b := src.Bounds()
	img := NewImage(b.Dx(), b.Dy(), 3)
	alpha := hasAlpha(src)
	var mask *Mask
	if alpha {
		mask = NewMask(b.Dx(), b.Dy())
	} else {
		mask = NewMask(NeutralMaskSize, NeutralMaskSize)
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			img.Set(x, y, 0, float32(c.R)/255)
			img.Set(x, y, 1, float32(c.G)/255)
			img.Set(x, y, 2, float32(c.B)/255)
			if alpha {
				mask.Pix[y*mask.Width+x] = 1 - float32(c.A)/255
			}
		}
	}
	return img, mask, nil
}

// StoreImage encodes img as PNG. A four channel image keeps its alpha only
// when preserveAlpha is set.
func StoreImage(img *Image, path string, preserveAlpha bool) error {
	if err := img.validate(); err != nil {
		return fmt.Errorf("store image %s: %w", path, err)
	}

	var out image.Image
	mode := "RGB"
	switch {
	case img.Channels == 1:
		g := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				g.SetGray(x, y, color.Gray{Y: toByte(img.At(x, y, 0))})
			}
		}
		out, mode = g, "L"
	default:
		keepAlpha := preserveAlpha && img.Channels == 4
		rgba := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				c := color.NRGBA{
					R: toByte(img.At(x, y, 0)),
					G: toByte(img.At(x, y, 1)),
					B: toByte(img.At(x, y, 2)),
					A: 255,
				}
				if keepAlpha {
					c.A = toByte(img.At(x, y, 3))
				}
				rgba.SetNRGBA(x, y, c)
			}
		}
		out = rgba
		if keepAlpha {
			mode = "RGBA"
		}
	}

	if err := encodePNG(out, path); err != nil {
		return err
	}
	slog.Debug("Image saved.", "path", path, "mode", mode)
	return nil
}

// LoadMask reads a mask from a PNG. With useAlpha the alpha channel is used,
// otherwise the luminance.
func LoadMask(path string, invert, useAlpha bool) (*Mask, error) {
	src, err := decodePNG("mask", path)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := src.At(b.Min.X+x, b.Min.Y+y)
			var v float32
			if useAlpha {
				v = float32(color.NRGBAModel.Convert(c).(color.NRGBA).A) / 255
			} else {
				v = float32(color.GrayModel.Convert(c).(color.Gray).Y) / 255
			}
			if invert {
				v = 1 - v
			}
			m.Pix[y*m.Width+x] = v
		}
	}
	return m, nil
}

// StoreMask writes m into the alpha channel of an otherwise black PNG.
func StoreMask(m *Mask, path string, invert bool) error {
	if m.Width <= 0 || m.Height <= 0 || len(m.Pix) != m.Width*m.Height {
		return fmt.Errorf("store mask %s: invalid %dx%d mask with %d values", path, m.Width, m.Height, len(m.Pix))
	}
	out := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			v := m.At(x, y)
			if invert {
				v = 1 - v
			}
			out.SetNRGBA(x, y, color.NRGBA{A: toByte(v)})
		}
	}
	if err := encodePNG(out, path); err != nil {
		return err
	}
	slog.Debug("Mask saved.", "path", path)
	return nil
}

func decodePNG(what, path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perr.NotFound(what, path)
		}
		return nil, fmt.Errorf("open %s %s: %w", what, path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", what, path, err)
	}
	return img, nil
}

func encodePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// hasAlpha reports whether the decoded PNG carried an alpha channel.
func hasAlpha(img image.Image) bool {
	switch src := img.(type) {
	case *image.NRGBA, *image.NRGBA64:
		return true
	case *image.Paletted:
		for _, c := range src.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	case interface{ Opaque() bool }:
		return !src.Opaque()
	default:
		return false
	}
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

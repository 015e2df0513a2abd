package scene

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"

	"fresnel-scene/core"
	"fresnel-scene/math"
)

// Wrap selects how texture coordinates outside [0, 1] are resolved.
type Wrap int

const (
	WrapClamp Wrap = iota
	WrapRepeat
)

// Texture holds CPU-side pixel data for a 2D texture.
type Texture struct {
	Name   string
	Width  int
	Height int
	// Pixels in RGBA8 format (4 bytes per pixel, row-major, top-to-bottom).
	// Row 0 is sampled at v = 0.
	Pixels []byte

	Wrap Wrap
	// Repeat scales texture coordinates before wrapping; zero means 1x1.
	Repeat math.Vec2

	// Version increases whenever Pixels are replaced so backends know to
	// upload again.
	Version uint64

	// GPUData is set by the renderer backend after upload.
	GPUData interface{}
}

// DecodeTexture reads a PNG or JPEG stream into an RGBA8 Texture.
func DecodeTexture(name string, r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", name, err)
	}
	return TextureFromImage(name, img), nil
}

// DecodeTextureBytes is DecodeTexture over an in-memory buffer.
func DecodeTextureBytes(name string, data []byte) (*Texture, error) {
	return DecodeTexture(name, bytes.NewReader(data))
}

// TextureFromImage copies img into a new RGBA8 texture.
func TextureFromImage(name string, img image.Image) *Texture {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return &Texture{
		Name:   name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}
}

// NewSolidTexture creates a 1x1 texture of a single color.
func NewSolidTexture(name string, c core.Color) *Texture {
	n := c.NRGBA()
	return &Texture{
		Name:   name,
		Width:  1,
		Height: 1,
		Pixels: []byte{n.R, n.G, n.B, n.A},
	}
}

// Image wraps the pixels without copying.
func (t *Texture) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    t.Pixels,
		Stride: 4 * t.Width,
		Rect:   image.Rect(0, 0, t.Width, t.Height),
	}
}

// Replace takes over the pixels of src, keeping this texture's sampling
// parameters and GPU handle, and bumps Version.
func (t *Texture) Replace(src *Texture) {
	t.Width = src.Width
	t.Height = src.Height
	t.Pixels = src.Pixels
	t.Version++
}

// Sample returns the nearest texel at uv after applying Repeat and Wrap.
func (t *Texture) Sample(uv math.Vec2) core.Color {
	if t.Width == 0 || t.Height == 0 {
		return core.ColorBlack
	}
	if !t.Repeat.IsZero() {
		uv = uv.MulVec(t.Repeat)
	}
	x := texelIndex(uv.X, t.Width, t.Wrap)
	y := texelIndex(uv.Y, t.Height, t.Wrap)
	return t.texel(x, y)
}

func (t *Texture) texel(x, y int) core.Color {
	i := 4 * (y*t.Width + x)
	p := t.Pixels[i : i+4 : i+4]
	return core.Color{
		R: float32(p[0]) / 255,
		G: float32(p[1]) / 255,
		B: float32(p[2]) / 255,
		A: float32(p[3]) / 255,
	}
}

func texelIndex(coord float32, size int, wrap Wrap) int {
	if wrap == WrapRepeat {
		coord -= math32.Floor(coord)
	}
	i := int(coord * float32(size))
	if i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}

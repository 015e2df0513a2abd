package scene

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"

	"fresnel-scene/core"
	"fresnel-scene/math"
)

// CubeSampler is anything that can be looked up by direction.
type CubeSampler interface {
	SampleCube(dir math.Vec3) core.Color
}

// MipSampler is a CubeSampler that also exposes its mip chain.
type MipSampler interface {
	CubeSampler
	SampleLevel(dir math.Vec3, level int) core.Color
	FaceSize() int
}

// MipLevel picks the level whose texels span roughly pixelAngle radians on
// a cube with faceSize texels per edge. Level 0 when the base texels are
// already at least that large.
func MipLevel(pixelAngle float32, faceSize int) int {
	if pixelAngle <= 0 || faceSize <= 0 {
		return 0
	}
	texelAngle := math32.Pi / 2 / float32(faceSize)
	lod := math32.Log2(pixelAngle / texelAngle)
	if !(lod > 0) {
		return 0
	}
	return int(lod + 0.5)
}

// CubeTexture is six square faces in +X, -X, +Y, -Y, +Z, -Z order. Each
// face's row 0 is t = 0.
type CubeTexture struct {
	Name  string
	Faces [6]*Texture
	// Levels holds the mip chain below the base faces, halving each step
	// down to 1x1. Empty until GenerateMipmaps runs.
	Levels [][6]*Texture

	Version uint64
	GPUData interface{}
}

// NewCubeTexture assembles a cube from six faces of equal square size.
func NewCubeTexture(name string, faces [6]*Texture) (*CubeTexture, error) {
	size := -1
	for i, f := range faces {
		if f == nil {
			return nil, fmt.Errorf("cube %q face %v: missing", name, math.CubeFace(i))
		}
		if f.Width != f.Height {
			return nil, fmt.Errorf("cube %q face %v: not square (%dx%d)", name, math.CubeFace(i), f.Width, f.Height)
		}
		if size >= 0 && f.Width != size {
			return nil, fmt.Errorf("cube %q face %v: size %d, want %d", name, math.CubeFace(i), f.Width, size)
		}
		size = f.Width
	}
	return &CubeTexture{Name: name, Faces: faces}, nil
}

// NewBlankCubeTexture allocates six transparent black faces of size x size.
func NewBlankCubeTexture(name string, size int) *CubeTexture {
	c := &CubeTexture{Name: name}
	for i := range c.Faces {
		c.Faces[i] = &Texture{
			Name:   fmt.Sprintf("%s%v", name, math.CubeFace(i)),
			Width:  size,
			Height: size,
			Pixels: make([]byte, 4*size*size),
		}
	}
	return c
}

// NewSolidCubeTexture builds a cube of six 1x1 faces of color c.
func NewSolidCubeTexture(name string, c core.Color) *CubeTexture {
	cube := &CubeTexture{Name: name}
	for i := range cube.Faces {
		cube.Faces[i] = NewSolidTexture(fmt.Sprintf("%s%v", name, math.CubeFace(i)), c)
	}
	return cube
}

// Size is the edge length of the base faces.
func (c *CubeTexture) Size() int {
	if c.Faces[0] == nil {
		return 0
	}
	return c.Faces[0].Width
}

func (c *CubeTexture) FaceSize() int {
	return c.Size()
}

// SampleCube returns the nearest base-level texel in direction dir.
func (c *CubeTexture) SampleCube(dir math.Vec3) core.Color {
	return c.SampleLevel(dir, 0)
}

// SampleLevel samples mip level (0 = base), clamped to the available chain.
func (c *CubeTexture) SampleLevel(dir math.Vec3, level int) core.Color {
	faces := c.Faces
	if level > 0 && len(c.Levels) > 0 {
		if level > len(c.Levels) {
			level = len(c.Levels)
		}
		faces = c.Levels[level-1]
	}
	face, s, t := math.DirectionToFace(dir)
	f := faces[face]
	if f == nil {
		return core.ColorBlack
	}
	return f.Sample(math.Vec2{X: s, Y: t})
}

// GenerateMipmaps rebuilds Levels from the base faces with a bilinear
// downsample per level.
func (c *CubeTexture) GenerateMipmaps() {
	c.Levels = c.Levels[:0]
	prev := c.Faces
	for size := c.Size() / 2; size >= 1; size /= 2 {
		var level [6]*Texture
		for i, src := range prev {
			dst := image.NewRGBA(image.Rect(0, 0, size, size))
			draw.BiLinear.Scale(dst, dst.Bounds(), src.Image(), src.Image().Bounds(), draw.Src, nil)
			level[i] = &Texture{
				Name:   src.Name,
				Width:  size,
				Height: size,
				Pixels: dst.Pix,
			}
		}
		c.Levels = append(c.Levels, level)
		prev = level
	}
}

// Clone deep-copies the base faces, for comparing captures across frames.
func (c *CubeTexture) Clone() *CubeTexture {
	out := &CubeTexture{Name: c.Name, Version: c.Version}
	for i, f := range c.Faces {
		if f == nil {
			continue
		}
		px := make([]byte, len(f.Pixels))
		copy(px, f.Pixels)
		out.Faces[i] = &Texture{Name: f.Name, Width: f.Width, Height: f.Height, Pixels: px}
	}
	return out
}

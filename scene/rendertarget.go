package scene

import (
	"fresnel-scene/core"
	"fresnel-scene/math"
)

// CubeRenderTarget is the cube a CubeCamera renders into. Backends that
// rasterize on the CPU fill Texture; GPU backends keep their own storage in
// GPUData and leave Texture empty.
type CubeRenderTarget struct {
	Name    string
	Size    int
	Mipmaps bool

	Texture *CubeTexture
	// Captures counts completed six-face renders.
	Captures uint64

	GPUData interface{}
}

func NewCubeRenderTarget(name string, size int, mipmaps bool) *CubeRenderTarget {
	return &CubeRenderTarget{Name: name, Size: size, Mipmaps: mipmaps}
}

// CPUTexture returns Texture, allocating blank faces on first use.
func (t *CubeRenderTarget) CPUTexture() *CubeTexture {
	if t.Texture == nil {
		t.Texture = NewBlankCubeTexture(t.Name, t.Size)
	}
	return t.Texture
}

// SampleCube samples the CPU copy. Targets never rendered on the CPU read
// as black.
func (t *CubeRenderTarget) SampleCube(dir math.Vec3) core.Color {
	if t.Texture == nil {
		return core.ColorBlack
	}
	return t.Texture.SampleCube(dir)
}

// SampleLevel samples mip level of the CPU copy.
func (t *CubeRenderTarget) SampleLevel(dir math.Vec3, level int) core.Color {
	if t.Texture == nil {
		return core.ColorBlack
	}
	return t.Texture.SampleLevel(dir, level)
}

func (t *CubeRenderTarget) FaceSize() int {
	return t.Size
}

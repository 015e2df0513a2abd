package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"fresnel-scene/internal/logger"
	"fresnel-scene/math"
	"fresnel-scene/scene"
)

// CubeFramebuffer renders into the six faces of a cube texture, one face
// attached at a time, sharing a single depth renderbuffer.
type CubeFramebuffer struct {
	FBO      uint32
	ColorTex uint32
	Depth    uint32
	Size     int32
	Mipmaps  bool
}

// NewCubeFramebuffer creates an RGBA8 cube of size×size with storage for a
// full mip chain when mipmaps is set.
func NewCubeFramebuffer(size int, mipmaps bool) (*CubeFramebuffer, error) {
	cf := &CubeFramebuffer{Size: int32(size), Mipmaps: mipmaps}

	gl.GenTextures(1, &cf.ColorTex)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, cf.ColorTex)
	for i := 0; i < 6; i++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA8,
			cf.Size, cf.Size, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	if mipmaps {
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	} else {
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}

	gl.GenRenderbuffers(1, &cf.Depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, cf.Depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, cf.Size, cf.Size)

	gl.GenFramebuffers(1, &cf.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, cf.FBO)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, cf.Depth)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_CUBE_MAP_POSITIVE_X, cf.ColorTex, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		cf.Destroy()
		return nil, fmt.Errorf("cube FBO incomplete: status=0x%X", status)
	}

	logger.Log.Debug("cube framebuffer created", zap.Int("size", size), zap.Bool("mipmaps", mipmaps))
	return cf, nil
}

// bindFace makes face the color attachment and binds the framebuffer.
func (cf *CubeFramebuffer) bindFace(face math.CubeFace) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, cf.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
		gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), cf.ColorTex, 0)
}

// generateMipmaps rebuilds the mip chain from the freshly rendered faces.
func (cf *CubeFramebuffer) generateMipmaps() {
	if !cf.Mipmaps {
		return
	}
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, cf.ColorTex)
	gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
}

// Destroy frees GPU resources.
func (cf *CubeFramebuffer) Destroy() {
	if cf.FBO != 0 {
		gl.DeleteFramebuffers(1, &cf.FBO)
		cf.FBO = 0
	}
	if cf.Depth != 0 {
		gl.DeleteRenderbuffers(1, &cf.Depth)
		cf.Depth = 0
	}
	if cf.ColorTex != 0 {
		gl.DeleteTextures(1, &cf.ColorTex)
		cf.ColorTex = 0
	}
}

// cubeFramebuffer returns the framebuffer backing target, creating it on
// first use.
func (b *Backend) cubeFramebuffer(target *scene.CubeRenderTarget) (*CubeFramebuffer, error) {
	if cf, ok := target.GPUData.(*CubeFramebuffer); ok {
		return cf, nil
	}
	cf, err := NewCubeFramebuffer(target.Size, target.Mipmaps)
	if err != nil {
		return nil, fmt.Errorf("cube target %q: %w", target.Name, err)
	}
	target.GPUData = cf
	b.cubeTargets = append(b.cubeTargets, target)
	return cf, nil
}

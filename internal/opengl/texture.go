package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"fresnel-scene/scene"
)

// gpuTexture is the GL side of a scene.Texture or scene.CubeTexture.
// Version is the CPU version last uploaded.
type gpuTexture struct {
	ID      uint32
	Version uint64
}

// uploadTexture uploads tex when it has never been uploaded or its pixels
// were replaced since. Call from the goroutine owning the GL context.
func uploadTexture(tex *scene.Texture) (uint32, error) {
	if tex == nil {
		return 0, fmt.Errorf("nil texture")
	}
	gpu, _ := tex.GPUData.(*gpuTexture)
	if gpu != nil && gpu.Version == tex.Version {
		return gpu.ID, nil
	}
	if len(tex.Pixels) == 0 {
		return 0, fmt.Errorf("texture %q has no pixel data", tex.Name)
	}
	if gpu == nil {
		gpu = &gpuTexture{}
		gl.GenTextures(1, &gpu.ID)
	}

	gl.BindTexture(gl.TEXTURE_2D, gpu.ID)

	wrap := int32(gl.CLAMP_TO_EDGE)
	if tex.Wrap == scene.WrapRepeat {
		wrap = gl.REPEAT
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(tex.Width),
		int32(tex.Height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		unsafe.Pointer(&tex.Pixels[0]),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	gpu.Version = tex.Version
	tex.GPUData = gpu
	return gpu.ID, nil
}

// uploadCubeTexture uploads the six base faces of cube and builds its mip
// chain on the GPU. Faces replaced on the CPU bump cube.Version or any face
// Version to trigger a new upload.
func uploadCubeTexture(cube *scene.CubeTexture) (uint32, error) {
	version := cubeVersion(cube)
	gpu, _ := cube.GPUData.(*gpuTexture)
	if gpu != nil && gpu.Version == version {
		return gpu.ID, nil
	}
	for i, f := range cube.Faces {
		if f == nil || len(f.Pixels) == 0 {
			return 0, fmt.Errorf("cube %q face %d has no pixel data", cube.Name, i)
		}
	}
	if gpu == nil {
		gpu = &gpuTexture{}
		gl.GenTextures(1, &gpu.ID)
	}

	gl.BindTexture(gl.TEXTURE_CUBE_MAP, gpu.ID)
	setCubeParams()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	for i, f := range cube.Faces {
		gl.TexImage2D(
			gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i),
			0,
			gl.RGBA,
			int32(f.Width),
			int32(f.Height),
			0,
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			unsafe.Pointer(&f.Pixels[0]),
		)
	}
	gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	gpu.Version = version
	cube.GPUData = gpu
	return gpu.ID, nil
}

func setCubeParams() {
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
}

// cubeVersion folds the cube's own version with its faces' so a single
// replaced face is enough to trigger an upload. Starts at 1 so a fresh
// cube never matches the zero value.
func cubeVersion(cube *scene.CubeTexture) uint64 {
	v := cube.Version + 1
	for _, f := range cube.Faces {
		if f != nil {
			v += f.Version
		}
	}
	return v
}

// deleteTexture frees a previously uploaded 2D or cube texture.
func deleteTexture(gpuData *interface{}) {
	gpu, ok := (*gpuData).(*gpuTexture)
	if !ok || gpu.ID == 0 {
		return
	}
	gl.DeleteTextures(1, &gpu.ID)
	*gpuData = nil
}

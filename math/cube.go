package math

import "github.com/chewxy/math32"

// CubeFace indexes the six faces of a cube map in GL order.
type CubeFace int

const (
	CubeFacePosX CubeFace = iota
	CubeFaceNegX
	CubeFacePosY
	CubeFaceNegY
	CubeFacePosZ
	CubeFaceNegZ
)

var cubeFaceNames = [6]string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"}

func (f CubeFace) String() string {
	if f < 0 || int(f) >= len(cubeFaceNames) {
		return "invalid"
	}
	return cubeFaceNames[f]
}

// CubeFaces lists every face in upload order.
var CubeFaces = [6]CubeFace{CubeFacePosX, CubeFaceNegX, CubeFacePosY, CubeFaceNegY, CubeFacePosZ, CubeFaceNegZ}

var cubeFaceBasis = [6]struct{ dir, up Vec3 }{
	{Vec3{1, 0, 0}, Vec3{0, -1, 0}},
	{Vec3{-1, 0, 0}, Vec3{0, -1, 0}},
	{Vec3{0, 1, 0}, Vec3{0, 0, 1}},
	{Vec3{0, -1, 0}, Vec3{0, 0, -1}},
	{Vec3{0, 0, 1}, Vec3{0, -1, 0}},
	{Vec3{0, 0, -1}, Vec3{0, -1, 0}},
}

// Direction is the outward axis the face looks along.
func (f CubeFace) Direction() Vec3 {
	return cubeFaceBasis[f].dir
}

// Mat4CubeFaceView returns the view matrix for rendering face f from eye.
// Combined with a 90 degree, aspect 1 projection, NDC (x, y) maps onto the
// face's (s, t) texture coordinates with t = 0 at NDC y = -1.
func Mat4CubeFaceView(eye Vec3, f CubeFace) Mat4 {
	b := cubeFaceBasis[f]
	return Mat4LookAt(eye, eye.Add(b.dir), b.up)
}

// DirectionToFace selects the face hit by dir and its (s, t) coordinates in
// [0, 1], following the GL cube map selection rules.
func DirectionToFace(dir Vec3) (CubeFace, float32, float32) {
	ax, ay, az := math32.Abs(dir.X), math32.Abs(dir.Y), math32.Abs(dir.Z)

	var face CubeFace
	var sc, tc, ma float32
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		if dir.X >= 0 {
			face, sc, tc = CubeFacePosX, -dir.Z, -dir.Y
		} else {
			face, sc, tc = CubeFaceNegX, dir.Z, -dir.Y
		}
	case ay >= az:
		ma = ay
		if dir.Y >= 0 {
			face, sc, tc = CubeFacePosY, dir.X, dir.Z
		} else {
			face, sc, tc = CubeFaceNegY, dir.X, -dir.Z
		}
	default:
		ma = az
		if dir.Z >= 0 {
			face, sc, tc = CubeFacePosZ, dir.X, -dir.Y
		} else {
			face, sc, tc = CubeFaceNegZ, -dir.X, -dir.Y
		}
	}
	if ma == 0 {
		return CubeFacePosX, 0.5, 0.5
	}
	return face, (sc/ma + 1) / 2, (tc/ma + 1) / 2
}

// FaceDirection is the inverse of DirectionToFace: it returns the unnormalized
// direction through (s, t) on face f.
func FaceDirection(f CubeFace, s, t float32) Vec3 {
	sc, tc := 2*s-1, 2*t-1
	switch f {
	case CubeFacePosX:
		return Vec3{1, -tc, -sc}
	case CubeFaceNegX:
		return Vec3{-1, -tc, sc}
	case CubeFacePosY:
		return Vec3{sc, 1, tc}
	case CubeFaceNegY:
		return Vec3{sc, -1, -tc}
	case CubeFacePosZ:
		return Vec3{sc, -tc, 1}
	default:
		return Vec3{-sc, -tc, -1}
	}
}

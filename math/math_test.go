package math

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-4

func assertVec3(t *testing.T, expected, actual Vec3, msg string) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, tolerance, msg+" X")
	assert.InDelta(t, expected.Y, actual.Y, tolerance, msg+" Y")
	assert.InDelta(t, expected.Z, actual.Z, tolerance, msg+" Z")
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	assert.Equal(t, NewVec3(5, 7, 9), v1.Add(v2), "Add")
	assert.Equal(t, NewVec3(3, 3, 3), v2.Sub(v1), "Sub")
	assert.Equal(t, NewVec3(2, 4, 6), v1.Mul(2), "Mul")
	assert.Equal(t, float32(32), v1.Dot(v2), "Dot")

	// Right x Up = Front in a right-handed system
	assert.Equal(t, Vec3Front, Vec3Right.Cross(Vec3Up), "Cross")
}

func TestVec3Normalize(t *testing.T) {
	normalized := NewVec3(3, 0, 0).Normalize()
	assert.Equal(t, NewVec3(1, 0, 0), normalized)
	assert.InDelta(t, 1, normalized.Length(), tolerance)

	assert.Equal(t, Vec3Zero, Vec3Zero.Normalize(), "zero vector stays zero")
}

func TestVec3Reflect(t *testing.T) {
	i := NewVec3(1, -1, 0)
	assertVec3(t, NewVec3(1, 1, 0), i.Reflect(Vec3Up), "Reflect")
}

func TestVec3Refract(t *testing.T) {
	i := NewVec3(0, -1, 0)
	assertVec3(t, i, i.Refract(Vec3Up, 1), "ratio 1 passes straight through")
	assertVec3(t, i, i.Refract(Vec3Up, 1.5), "normal incidence does not bend")

	grazing := NewVec3(1, -0.01, 0).Normalize()
	assert.Equal(t, Vec3Zero, grazing.Refract(Vec3Up, 1.5), "total internal reflection")
}

func TestMat4Identity(t *testing.T) {
	m := Mat4Identity()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			expected := float32(0)
			if i == j {
				expected = 1
			}
			assert.Equal(t, expected, m[i][j], "[%d][%d]", i, j)
		}
	}
	assert.Equal(t, m, m.Mul(Mat4Identity()))
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)

	assert.Equal(t, translation, NewVec4(0, 0, 0, 1).MulMat(m).ToVec3())
	assert.Equal(t, Vec3Up, m.MulDir(Vec3Up), "directions ignore translation")
}

func TestMat4TRSOrder(t *testing.T) {
	rot := QuaternionFromAxisAngle(Vec3Up, math32.Pi/2)
	m := Mat4TRS(NewVec3(10, 0, 0), rot, NewVec3(2, 2, 2))

	// scale (1,0,0) -> (2,0,0), rotate about Y -> (0,0,-2), translate -> (10,0,-2)
	assertVec3(t, NewVec3(10, 0, -2), m.MulVec3(Vec3Right), "TRS")
}

func TestQuaternionRotation(t *testing.T) {
	q := QuaternionFromAxisAngle(Vec3Up, math32.Pi/2)

	assertVec3(t, NewVec3(0, 0, -1), q.RotateVector(Vec3Right), "RotateVector")
	assertVec3(t, q.RotateVector(Vec3Right), q.ToMat4().MulDir(Vec3Right), "ToMat4 agrees with RotateVector")

	identity := QuaternionIdentity().Mul(q)
	assert.Equal(t, q, identity)
}

func TestMat4Perspective(t *testing.T) {
	m := Mat4Perspective(Radians(90), 1, 1, 10)

	near := NewVec4(0, 0, -1, 1).MulMat(m)
	far := NewVec4(0, 0, -10, 1).MulMat(m)
	assert.InDelta(t, -1, near.Z/near.W, tolerance, "near plane maps to -1")
	assert.InDelta(t, 1, far.Z/far.W, tolerance, "far plane maps to +1")

	edge := NewVec4(1, 1, -1, 1).MulMat(m)
	assert.InDelta(t, 1, edge.X/edge.W, tolerance, "90 degree fov reaches the NDC edge")
	assert.InDelta(t, 1, edge.Y/edge.W, tolerance)
}

func TestMat4LookAt(t *testing.T) {
	eye := NewVec3(0, 0, 5)
	m := Mat4LookAt(eye, Vec3Zero, Vec3Up)

	assertVec3(t, Vec3Zero, m.MulVec3(eye), "eye maps to origin")
	assertVec3(t, NewVec3(0, 0, -5), m.MulVec3(Vec3Zero), "target lies down -Z")
}

func TestCubeFaceRoundTrip(t *testing.T) {
	coords := []float32{0.1, 0.25, 0.5, 0.8}
	for _, face := range CubeFaces {
		for _, s := range coords {
			for _, tc := range coords {
				got, gs, gt := DirectionToFace(FaceDirection(face, s, tc))
				assert.Equal(t, face, got, "face %v", face)
				assert.InDelta(t, s, gs, tolerance, "s on %v", face)
				assert.InDelta(t, tc, gt, tolerance, "t on %v", face)
			}
		}
	}
}

func TestCubeFaceViewMatchesSampling(t *testing.T) {
	proj := Mat4Perspective(Radians(90), 1, 0.1, 100)
	eye := NewVec3(3, -2, 7)

	for _, face := range CubeFaces {
		viewProj := Mat4CubeFaceView(eye, face).Mul(proj)
		for _, st := range [][2]float32{{0.2, 0.3}, {0.5, 0.5}, {0.9, 0.6}} {
			world := eye.Add(FaceDirection(face, st[0], st[1]).Mul(4))
			clip := world.ToVec4(1).MulMat(viewProj)
			ndcX, ndcY := clip.X/clip.W, clip.Y/clip.W
			assert.InDelta(t, st[0], (ndcX+1)/2, tolerance, "s on %v", face)
			assert.InDelta(t, st[1], (ndcY+1)/2, tolerance, "t on %v", face)
		}
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := Mat4Identity()

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}

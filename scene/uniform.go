package scene

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"fresnel-scene/math"
)

// ErrInvalidUniform is wrapped by every uniform validation failure.
var ErrInvalidUniform = errors.New("invalid uniform")

// UniformKind is the value type a uniform carries.
type UniformKind int

const (
	UniformFloat UniformKind = iota + 1
	UniformVec3
	UniformCube
)

func (k UniformKind) String() string {
	switch k {
	case UniformFloat:
		return "float"
	case UniformVec3:
		return "vec3"
	case UniformCube:
		return "samplerCube"
	}
	return fmt.Sprintf("UniformKind(%d)", int(k))
}

// Uniform is one named shader parameter. Only the field matching Kind is
// meaningful.
type Uniform struct {
	Name  string
	Kind  UniformKind
	Float float32
	Vec3  math.Vec3
	Cube  CubeSampler
}

func FloatUniform(name string, v float32) Uniform {
	return Uniform{Name: name, Kind: UniformFloat, Float: v}
}

func CubeUniform(name string, c CubeSampler) Uniform {
	return Uniform{Name: name, Kind: UniformCube, Cube: c}
}

// Validate checks the value against the declared kind.
func (u Uniform) Validate() error {
	if u.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidUniform)
	}
	switch u.Kind {
	case UniformFloat:
		if !finite(u.Float) {
			return fmt.Errorf("%w: %s = %v is not finite", ErrInvalidUniform, u.Name, u.Float)
		}
	case UniformVec3:
		if !finite(u.Vec3.X) || !finite(u.Vec3.Y) || !finite(u.Vec3.Z) {
			return fmt.Errorf("%w: %s = %v is not finite", ErrInvalidUniform, u.Name, u.Vec3)
		}
	case UniformCube:
		if isNilSampler(u.Cube) {
			return fmt.Errorf("%w: %s has no cube texture", ErrInvalidUniform, u.Name)
		}
	default:
		return fmt.Errorf("%w: %s has unknown kind %v", ErrInvalidUniform, u.Name, u.Kind)
	}
	return nil
}

// Uniforms is an ordered uniform set with unique names.
type Uniforms struct {
	list []Uniform
}

func NewUniforms(us ...Uniform) *Uniforms {
	return &Uniforms{list: us}
}

// All returns the uniforms in declaration order.
func (s *Uniforms) All() []Uniform {
	return s.list
}

// Set replaces the uniform with the same name or appends it.
func (s *Uniforms) Set(u Uniform) {
	for i := range s.list {
		if s.list[i].Name == u.Name {
			s.list[i] = u
			return
		}
	}
	s.list = append(s.list, u)
}

func (s *Uniforms) Get(name string) (Uniform, bool) {
	for _, u := range s.list {
		if u.Name == name {
			return u, true
		}
	}
	return Uniform{}, false
}

// Float returns the named float, or zero when absent or of another kind.
func (s *Uniforms) Float(name string) float32 {
	u, ok := s.Get(name)
	if !ok || u.Kind != UniformFloat {
		return 0
	}
	return u.Float
}

// Cube returns the named cube sampler, or nil.
func (s *Uniforms) Cube(name string) CubeSampler {
	u, ok := s.Get(name)
	if !ok || u.Kind != UniformCube {
		return nil
	}
	return u.Cube
}

// Validate checks every uniform and that names are unique. Backends call it
// once when they first bind a material.
func (s *Uniforms) Validate() error {
	seen := make(map[string]struct{}, len(s.list))
	for _, u := range s.list {
		if err := u.Validate(); err != nil {
			return err
		}
		if _, dup := seen[u.Name]; dup {
			return fmt.Errorf("%w: duplicate name %s", ErrInvalidUniform, u.Name)
		}
		seen[u.Name] = struct{}{}
	}
	return nil
}

// Require checks that name exists with the given kind.
func (s *Uniforms) Require(name string, kind UniformKind) error {
	u, ok := s.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s is missing", ErrInvalidUniform, name)
	}
	if u.Kind != kind {
		return fmt.Errorf("%w: %s is %v, want %v", ErrInvalidUniform, name, u.Kind, kind)
	}
	return nil
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

func isNilSampler(c CubeSampler) bool {
	switch v := c.(type) {
	case nil:
		return true
	case *CubeTexture:
		return v == nil
	case *CubeRenderTarget:
		return v == nil
	}
	return false
}

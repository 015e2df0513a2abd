package scene

import (
	"fresnel-scene/core"
	"fresnel-scene/math"
)

// Scene owns the node tree, its lights and the clear color used when
// nothing covers a pixel.
type Scene struct {
	Root       *Node
	Lights     []*Light
	Background core.Color
}

// Light types
const (
	LightTypeDirectional = iota
	LightTypePoint
)

// Light represents a light source
type Light struct {
	Type      int
	Position  math.Vec3
	Color     core.Color
	Intensity float32
}

func NewScene() *Scene {
	return &Scene{
		Root:       NewNode("Root"),
		Background: core.ColorBlack,
	}
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

// GetVisibleNodes returns every node with a mesh whose own flag and all
// ancestors' flags are visible, in depth-first order.
func (s *Scene) GetVisibleNodes() []*Node {
	var visible []*Node

	s.Root.TraverseVisible(func(node *Node) {
		if node.Mesh != nil {
			visible = append(visible, node)
		}
	})

	return visible
}

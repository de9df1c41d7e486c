package models

import "github.com/taigrr/phong/pkg/math3d"

// Light is a light source the shader can query.
type Light interface {
	Position() math3d.Vec4
	Intensity() RGB
}

// PointLight emits from a single world-space point.
type PointLight struct {
	position  math3d.Vec4
	intensity RGB
}

// NewPointLight creates a point light. Intensity channels are in 0-1.
func NewPointLight(position math3d.Vec3, intensity RGB) *PointLight {
	return &PointLight{
		position:  math3d.V4FromV3(position, 1),
		intensity: intensity,
	}
}

func (l *PointLight) Position() math3d.Vec4 { return l.position }
func (l *PointLight) Intensity() RGB        { return l.intensity }

package models

import (
	"math"

	"github.com/taigrr/phong/pkg/math3d"
)

// Plane is the infinite local z=0 plane with normal +Z.
type Plane struct {
	placement
}

// NewPlane places the z=0 plane with the given transform.
func NewPlane(transform math3d.Mat4, refl Reflectance, color RGB) (*Plane, error) {
	p, err := newPlacement("plane", transform, refl, color)
	if err != nil {
		return nil, err
	}
	return &Plane{placement: p}, nil
}

// Intersect returns where the ray crosses z=0, if it does so ahead of the origin.
func (p *Plane) Intersect(origin, direction math3d.Vec4) float64 {
	if math.Abs(direction.Z) < math3d.Epsilon {
		return NoHit
	}
	t := -origin.Z / direction.Z
	if t < 0 {
		return NoHit
	}
	return t
}

// NormalAt is constant for a plane.
func (p *Plane) NormalAt(math3d.Vec4) math3d.Vec4 {
	return math3d.Direction(0, 0, 1)
}

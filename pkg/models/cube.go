package models

import (
	"math"

	"github.com/taigrr/phong/pkg/math3d"
)

// unitBox is the local extent of a Cube.
var unitBox = NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

// Cube is the axis-aligned box [-1,1]^3 in its local frame.
type Cube struct {
	placement
}

// NewCube places the unit box with the given transform.
func NewCube(transform math3d.Mat4, refl Reflectance, color RGB) (*Cube, error) {
	p, err := newPlacement("cube", transform, refl, color)
	if err != nil {
		return nil, err
	}
	return &Cube{placement: p}, nil
}

// Intersect returns the entry point of the box, or the exit point when the
// origin is inside it.
func (c *Cube) Intersect(origin, direction math3d.Vec4) float64 {
	tNear, tFar, ok := unitBox.IntersectRay(origin.Vec3(), direction.Vec3())
	if !ok {
		return NoHit
	}
	if tNear >= 0 {
		return tNear
	}
	return tFar
}

// NormalAt picks the face whose axis the point lies furthest along.
func (c *Cube) NormalAt(point math3d.Vec4) math3d.Vec4 {
	ax, ay, az := math.Abs(point.X), math.Abs(point.Y), math.Abs(point.Z)
	switch {
	case ax >= ay && ax >= az:
		return math3d.Direction(math.Copysign(1, point.X), 0, 0)
	case ay >= az:
		return math3d.Direction(0, math.Copysign(1, point.Y), 0)
	default:
		return math3d.Direction(0, 0, math.Copysign(1, point.Z))
	}
}

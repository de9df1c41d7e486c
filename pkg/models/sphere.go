package models

import (
	"math"

	"github.com/taigrr/phong/pkg/math3d"
)

// Sphere is the unit sphere centered on the local origin. Position and size
// come from its transform.
type Sphere struct {
	placement
}

// NewSphere places a unit sphere with the given transform.
func NewSphere(transform math3d.Mat4, refl Reflectance, color RGB) (*Sphere, error) {
	p, err := newPlacement("sphere", transform, refl, color)
	if err != nil {
		return nil, err
	}
	return &Sphere{placement: p}, nil
}

// Intersect solves |o + t*d|^2 = 1 and returns the smallest root t >= 0.
func (s *Sphere) Intersect(origin, direction math3d.Vec4) float64 {
	o := origin.Vec3()
	d := direction.Vec3()

	// Quadratic equation coefficients: at² + bt + c = 0
	a := d.Dot(d)
	if a == 0 {
		return NoHit
	}
	halfB := o.Dot(d)
	c := o.Dot(o) - 1

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return NoHit
	}

	sqrtD := math.Sqrt(discriminant)
	if t := (-halfB - sqrtD) / a; t >= 0 {
		return t
	}
	if t := (-halfB + sqrtD) / a; t >= 0 {
		return t
	}
	return NoHit
}

// NormalAt returns the outward normal, which for a unit sphere is the point itself.
func (s *Sphere) NormalAt(point math3d.Vec4) math3d.Vec4 {
	return math3d.V4FromV3(point.Vec3(), 0).Normalize()
}

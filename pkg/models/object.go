// Package models provides the scene objects, lights and scene loading for phong.
package models

import (
	"fmt"

	"github.com/taigrr/phong/pkg/math3d"
)

// NoHit is returned by Object.Intersect when the ray misses the object.
// Any other value, including 0, is a valid hit parameter.
const NoHit = -1.0

// Object is anything the tracer can intersect and shade.
// All geometry is defined in the object's local frame; Transform maps local
// to world and InverseTransform maps world to local.
type Object interface {
	Transform() math3d.Mat4
	InverseTransform() math3d.Mat4

	// Intersect returns the smallest t >= 0 with origin + t*direction on the
	// surface, or NoHit. Both arguments are in the local frame.
	Intersect(origin, direction math3d.Vec4) float64

	// NormalAt returns the unit surface normal (w=0) at a local point.
	NormalAt(point math3d.Vec4) math3d.Vec4

	Reflectance() Reflectance
	Color() RGB
}

// Reflectance holds the Phong coefficients of a surface.
type Reflectance struct {
	Ambient   float64 `json:"ambient"`
	Diffuse   float64 `json:"diffuse"`
	Specular  float64 `json:"specular"`
	Shininess float64 `json:"shininess"`
}

// DefaultReflectance is used when a scene file leaves coefficients out.
func DefaultReflectance() Reflectance {
	return Reflectance{Ambient: 0.2, Diffuse: 0.6, Specular: 0.3, Shininess: 16}
}

// RGB is a color triple. Object colors use 0-255, light intensities 0-1.
type RGB struct {
	R, G, B float64
}

// placement is the transform and surface data shared by every variant.
type placement struct {
	t, tinv math3d.Mat4
	refl    Reflectance
	color   RGB
}

func newPlacement(kind string, transform math3d.Mat4, refl Reflectance, color RGB) (placement, error) {
	inv, err := transform.Inverse()
	if err != nil {
		return placement{}, fmt.Errorf("%s transform: %w", kind, err)
	}
	return placement{t: transform, tinv: inv, refl: refl, color: color}, nil
}

func (p *placement) Transform() math3d.Mat4        { return p.t }
func (p *placement) InverseTransform() math3d.Mat4 { return p.tinv }
func (p *placement) Reflectance() Reflectance      { return p.refl }
func (p *placement) Color() RGB                    { return p.color }

package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/taigrr/phong/pkg/math3d"
	"github.com/taigrr/phong/pkg/models"
)

// ErrIntersectionIndex is returned when an Intersection refers to an object
// that is not in the list passed to Shade.
var ErrIntersectionIndex = errors.New("intersection index out of range")

// shadowOffset lifts the shadow ray origin off the surface toward the light.
const shadowOffset = 0.001

// RGB is an unclamped pixel color, one light's contribution or a sum of them.
type RGB struct {
	R, G, B int
}

// Add sums two colors channel by channel.
func (c RGB) Add(o RGB) RGB {
	return RGB{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Clamped converts to an opaque color.RGBA, clamping each channel to 0..255.
func (c RGB) Clamped() color.RGBA {
	return color.RGBA{clampByte(c.R), clampByte(c.G), clampByte(c.B), 255}
}

func clampByte(v int) uint8 {
	return uint8(min(max(v, 0), 255))
}

// Shade computes the Phong color of the hit for one light. direction is the
// world-space ray that produced hit. A point in shadow gets the ambient term
// only. Channels are truncated, not clamped.
func Shade(hit Intersection, direction math3d.Vec4, cam *Camera, objects []models.Object, light models.Light) (RGB, error) {
	c, _, err := shade(hit, direction, cam, objects, light)
	return c, err
}

// shade is Shade that also reports whether the light was blocked.
func shade(hit Intersection, direction math3d.Vec4, cam *Camera, objects []models.Object, light models.Light) (RGB, bool, error) {
	if hit.Index < 0 || hit.Index >= len(objects) {
		return RGB{}, false, fmt.Errorf("%w: %d with %d objects", ErrIntersectionIndex, hit.Index, len(objects))
	}
	obj := objects[hit.Index]

	// Work in the hit object's local frame
	tinv := obj.InverseTransform()
	ls := tinv.MulVec4(light.Position())
	le := tinv.MulVec4(cam.Eye())
	ld := tinv.MulVec4(direction)

	i := le.Add(ld.Scale(hit.T))

	s, err := ls.Sub(i).Unit()
	if err != nil {
		return RGB{}, false, fmt.Errorf("light direction: %w", err)
	}
	n := obj.NormalAt(i)
	r := s.Scale(-1).Add(n.Scale(s.Scale(2).Dot(n)))
	v, err := le.Sub(i).Unit()
	if err != nil {
		return RGB{}, false, fmt.Errorf("eye direction: %w", err)
	}

	diffuse := max(n.Dot(s), 0)
	specular := max(r.Dot(v), 0)

	refl := obj.Reflectance()
	inShadow := shadowed(obj, i, s, objects)

	var f float64
	if inShadow {
		f = refl.Ambient
	} else {
		f = refl.Ambient + refl.Diffuse*diffuse + refl.Specular*math.Pow(specular, refl.Shininess)
	}

	col := obj.Color()
	li := light.Intensity()
	return RGB{
		R: int(f * col.R * li.R),
		G: int(f * col.G * li.G),
		B: int(f * col.B * li.B),
	}, inShadow, nil
}

// shadowed reports whether a ray from local point i toward the light along s
// hits any object. Every object counts, the hit object included, at any
// distance.
func shadowed(obj models.Object, i, s math3d.Vec4, objects []models.Object) bool {
	t := obj.Transform()
	p := t.MulVec4(i.Add(s.Scale(shadowOffset)))
	d := t.MulVec4(s)

	for _, o := range objects {
		tinv := o.InverseTransform()
		if o.Intersect(tinv.MulVec4(p), tinv.MulVec4(d).Normalize()) != models.NoHit {
			return true
		}
	}
	return false
}

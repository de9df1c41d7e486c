package models

import (
	"math"

	"github.com/taigrr/phong/pkg/math3d"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners returns the 8 corners, ordered by the bits (x, y, z) of the index.
func (b AABB) Corners() [8]math3d.Vec3 {
	var c [8]math3d.Vec3
	for i := range c {
		c[i] = math3d.V3(
			selectComponent(i&1 != 0, b.Max.X, b.Min.X),
			selectComponent(i&2 != 0, b.Max.Y, b.Min.Y),
			selectComponent(i&4 != 0, b.Max.Z, b.Min.Z),
		)
	}
	return c
}

// Transform returns the box that bounds all 8 corners after transformation.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := b.Corners()
	first := m.MulVec4(math3d.V4FromV3(corners[0], 1)).Vec3()
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := m.MulVec4(math3d.V4FromV3(c, 1)).Vec3()
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// Union returns the smallest box containing both.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// IntersectRay runs the slab test and returns the entry and exit parameters.
// ok is false when the ray misses or the box lies entirely behind the origin.
func (b AABB) IntersectRay(origin, direction math3d.Vec3) (tNear, tFar float64, ok bool) {
	tNear, tFar = math.Inf(-1), math.Inf(1)

	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{direction.X, direction.Y, direction.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for axis := range 3 {
		if math.Abs(d[axis]) < math3d.Epsilon {
			// Parallel to this slab: must already be inside it
			if o[axis] < lo[axis] || o[axis] > hi[axis] {
				return 0, 0, false
			}
			continue
		}
		t1 := (lo[axis] - o[axis]) / d[axis]
		t2 := (hi[axis] - o[axis]) / d[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = math.Max(tNear, t1)
		tFar = math.Min(tFar, t2)
		if tNear > tFar {
			return 0, 0, false
		}
	}

	if tFar < 0 {
		return 0, 0, false
	}
	return tNear, tFar, true
}

// selectComponent is a branchless conditional selection helper.
func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

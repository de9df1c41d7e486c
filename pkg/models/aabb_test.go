package models

import (
	"math"
	"testing"

	"github.com/taigrr/phong/pkg/math3d"
)

func TestAABBBasics(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -2, -3), math3d.V3(1, 2, 3))

	center := box.Center()
	if center.X != 0 || center.Y != 0 || center.Z != 0 {
		t.Errorf("center = %v, want (0, 0, 0)", center)
	}

	size := box.Size()
	if size.X != 2 || size.Y != 4 || size.Z != 6 {
		t.Errorf("size = %v, want (2, 4, 6)", size)
	}

	corners := box.Corners()
	if corners[0] != box.Min || corners[7] != box.Max {
		t.Errorf("corners[0] = %v, corners[7] = %v", corners[0], corners[7])
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	tests := []struct {
		name     string
		m        math3d.Mat4
		min, max math3d.Vec3
	}{
		{"identity", math3d.Identity(), math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1)},
		{"translate", math3d.Translate(math3d.V3(2, 0, -3)), math3d.V3(1, -1, -4), math3d.V3(3, 1, -2)},
		{"scale", math3d.Scale(math3d.V3(2, 1, 0.5)), math3d.V3(-2, -1, -0.5), math3d.V3(2, 1, 0.5)},
		{"rotate 45", math3d.RotateY(math.Pi / 4), math3d.V3(-math.Sqrt2, -1, -math.Sqrt2), math3d.V3(math.Sqrt2, 1, math.Sqrt2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := box.Transform(tc.m)
			if got.Min.Sub(tc.min).Len() > 1e-9 || got.Max.Sub(tc.max).Len() > 1e-9 {
				t.Errorf("Transform = %v, want {%v %v}", got, tc.min, tc.max)
			}
		})
	}
}

func TestAABBUnion(t *testing.T) {
	a := NewAABB(math3d.V3(0, 0, 0), math3d.V3(1, 1, 1))
	b := NewAABB(math3d.V3(-2, 0.5, 0.5), math3d.V3(0.5, 3, 0.5))
	got := a.Union(b)
	if got.Min != math3d.V3(-2, 0, 0) || got.Max != math3d.V3(1, 3, 1) {
		t.Errorf("Union = %v", got)
	}
}

func TestAABBIntersectRay(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	tests := []struct {
		name       string
		origin     math3d.Vec3
		direction  math3d.Vec3
		near, far  float64
		expectedOK bool
	}{
		{"through center", math3d.V3(0, 0, 5), math3d.V3(0, 0, -1), 4, 6, true},
		{"diagonal", math3d.V3(-3, -3, 0), math3d.V3(1, 1, 0), 2, 4, true},
		{"parallel inside slab", math3d.V3(0.5, 5, 0), math3d.V3(0, -1, 0), 4, 6, true},
		{"parallel outside slab", math3d.V3(2, 5, 0), math3d.V3(0, -1, 0), 0, 0, false},
		{"pointing away", math3d.V3(0, 0, 5), math3d.V3(0, 0, 1), 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			near, far, ok := box.IntersectRay(tc.origin, tc.direction)
			if ok != tc.expectedOK {
				t.Fatalf("ok = %v, want %v", ok, tc.expectedOK)
			}
			if !ok {
				return
			}
			if math.Abs(near-tc.near) > 1e-9 || math.Abs(far-tc.far) > 1e-9 {
				t.Errorf("near, far = %v, %v, want %v, %v", near, far, tc.near, tc.far)
			}
		})
	}
}

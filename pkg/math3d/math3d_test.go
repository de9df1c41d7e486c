package math3d

import (
	"errors"
	"math"
	"testing"
)

func TestVec3Cross(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec3
		expected Vec3
	}{
		{"x cross y", V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)},
		{"y cross z", V3(0, 1, 0), V3(0, 0, 1), V3(1, 0, 0)},
		{"z cross x", V3(0, 0, 1), V3(1, 0, 0), V3(0, 1, 0)},
		{"parallel", V3(2, 0, 0), V3(5, 0, 0), V3(0, 0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.a.Cross(tc.b)
			if got != tc.expected {
				t.Errorf("%v x %v = %v, want %v", tc.a, tc.b, got, tc.expected)
			}
		})
	}
}

func TestUnitRejectsZeroLength(t *testing.T) {
	if _, err := V3(0, 0, 0).Unit(); err == nil {
		t.Error("Vec3.Unit of zero vector should fail")
	}

	_, err := Direction(0, 0, 0).Unit()
	var gerr *GeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("Vec4.Unit error = %v, want *GeometryError", err)
	}
	if gerr.Op != "normalize" {
		t.Errorf("Op = %q, want normalize", gerr.Op)
	}

	u, err := Direction(3, 0, 4).Unit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(u.Len()-1) > 1e-12 || math.Abs(u.X-0.6) > 1e-12 {
		t.Errorf("Unit(3,0,4) = %v", u)
	}
}

func TestHomogenize(t *testing.T) {
	p, err := V4(2, 4, 6, 2).Homogenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != Point(1, 2, 3) {
		t.Errorf("Homogenize = %v, want (1, 2, 3, 1)", p)
	}

	if _, err := Direction(1, 1, 1).Homogenize(); err == nil {
		t.Error("Homogenize with w=0 should fail")
	}
}

func TestMat4GetSetRowMajorView(t *testing.T) {
	m := Translate(V3(1, 2, 3))
	if m.Get(0, 3) != 1 || m.Get(1, 3) != 2 || m.Get(2, 3) != 3 {
		t.Errorf("translation column = (%v, %v, %v)", m.Get(0, 3), m.Get(1, 3), m.Get(2, 3))
	}
	if m.Translation() != V3(1, 2, 3) {
		t.Errorf("Translation() = %v", m.Translation())
	}

	p := m.MulVec4(Point(1, 1, 1))
	if p != Point(2, 3, 4) {
		t.Errorf("translated point = %v, want (2, 3, 4, 1)", p)
	}
	d := m.MulVec4(Direction(1, 1, 1))
	if d != Direction(1, 1, 1) {
		t.Errorf("translated direction = %v, directions must ignore translation", d)
	}
}

func TestRotations(t *testing.T) {
	tests := []struct {
		name     string
		m        Mat4
		in, want Vec4
	}{
		{"X quarter turn", RotateX(math.Pi / 2), Direction(0, 1, 0), Direction(0, 0, 1)},
		{"Y quarter turn", RotateY(math.Pi / 2), Direction(0, 0, 1), Direction(1, 0, 0)},
		{"Z quarter turn", RotateZ(math.Pi / 2), Direction(1, 0, 0), Direction(0, 1, 0)},
		{"quat about Z", FromQuat([4]float64{0, 0, math.Sqrt2 / 2, math.Sqrt2 / 2}), Direction(1, 0, 0), Direction(0, 1, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.m.MulVec4(tc.in)
			if got.Sub(tc.want).Len() > 1e-9 {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMat4Inverse(t *testing.T) {
	m := Compose(V3(1, -2, 3), RotateY(0.7).Mul(RotateX(-0.3)), V3(2, 0.5, 3))

	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Mul(inv).ApproxEqual(Identity(), 1e-9) {
		t.Errorf("m * inv(m) = %v, want identity", m.Mul(inv))
	}
	if !inv.Mul(m).ApproxEqual(Identity(), 1e-9) {
		t.Errorf("inv(m) * m = %v, want identity", inv.Mul(m))
	}
}

func TestMat4InverseSingular(t *testing.T) {
	_, err := Scale(V3(1, 0, 1)).Inverse()
	var gerr *GeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %v, want *GeometryError", err)
	}
}

func TestMat4Transpose(t *testing.T) {
	m := Translate(V3(4, 5, 6))
	tr := m.Transpose()
	if tr.Get(3, 0) != 4 || tr.Get(3, 1) != 5 || tr.Get(3, 2) != 6 {
		t.Errorf("transpose bottom row = %v %v %v", tr.Get(3, 0), tr.Get(3, 1), tr.Get(3, 2))
	}
	if tr.Transpose() != m {
		t.Error("double transpose should be the original matrix")
	}
}

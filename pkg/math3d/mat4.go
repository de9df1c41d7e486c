package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order.
// This matches OpenGL and glTF conventions, so glTF node matrices can be
// used as-is.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// Use Get and Set with (row, col) rather than indexing directly.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m.Set(0, 3, v.X)
	m.Set(1, 3, v.Y)
	m.Set(2, 3, v.Z)
	return m
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m.Set(0, 0, v.X)
	m.Set(1, 1, v.Y)
	m.Set(2, 2, v.Z)
	return m
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX creates a rotation matrix around the X axis (angle in radians).
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m.Set(1, 1, c)
	m.Set(1, 2, -s)
	m.Set(2, 1, s)
	m.Set(2, 2, c)
	return m
}

// RotateY creates a rotation matrix around the Y axis (angle in radians).
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m.Set(0, 0, c)
	m.Set(0, 2, s)
	m.Set(2, 0, -s)
	m.Set(2, 2, c)
	return m
}

// RotateZ creates a rotation matrix around the Z axis (angle in radians).
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m.Set(0, 0, c)
	m.Set(0, 1, -s)
	m.Set(1, 0, s)
	m.Set(1, 1, c)
	return m
}

// FromQuat creates a rotation matrix from a unit quaternion (x, y, z, w),
// the order glTF stores rotations in.
func FromQuat(q [4]float64) Mat4 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	m := Identity()
	m.Set(0, 0, 1-2*(y*y+z*z))
	m.Set(0, 1, 2*(x*y-z*w))
	m.Set(0, 2, 2*(x*z+y*w))
	m.Set(1, 0, 2*(x*y+z*w))
	m.Set(1, 1, 1-2*(x*x+z*z))
	m.Set(1, 2, 2*(y*z-x*w))
	m.Set(2, 0, 2*(x*z-y*w))
	m.Set(2, 1, 2*(y*z+x*w))
	m.Set(2, 2, 1-2*(x*x+y*y))
	return m
}

// Compose returns translate * rotate * scale, the usual placement order.
func Compose(translate Vec3, rotate Mat4, scale Vec3) Mat4 {
	return Translate(translate).Mul(rotate).Mul(Scale(scale))
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for row := range 4 {
		for col := range 4 {
			t.Set(col, row, m.Get(row, col))
		}
	}
	return t
}

// Inverse returns the inverse of the matrix using Gauss-Jordan elimination
// with partial pivoting. A singular matrix is a GeometryError.
func (m Mat4) Inverse() (Mat4, error) {
	a := m
	inv := Identity()

	for col := range 4 {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(a.Get(row, col)) > math.Abs(a.Get(pivot, col)) {
				pivot = row
			}
		}
		if math.Abs(a.Get(pivot, col)) < Epsilon {
			return Identity(), geometryErr("inverse", "matrix is singular")
		}
		if pivot != col {
			a.swapRows(pivot, col)
			inv.swapRows(pivot, col)
		}

		p := a.Get(col, col)
		for k := range 4 {
			a.Set(col, k, a.Get(col, k)/p)
			inv.Set(col, k, inv.Get(col, k)/p)
		}

		for row := range 4 {
			if row == col {
				continue
			}
			f := a.Get(row, col)
			if f == 0 {
				continue
			}
			for k := range 4 {
				a.Set(row, k, a.Get(row, k)-f*a.Get(col, k))
				inv.Set(row, k, inv.Get(row, k)-f*inv.Get(col, k))
			}
		}
	}

	return inv, nil
}

func (m *Mat4) swapRows(i, j int) {
	for col := range 4 {
		m[i+col*4], m[j+col*4] = m[j+col*4], m[i+col*4]
	}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// ApproxEqual reports whether every element of a and b differs by at most tol.
//
//nolint:st1016 // a,b naming convention is clearer for comparisons
func (a Mat4) ApproxEqual(b Mat4, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

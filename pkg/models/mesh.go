package models

import (
	"fmt"
	"math"

	"github.com/taigrr/phong/pkg/math3d"
)

// Mesh is a triangle mesh object. Every triangle is tested for each ray.
type Mesh struct {
	placement

	Name     string
	Vertices []MeshVertex
	Faces    [][3]int // Indices into Vertices, counter-clockwise front faces
	Flat     bool     // Shade with face normals instead of interpolated ones

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// NewMesh places a triangle mesh. Every face index must name a vertex.
// Vertex normals are computed when none of the vertices carry one.
func NewMesh(name string, vertices []MeshVertex, faces [][3]int, transform math3d.Mat4, refl Reflectance, color RGB) (*Mesh, error) {
	p, err := newPlacement("mesh", transform, refl, color)
	if err != nil {
		return nil, err
	}
	for i, f := range faces {
		for _, v := range f {
			if v < 0 || v >= len(vertices) {
				return nil, fmt.Errorf("face %d: vertex index %d out of range", i, v)
			}
		}
	}
	m := &Mesh{
		placement: p,
		Name:      name,
		Vertices:  vertices,
		Faces:     faces,
	}

	hasNormals := false
	for _, v := range m.Vertices {
		if v.Normal.Len() > 0.001 {
			hasNormals = true
			break
		}
	}
	if !hasNormals {
		m.CalculateSmoothNormals()
	}
	m.CalculateBounds()
	return m, nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Bounds returns the local bounding box.
func (m *Mesh) Bounds() AABB {
	return NewAABB(m.BoundsMin, m.BoundsMax)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateSmoothNormals computes area-weighted averaged vertex normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Vec3{}
	}

	for _, f := range m.Faces {
		n := m.faceNormal(f) // Don't normalize yet
		for _, vi := range f {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(n)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

func (m *Mesh) faceNormal(f [3]int) math3d.Vec3 {
	v0 := m.Vertices[f[0]].Position
	edge1 := m.Vertices[f[1]].Position.Sub(v0)
	edge2 := m.Vertices[f[2]].Position.Sub(v0)
	return edge1.Cross(edge2)
}

// Intersect returns the nearest triangle hit using Möller-Trumbore.
func (m *Mesh) Intersect(origin, direction math3d.Vec4) float64 {
	o, d := origin.Vec3(), direction.Vec3()
	best := math.Inf(1)

	for _, f := range m.Faces {
		if t, ok := m.intersectFace(f, o, d); ok && t < best {
			best = t
		}
	}

	if math.IsInf(best, 1) {
		return NoHit
	}
	return best
}

func (m *Mesh) intersectFace(f [3]int, o, d math3d.Vec3) (float64, bool) {
	v0 := m.Vertices[f[0]].Position
	edge1 := m.Vertices[f[1]].Position.Sub(v0)
	edge2 := m.Vertices[f[2]].Position.Sub(v0)

	h := d.Cross(edge2)
	det := edge1.Dot(h)
	if math.Abs(det) < math3d.Epsilon {
		return 0, false
	}
	inv := 1 / det

	s := o.Sub(v0)
	u := inv * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := inv * d.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := inv * edge2.Dot(q)
	return t, t >= 0
}

// NormalAt finds the triangle the point lies on and interpolates its vertex
// normals.
func (m *Mesh) NormalAt(point math3d.Vec4) math3d.Vec4 {
	p := point.Vec3()
	bestDist := math.Inf(1)
	var best math3d.Vec3

	for _, f := range m.Faces {
		n := m.faceNormal(f).Normalize()
		v0 := m.Vertices[f[0]].Position
		dist := math.Abs(n.Dot(p.Sub(v0)))
		if dist >= bestDist {
			continue
		}
		bc, inside := m.barycentric(f, p)
		if !inside {
			continue
		}
		bestDist = dist
		if m.Flat {
			best = n
			continue
		}
		best = m.Vertices[f[0]].Normal.Scale(bc.X).
			Add(m.Vertices[f[1]].Normal.Scale(bc.Y)).
			Add(m.Vertices[f[2]].Normal.Scale(bc.Z))
		if best.Len() == 0 {
			best = n
		}
	}

	return math3d.V4FromV3(best.Normalize(), 0)
}

// barycentric returns the barycentric coordinates of p projected onto face f.
func (m *Mesh) barycentric(f [3]int, p math3d.Vec3) (math3d.Vec3, bool) {
	const tol = 1e-6
	a := m.Vertices[f[0]].Position
	v0 := m.Vertices[f[1]].Position.Sub(a)
	v1 := m.Vertices[f[2]].Position.Sub(a)
	v2 := p.Sub(a)

	d00, d01, d11 := v0.Dot(v0), v0.Dot(v1), v1.Dot(v1)
	d20, d21 := v2.Dot(v0), v2.Dot(v1)
	denom := d00*d11 - d01*d01
	if math.Abs(denom) < math3d.Epsilon {
		return math3d.Vec3{}, false
	}
	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	u := 1 - v - w
	return math3d.V3(u, v, w), u >= -tol && v >= -tol && w >= -tol
}

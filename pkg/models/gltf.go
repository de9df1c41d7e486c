package models

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/phong/pkg/math3d"
)

// GLTFLoader builds a Scene from a glTF 2.0 document.
//
// Nodes are mapped by name prefix (case-insensitive):
//
//	sphere*, plane*, cube*  - primitive placed by the node's world transform
//	light*                  - point light at the node's world position
//	anything with a mesh    - triangle mesh
//
// A node referencing a perspective camera sets the scene camera; without one
// the camera is framed on the meshes. Phong
// coefficients and colors can be given in node or material extras:
//
//	{"color": [255, 0, 0], "ambient": 0.2, "diffuse": 0.6,
//	 "specular": 0.3, "shininess": 16, "intensity": [1, 1, 1]}
type GLTFLoader struct {
	// SmoothNormals interpolates vertex normals; when false meshes are
	// shaded with flat face normals.
	SmoothNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{SmoothNormals: true}
}

// LoadGLTF loads a .gltf or .glb scene with default options.
func LoadGLTF(path string) (*Scene, error) {
	return NewGLTFLoader().Load(path)
}

// Load opens the document and walks its default scene.
func (l *GLTFLoader) Load(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	s := NewScene(filepath.Base(path))
	if len(doc.Scenes) == 0 {
		return nil, fmt.Errorf("gltf %s: document has no scenes", s.Name)
	}
	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
		return nil, fmt.Errorf("gltf %s: scene index %d out of range", s.Name, sceneIdx)
	}

	for _, n := range doc.Scenes[sceneIdx].Nodes {
		if err := l.visit(doc, n, math3d.Identity(), s); err != nil {
			return nil, fmt.Errorf("gltf %s: %w", s.Name, err)
		}
	}

	if s.Camera == DefaultCameraSpec() {
		frameMeshes(s)
	}
	return s, nil
}

// frameMeshes aims a camera-less scene at the combined bounds of its meshes
// from +Z, backed off until the largest dimension fits the field of view.
func frameMeshes(s *Scene) {
	var (
		bounds AABB
		found  bool
	)
	for _, obj := range s.Objects {
		m, ok := obj.(*Mesh)
		if !ok || len(m.Vertices) == 0 {
			continue
		}
		b := m.Bounds().Transform(m.Transform())
		if found {
			bounds = bounds.Union(b)
		} else {
			bounds, found = b, true
		}
	}
	if !found {
		return
	}

	size := bounds.Size()
	maxDim := max(size.X, size.Y, size.Z)
	if maxDim <= 0 {
		return
	}
	center := bounds.Center()
	dist := maxDim/math.Tan(s.Camera.FOV*math.Pi/360) + size.Z/2
	s.Camera.Gaze = center
	s.Camera.Eye = center.Add(math3d.V3(0, 0, dist))
}

// visit processes one node and its children under the parent transform.
func (l *GLTFLoader) visit(doc *gltf.Document, idx int, parent math3d.Mat4, s *Scene) error {
	if idx < 0 || idx >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	node := doc.Nodes[idx]
	world := parent.Mul(nodeMatrix(node))

	if node.Camera != nil {
		if err := applyGLTFCamera(doc, *node.Camera, world, &s.Camera); err != nil {
			return fmt.Errorf("node %q: %w", node.Name, err)
		}
	}

	name := strings.ToLower(node.Name)
	var mat *gltf.Material
	if node.Mesh != nil && *node.Mesh < len(doc.Meshes) {
		mat = meshMaterial(doc, doc.Meshes[*node.Mesh])
	}

	switch {
	case strings.HasPrefix(name, "light"):
		pos := world.MulVec4(math3d.Point(0, 0, 0)).Vec3()
		intensity := RGB{1, 1, 1}
		if v, ok := extrasRGB(node.Extras, "intensity"); ok {
			intensity = v
		}
		s.AddLight(NewPointLight(pos, intensity))

	case strings.HasPrefix(name, "sphere"), strings.HasPrefix(name, "plane"), strings.HasPrefix(name, "cube"):
		kind := "cube"
		if strings.HasPrefix(name, "sphere") {
			kind = "sphere"
		} else if strings.HasPrefix(name, "plane") {
			kind = "plane"
		}
		obj, err := newObject(kind, world, surfaceReflectance(node, mat), surfaceColor(node, mat))
		if err != nil {
			return fmt.Errorf("node %q: %w", node.Name, err)
		}
		s.Add(obj)

	case node.Mesh != nil:
		mesh, err := l.loadMesh(doc, node, world, mat)
		if err != nil {
			return fmt.Errorf("node %q: %w", node.Name, err)
		}
		if mesh != nil {
			s.Add(mesh)
		}
	}

	for _, child := range node.Children {
		if err := l.visit(doc, child, world, s); err != nil {
			return err
		}
	}
	return nil
}

// nodeMatrix returns the local transform of a node: its matrix when set,
// otherwise T * R * S.
func nodeMatrix(node *gltf.Node) math3d.Mat4 {
	m := math3d.Mat4(node.MatrixOrDefault())
	if m != math3d.Identity() {
		return m
	}
	t := node.Translation
	sc := node.ScaleOrDefault()
	return math3d.Compose(
		math3d.V3(t[0], t[1], t[2]),
		math3d.FromQuat(node.RotationOrDefault()),
		math3d.V3(sc[0], sc[1], sc[2]),
	)
}

// applyGLTFCamera derives eye, gaze and up from a camera node. glTF cameras
// look down their local -Z with +Y up.
func applyGLTFCamera(doc *gltf.Document, idx int, world math3d.Mat4, spec *CameraSpec) error {
	if idx < 0 || idx >= len(doc.Cameras) {
		return fmt.Errorf("camera index %d out of range", idx)
	}
	cam := doc.Cameras[idx]
	if cam.Perspective == nil {
		return fmt.Errorf("camera %q: only perspective cameras are supported", cam.Name)
	}

	eye := world.MulVec4(math3d.Point(0, 0, 0)).Vec3()
	forward := world.MulVec4(math3d.Direction(0, 0, -1)).Vec3()
	spec.Eye = eye
	spec.Gaze = eye.Add(forward)
	spec.Up = world.MulVec4(math3d.Direction(0, 1, 0)).Vec3()

	p := cam.Perspective
	spec.FOV = p.Yfov * 180 / math.Pi
	if p.Znear > 0 {
		spec.Near = p.Znear
	}
	if p.Zfar != nil {
		spec.Far = *p.Zfar
	} else if spec.Far <= spec.Near {
		spec.Far = spec.Near * 100
	}
	return nil
}

// loadMesh reads every triangle primitive of the node's mesh into one Mesh.
func (l *GLTFLoader) loadMesh(doc *gltf.Document, node *gltf.Node, world math3d.Mat4, mat *gltf.Material) (*Mesh, error) {
	if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", *node.Mesh)
	}
	src := doc.Meshes[*node.Mesh]

	var (
		vertices []MeshVertex
		faces    [][3]int
	)
	for _, prim := range src.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		acc, err := accessor(doc, posIdx)
		if err != nil {
			return nil, fmt.Errorf("positions: %w", err)
		}
		positions, err := modeler.ReadPosition(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			acc, err := accessor(doc, normIdx)
			if err != nil {
				return nil, fmt.Errorf("normals: %w", err)
			}
			normals, err = modeler.ReadNormal(doc, acc, nil)
			if err != nil {
				return nil, fmt.Errorf("read normals: %w", err)
			}
		}

		base := len(vertices)
		for i, p := range positions {
			v := MeshVertex{Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))}
			if i < len(normals) {
				n := normals[i]
				v.Normal = math3d.V3(float64(n[0]), float64(n[1]), float64(n[2]))
			}
			vertices = append(vertices, v)
		}

		if prim.Indices != nil {
			acc, err := accessor(doc, *prim.Indices)
			if err != nil {
				return nil, fmt.Errorf("indices: %w", err)
			}
			indices, err := modeler.ReadIndices(doc, acc, nil)
			if err != nil {
				return nil, fmt.Errorf("read indices: %w", err)
			}
			for i, idx := range indices {
				if int(idx) >= len(positions) {
					return nil, fmt.Errorf("face %d: vertex index %d out of range", len(faces)+i/3, idx)
				}
			}
			for i := 0; i+2 < len(indices); i += 3 {
				faces = append(faces, [3]int{
					base + int(indices[i]),
					base + int(indices[i+1]),
					base + int(indices[i+2]),
				})
			}
		} else {
			// No indices, assume sequential triangles
			for i := 0; i+2 < len(positions); i += 3 {
				faces = append(faces, [3]int{base + i, base + i + 1, base + i + 2})
			}
		}
	}

	if len(faces) == 0 {
		return nil, nil
	}
	mesh, err := NewMesh(src.Name, vertices, faces, world, surfaceReflectance(node, mat), surfaceColor(node, mat))
	if err != nil {
		return nil, err
	}
	mesh.Flat = !l.SmoothNormals
	return mesh, nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

// meshMaterial returns the material of the first primitive that has one.
func meshMaterial(doc *gltf.Document, m *gltf.Mesh) *gltf.Material {
	for _, prim := range m.Primitives {
		if prim.Material != nil && *prim.Material < len(doc.Materials) {
			return doc.Materials[*prim.Material]
		}
	}
	return nil
}

// surfaceColor prefers node extras, then material extras, then the PBR base
// color factor, then white.
func surfaceColor(node *gltf.Node, mat *gltf.Material) RGB {
	if c, ok := extrasRGB(node.Extras, "color"); ok {
		return c
	}
	if mat != nil {
		if c, ok := extrasRGB(mat.Extras, "color"); ok {
			return c
		}
		if mat.PBRMetallicRoughness != nil && mat.PBRMetallicRoughness.BaseColorFactor != nil {
			f := mat.PBRMetallicRoughness.BaseColorFactor
			return RGB{f[0] * 255, f[1] * 255, f[2] * 255}
		}
	}
	return RGB{255, 255, 255}
}

// surfaceReflectance reads Phong coefficients from material extras
// overridden by node extras.
func surfaceReflectance(node *gltf.Node, mat *gltf.Material) Reflectance {
	refl := DefaultReflectance()
	sources := []any{}
	if mat != nil {
		sources = append(sources, mat.Extras)
	}
	sources = append(sources, node.Extras)

	for _, extras := range sources {
		if v, ok := extrasFloat(extras, "ambient"); ok {
			refl.Ambient = v
		}
		if v, ok := extrasFloat(extras, "diffuse"); ok {
			refl.Diffuse = v
		}
		if v, ok := extrasFloat(extras, "specular"); ok {
			refl.Specular = v
		}
		if v, ok := extrasFloat(extras, "shininess"); ok {
			refl.Shininess = v
		}
	}
	return refl
}

func extrasFloat(extras any, key string) (float64, bool) {
	m, ok := extras.(map[string]any)
	if !ok {
		return 0, false
	}
	v, ok := m[key].(float64)
	return v, ok
}

func extrasRGB(extras any, key string) (RGB, bool) {
	m, ok := extras.(map[string]any)
	if !ok {
		return RGB{}, false
	}
	var vals []float64
	switch v := m[key].(type) {
	case []any:
		for _, x := range v {
			f, ok := x.(float64)
			if !ok {
				return RGB{}, false
			}
			vals = append(vals, f)
		}
	case []float64:
		vals = v
	default:
		return RGB{}, false
	}
	if len(vals) != 3 {
		return RGB{}, false
	}
	return RGB{vals[0], vals[1], vals[2]}, true
}

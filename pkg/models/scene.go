package models

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/taigrr/phong/pkg/math3d"
)

// Scene is everything needed to render one image.
type Scene struct {
	Name       string
	Width      int
	Height     int
	Camera     CameraSpec
	Background RGB
	Objects    []Object
	Lights     []Light
}

// CameraSpec describes a camera before it is built. FOV is the vertical
// field of view in degrees.
type CameraSpec struct {
	Eye  math3d.Vec3
	Gaze math3d.Vec3
	Up   math3d.Vec3
	Near float64
	Far  float64
	FOV  float64
}

// Default image and camera settings.
const (
	DefaultWidth  = 320
	DefaultHeight = 240
	DefaultNear   = 10.0
	DefaultFar    = 50.0
	DefaultFOV    = 90.0
)

// DefaultCameraSpec looks from +Z at the origin.
func DefaultCameraSpec() CameraSpec {
	return CameraSpec{
		Eye:  math3d.V3(0, 0, 5),
		Gaze: math3d.V3(0, 0, 0),
		Up:   math3d.V3(0, 1, 0),
		Near: DefaultNear,
		Far:  DefaultFar,
		FOV:  DefaultFOV,
	}
}

// NewScene creates an empty scene with default size and camera.
func NewScene(name string) *Scene {
	return &Scene{
		Name:   name,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Camera: DefaultCameraSpec(),
	}
}

// Add appends objects to the scene.
func (s *Scene) Add(objs ...Object) {
	s.Objects = append(s.Objects, objs...)
}

// AddLight appends lights to the scene.
func (s *Scene) AddLight(lights ...Light) {
	s.Lights = append(s.Lights, lights...)
}

// ErrNoLights is returned for a scene that could only render ambient black.
var ErrNoLights = errors.New("scene has no lights")

// Validate checks the scene-level settings. Camera geometry is validated when
// the camera is built.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", s.Width, s.Height)
	}
	if len(s.Lights) == 0 {
		return ErrNoLights
	}
	for i, o := range s.Objects {
		if o == nil {
			return fmt.Errorf("object %d is nil", i)
		}
	}
	return nil
}

// Load reads a scene description, choosing the format by file extension.
func Load(path string) (*Scene, error) {
	var (
		s   *Scene
		err error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		s, err = LoadJSON(path)
	case ".gltf", ".glb":
		s, err = LoadGLTF(path)
	default:
		return nil, fmt.Errorf("unsupported scene format: %q (use .json, .gltf or .glb)", ext)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// placementMatrix builds translate * Rz * Ry * Rx * scale with angles in degrees.
func placementMatrix(translate, rotateDeg, scale math3d.Vec3) math3d.Mat4 {
	const rad = math.Pi / 180
	rot := math3d.RotateZ(rotateDeg.Z * rad).
		Mul(math3d.RotateY(rotateDeg.Y * rad)).
		Mul(math3d.RotateX(rotateDeg.X * rad))
	return math3d.Compose(translate, rot, scale)
}

// newObject builds a primitive variant by name.
func newObject(kind string, transform math3d.Mat4, refl Reflectance, color RGB) (Object, error) {
	switch kind {
	case "sphere":
		return NewSphere(transform, refl, color)
	case "plane":
		return NewPlane(transform, refl, color)
	case "cube", "box":
		return NewCube(transform, refl, color)
	default:
		return nil, fmt.Errorf("unknown object type %q", kind)
	}
}

package models

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/phong/pkg/math3d"
)

// sceneFile is the on-disk JSON scene description.
type sceneFile struct {
	Width      int         `json:"width,omitempty"`
	Height     int         `json:"height,omitempty"`
	Background *vec3Cfg    `json:"background,omitempty"`
	Camera     *cameraCfg  `json:"camera,omitempty"`
	Lights     []lightCfg  `json:"lights"`
	Objects    []objectCfg `json:"objects"`
}

type vec3Cfg [3]float64

func (v vec3Cfg) vec() math3d.Vec3 { return math3d.V3(v[0], v[1], v[2]) }
func (v vec3Cfg) rgb() RGB         { return RGB{v[0], v[1], v[2]} }

type cameraCfg struct {
	Eye  *vec3Cfg `json:"eye,omitempty"`
	Gaze *vec3Cfg `json:"gaze,omitempty"`
	Up   *vec3Cfg `json:"up,omitempty"`
	Near *float64 `json:"near,omitempty"`
	Far  *float64 `json:"far,omitempty"`
	FOV  *float64 `json:"fov,omitempty"` // Degrees
}

type lightCfg struct {
	Position  vec3Cfg  `json:"position"`
	Intensity *vec3Cfg `json:"intensity,omitempty"`
}

type reflectanceCfg struct {
	Ambient   *float64 `json:"ambient,omitempty"`
	Diffuse   *float64 `json:"diffuse,omitempty"`
	Specular  *float64 `json:"specular,omitempty"`
	Shininess *float64 `json:"shininess,omitempty"`
}

type objectCfg struct {
	Type        string          `json:"type"`
	Translate   *vec3Cfg        `json:"translate,omitempty"`
	Rotate      *vec3Cfg        `json:"rotate,omitempty"` // Degrees about X, Y, Z
	Scale       *vec3Cfg        `json:"scale,omitempty"`
	Color       *vec3Cfg        `json:"color,omitempty"`
	Reflectance *reflectanceCfg `json:"reflectance,omitempty"`

	// Mesh only
	Vertices []vec3Cfg `json:"vertices,omitempty"`
	Faces    [][3]int  `json:"faces,omitempty"`
}

// LoadJSON loads a JSON scene file.
func LoadJSON(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := ParseJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	s.Name = filepath.Base(path)
	return s, nil
}

// ParseJSON decodes a JSON scene description. Unknown fields are rejected so
// typos do not silently fall back to defaults.
func ParseJSON(r io.Reader) (*Scene, error) {
	var cfg sceneFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return cfg.build()
}

func (cfg *sceneFile) build() (*Scene, error) {
	s := NewScene("")
	if cfg.Width != 0 {
		s.Width = cfg.Width
	}
	if cfg.Height != 0 {
		s.Height = cfg.Height
	}
	if cfg.Background != nil {
		s.Background = cfg.Background.rgb()
	}
	if cfg.Camera != nil {
		cfg.Camera.apply(&s.Camera)
	}

	for _, lc := range cfg.Lights {
		intensity := RGB{1, 1, 1}
		if lc.Intensity != nil {
			intensity = lc.Intensity.rgb()
		}
		s.AddLight(NewPointLight(lc.Position.vec(), intensity))
	}

	for i, oc := range cfg.Objects {
		obj, err := oc.build()
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		s.Add(obj)
	}

	return s, nil
}

func (c *cameraCfg) apply(spec *CameraSpec) {
	if c.Eye != nil {
		spec.Eye = c.Eye.vec()
	}
	if c.Gaze != nil {
		spec.Gaze = c.Gaze.vec()
	}
	if c.Up != nil {
		spec.Up = c.Up.vec()
	}
	if c.Near != nil {
		spec.Near = *c.Near
	}
	if c.Far != nil {
		spec.Far = *c.Far
	}
	if c.FOV != nil {
		spec.FOV = *c.FOV
	}
}

func (r *reflectanceCfg) resolve() Reflectance {
	refl := DefaultReflectance()
	if r == nil {
		return refl
	}
	if r.Ambient != nil {
		refl.Ambient = *r.Ambient
	}
	if r.Diffuse != nil {
		refl.Diffuse = *r.Diffuse
	}
	if r.Specular != nil {
		refl.Specular = *r.Specular
	}
	if r.Shininess != nil {
		refl.Shininess = *r.Shininess
	}
	return refl
}

func (oc *objectCfg) build() (Object, error) {
	translate, rotate, scale := math3d.V3(0, 0, 0), math3d.V3(0, 0, 0), math3d.V3(1, 1, 1)
	if oc.Translate != nil {
		translate = oc.Translate.vec()
	}
	if oc.Rotate != nil {
		rotate = oc.Rotate.vec()
	}
	if oc.Scale != nil {
		scale = oc.Scale.vec()
	}
	color := RGB{255, 255, 255}
	if oc.Color != nil {
		color = oc.Color.rgb()
	}
	transform := placementMatrix(translate, rotate, scale)
	refl := oc.Reflectance.resolve()

	kind := strings.ToLower(oc.Type)
	if kind != "mesh" {
		return newObject(kind, transform, refl, color)
	}

	if len(oc.Vertices) < 3 || len(oc.Faces) == 0 {
		return nil, fmt.Errorf("mesh needs at least 3 vertices and 1 face")
	}
	vertices := make([]MeshVertex, len(oc.Vertices))
	for i, v := range oc.Vertices {
		vertices[i].Position = v.vec()
	}
	for i, f := range oc.Faces {
		for _, vi := range f {
			if vi < 0 || vi >= len(vertices) {
				return nil, fmt.Errorf("face %d: vertex index %d out of range", i, vi)
			}
		}
	}
	return NewMesh("mesh", vertices, oc.Faces, transform, refl, color)
}

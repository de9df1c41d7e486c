package models

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/phong/pkg/math3d"
)

const sampleScene = `{
  "width": 100,
  "height": 80,
  "background": [10, 20, 30],
  "camera": {"eye": [0, 0, 5], "gaze": [0, 0, 0], "up": [0, 1, 0], "fov": 60},
  "lights": [{"position": [0, 0, 10]}],
  "objects": [
    {"type": "sphere", "color": [200, 96, 40], "reflectance": {"ambient": 0.25, "shininess": 4}},
    {"type": "Plane", "translate": [0, -1, 0], "rotate": [-90, 0, 0]},
    {"type": "mesh", "vertices": [[0, 0, 0], [1, 0, 0], [0, 1, 0]], "faces": [[0, 1, 2]]}
  ]
}`

func TestParseJSON(t *testing.T) {
	s, err := ParseJSON(strings.NewReader(sampleScene))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	if s.Width != 100 || s.Height != 80 {
		t.Errorf("size = %dx%d, want 100x80", s.Width, s.Height)
	}
	if s.Background != (RGB{10, 20, 30}) {
		t.Errorf("background = %v", s.Background)
	}
	if s.Camera.FOV != 60 {
		t.Errorf("fov = %v, want 60", s.Camera.FOV)
	}
	if s.Camera.Near != DefaultNear || s.Camera.Far != DefaultFar {
		t.Errorf("near/far = %v/%v, want defaults", s.Camera.Near, s.Camera.Far)
	}

	if len(s.Lights) != 1 || s.Lights[0].Intensity() != (RGB{1, 1, 1}) {
		t.Errorf("lights = %v", s.Lights)
	}
	if len(s.Objects) != 3 {
		t.Fatalf("objects = %d, want 3", len(s.Objects))
	}

	refl := s.Objects[0].Reflectance()
	want := DefaultReflectance()
	want.Ambient, want.Shininess = 0.25, 4
	if refl != want {
		t.Errorf("reflectance = %+v, want %+v", refl, want)
	}
	if s.Objects[1].Color() != (RGB{255, 255, 255}) {
		t.Errorf("default color = %v", s.Objects[1].Color())
	}

	// Plane rotated onto y = -1 facing up
	hit := s.Objects[1].InverseTransform()
	o := hit.MulVec4(math3d.Point(0, 3, 0))
	d := hit.MulVec4(math3d.Direction(0, -1, 0))
	if got := s.Objects[1].Intersect(o, d); got < 3.999 || got > 4.001 {
		t.Errorf("plane hit = %v, want 4", got)
	}

	if _, ok := s.Objects[2].(*Mesh); !ok {
		t.Errorf("object 2 is %T, want *Mesh", s.Objects[2])
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unknown field", `{"lights": [], "objects": [], "colour": [1, 2, 3]}`, "colour"},
		{"unknown type", `{"objects": [{"type": "torus"}]}`, "torus"},
		{"short mesh", `{"objects": [{"type": "mesh", "vertices": [[0, 0, 0]], "faces": [[0, 0, 0]]}]}`, "at least 3"},
		{"bad face", `{"objects": [{"type": "mesh", "vertices": [[0, 0, 0], [1, 0, 0], [0, 1, 0]], "faces": [[0, 1, 7]]}]}`, "out of range"},
		{"singular scale", `{"objects": [{"type": "sphere", "scale": [1, 0, 1]}]}`, "sphere transform"},
		{"malformed", `{"objects": [`, "decode scene"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseJSON(strings.NewReader(tc.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestSceneValidate(t *testing.T) {
	s := NewScene("empty")
	if err := s.Validate(); !errors.Is(err, ErrNoLights) {
		t.Errorf("Validate() = %v, want ErrNoLights", err)
	}

	s.AddLight(NewPointLight(math3d.V3(0, 0, 10), RGB{1, 1, 1}))
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	s.Width = 0
	if err := s.Validate(); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(jsonPath, []byte(sampleScene), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(jsonPath)
	if err != nil {
		t.Fatalf("Load json: %v", err)
	}
	if s.Name != "scene.json" {
		t.Errorf("name = %q, want scene.json", s.Name)
	}

	unlit := filepath.Join(dir, "unlit.json")
	if err := os.WriteFile(unlit, []byte(`{"objects": [{"type": "sphere"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(unlit); !errors.Is(err, ErrNoLights) {
		t.Errorf("Load unlit = %v, want ErrNoLights", err)
	}

	if _, err := Load(filepath.Join(dir, "scene.obj")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

package render

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"log/slog"
	"strings"
	"testing"

	"github.com/taigrr/phong/pkg/math3d"
	"github.com/taigrr/phong/pkg/models"
)

// touching reports a hit at t = 0 for every ray, so the hit point is the
// eye itself.
type touching struct{}

func (touching) Transform() math3d.Mat4             { return math3d.Identity() }
func (touching) InverseTransform() math3d.Mat4      { return math3d.Identity() }
func (touching) Intersect(_, _ math3d.Vec4) float64 { return 0 }
func (touching) NormalAt(math3d.Vec4) math3d.Vec4   { return math3d.Direction(0, 0, 1) }
func (touching) Reflectance() models.Reflectance    { return models.DefaultReflectance() }
func (touching) Color() models.RGB                  { return models.RGB{R: 255, G: 255, B: 255} }

func TestTracerRender(t *testing.T) {
	const size = 21
	cam := defaultCamera(t, size, size)
	objects := []models.Object{coloredSphere(t, math3d.Identity(), models.RGB{R: 100, G: 60, B: 20})}
	light := models.NewPointLight(math3d.V3(0, 0, 10), models.RGB{R: 1, G: 1, B: 1})

	var logs bytes.Buffer
	tr := NewTracer(slog.New(slog.NewTextHandler(&logs, nil)))
	tr.Workers = 3
	tr.Background = ColorBlue

	fb := NewFramebuffer(size, size)
	stats, err := tr.Render(context.Background(), cam, objects, []models.Light{light}, fb)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if stats.Pixels != size*size {
		t.Errorf("pixels = %d, want %d", stats.Pixels, size*size)
	}
	if stats.Hits == 0 || stats.Hits >= stats.Pixels {
		t.Errorf("hits = %d, want some but not all pixels", stats.Hits)
	}
	if got := fb.GetPixel(0, 0); got != ColorBlue {
		t.Errorf("corner = %v, want background", got)
	}

	center := fb.GetPixel(size/2, size/2)
	want, err := Shade(cam.MinimumIntersection(cam.Ray(size/2, size/2), objects)[0],
		cam.Ray(size/2, size/2), cam, objects, light)
	if err != nil {
		t.Fatal(err)
	}
	if center != want.Clamped() {
		t.Errorf("center = %v, want %v", center, want.Clamped())
	}

	if !strings.Contains(logs.String(), "render finished") {
		t.Errorf("missing finish log, got %q", logs.String())
	}
}

func TestTracerSumsLights(t *testing.T) {
	const size = 15
	cam := defaultCamera(t, size, size)
	objects := []models.Object{coloredSphere(t, math3d.Identity(), models.RGB{R: 100, G: 60, B: 20})}
	light := models.NewPointLight(math3d.V3(2, 3, 10), models.RGB{R: 1, G: 1, B: 1})

	tr := NewTracer(nil)
	one := NewFramebuffer(size, size)
	if _, err := tr.Render(context.Background(), cam, objects, []models.Light{light}, one); err != nil {
		t.Fatal(err)
	}
	two := NewFramebuffer(size, size)
	if _, err := tr.Render(context.Background(), cam, objects, []models.Light{light, light}, two); err != nil {
		t.Fatal(err)
	}

	for y := range size {
		for x := range size {
			a, b := one.GetPixel(x, y), two.GetPixel(x, y)
			if a == tr.Background {
				continue
			}
			want := RGB{2 * int(a.R), 2 * int(a.G), 2 * int(a.B)}.Clamped()
			if b != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, b, want)
			}
		}
	}
}

func TestTracerErrors(t *testing.T) {
	cam := defaultCamera(t, 8, 8)
	light := models.NewPointLight(math3d.V3(0, 0, 10), models.RGB{R: 1, G: 1, B: 1})

	t.Run("size mismatch", func(t *testing.T) {
		_, err := NewTracer(nil).Render(context.Background(), cam, nil, nil, NewFramebuffer(4, 4))
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewTracer(nil).Render(ctx, cam, []models.Object{touching{}}, []models.Light{light}, NewFramebuffer(8, 8))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})

	t.Run("degenerate hit aborts", func(t *testing.T) {
		_, err := NewTracer(nil).Render(context.Background(), cam, []models.Object{touching{}}, []models.Light{light}, NewFramebuffer(8, 8))
		var gerr *math3d.GeometryError
		if !errors.As(err, &gerr) {
			t.Errorf("error = %v, want *math3d.GeometryError", err)
		}
	})
}

func TestTracerRenderScene(t *testing.T) {
	scene := models.NewScene("test")
	scene.Background = models.RGB{R: 10, G: 20, B: 30}
	scene.AddLight(models.NewPointLight(math3d.V3(0, 0, 10), models.RGB{R: 1, G: 1, B: 1}))
	scene.Add(sphereAt(t, math3d.V3(0, 0, 0), 1))

	fb := NewFramebuffer(16, 12)
	tr := NewTracer(nil)
	if _, err := tr.RenderScene(context.Background(), scene, fb); err != nil {
		t.Fatal(err)
	}
	if got := fb.GetPixel(0, 0); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("corner = %v, want scene background", got)
	}
	if tr.Background != ColorBlack {
		t.Error("RenderScene must not modify the tracer")
	}

	scene.Camera.Up = scene.Camera.Eye.Sub(scene.Camera.Gaze)
	if _, err := tr.RenderScene(context.Background(), scene, fb); err == nil {
		t.Error("expected camera error")
	}
}

func BenchmarkTracerRender(b *testing.B) {
	cam, err := NewCamera(64, 48, math3d.Direction(0, 1, 0), math3d.Point(0, 0, 5), math3d.Point(0, 0, 0))
	if err != nil {
		b.Fatal(err)
	}
	var objects []models.Object
	for _, x := range []float64{-2, 0, 2} {
		s, err := models.NewSphere(math3d.Translate(math3d.V3(x, 0, 0)), models.DefaultReflectance(), models.RGB{R: 200, G: 200, B: 200})
		if err != nil {
			b.Fatal(err)
		}
		objects = append(objects, s)
	}
	lights := []models.Light{models.NewPointLight(math3d.V3(0, 5, 10), models.RGB{R: 1, G: 1, B: 1})}
	fb := NewFramebuffer(64, 48)
	tr := NewTracer(nil)

	for b.Loop() {
		_, _ = tr.Render(context.Background(), cam, objects, lights, fb)
	}
}

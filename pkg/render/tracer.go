package render

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/phong/pkg/models"
)

// Tracer renders a scene into a framebuffer one row per task.
type Tracer struct {
	Workers    int        // Concurrent rows; 0 means runtime.NumCPU()
	Background color.RGBA // Color of pixels whose ray hits nothing
	Logger     *slog.Logger
}

// Stats summarizes one render.
type Stats struct {
	Pixels   int64
	Hits     int64
	Shadowed int64 // Light contributions reduced to ambient
	Elapsed  time.Duration
}

// NewTracer creates a tracer with one worker per CPU. A nil logger discards
// output.
func NewTracer(logger *slog.Logger) *Tracer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tracer{
		Workers:    runtime.NumCPU(),
		Background: ColorBlack,
		Logger:     logger,
	}
}

// Render traces every pixel of fb through cam. For each pixel the nearest hit
// is shaded once per light and the sum is clamped to 0..255. The first error
// cancels the remaining rows.
func (t *Tracer) Render(ctx context.Context, cam *Camera, objects []models.Object, lights []models.Light, fb *Framebuffer) (Stats, error) {
	if fb.Width != cam.Width() || fb.Height != cam.Height() {
		return Stats{}, fmt.Errorf("framebuffer %dx%d does not match camera %dx%d",
			fb.Width, fb.Height, cam.Width(), cam.Height())
	}
	logger := t.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := t.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger.Debug("render started",
		"width", fb.Width,
		"height", fb.Height,
		"objects", len(objects),
		"lights", len(lights),
		"workers", workers,
	)

	var pixels, hits, shadowedCount atomic.Int64
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for j := range fb.Height {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			for i := range fb.Width {
				if err := gctx.Err(); err != nil {
					return err
				}
				direction := cam.Ray(i, j)
				found := cam.MinimumIntersection(direction, objects)
				pixels.Add(1)
				if len(found) == 0 {
					fb.SetPixel(i, j, t.Background)
					continue
				}
				hits.Add(1)

				var sum RGB
				for _, light := range lights {
					c, blocked, err := shade(found[0], direction, cam, objects, light)
					if err != nil {
						return fmt.Errorf("pixel (%d, %d): %w", i, j, err)
					}
					if blocked {
						shadowedCount.Add(1)
					}
					sum = sum.Add(c)
				}
				fb.SetPixel(i, j, sum.Clamped())
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	stats := Stats{
		Pixels:   pixels.Load(),
		Hits:     hits.Load(),
		Shadowed: shadowedCount.Load(),
		Elapsed:  time.Since(start),
	}
	if err != nil {
		logger.Error("render failed", "error", err, "pixels", stats.Pixels)
		return stats, err
	}
	logger.Info("render finished",
		"pixels", stats.Pixels,
		"hits", stats.Hits,
		"shadowed", stats.Shadowed,
		"elapsed", stats.Elapsed,
	)
	return stats, nil
}

// RenderScene builds the scene's camera for fb and renders it with the
// scene background.
func (t *Tracer) RenderScene(ctx context.Context, scene *models.Scene, fb *Framebuffer) (Stats, error) {
	cam, err := CameraFromSpec(scene.Camera, fb.Width, fb.Height)
	if err != nil {
		return Stats{}, fmt.Errorf("camera: %w", err)
	}
	tr := *t
	tr.Background = rgbToRGBA(scene.Background)
	return tr.Render(ctx, cam, scene.Objects, scene.Lights, fb)
}

func rgbToRGBA(c models.RGB) color.RGBA {
	return RGB{int(c.R), int(c.G), int(c.B)}.Clamped()
}

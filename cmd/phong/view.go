package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/phong/pkg/models"
	"github.com/taigrr/phong/pkg/render"
)

const viewHelp = `Controls:
  W/S, Up/Down     - Orbit pitch
  A/D, Left/Right  - Orbit yaw
  +/-              - Zoom in/out
  R                - Reset view
  X                - Toggle wireframe overlay
  Esc, Ctrl+C      - Quit`

func newViewCmd(logger func() *slog.Logger) *cobra.Command {
	var fps int

	cmd := &cobra.Command{
		Use:   "view <scene>",
		Short: "Orbit a scene interactively in the terminal",
		Long:  "Trace the scene at terminal resolution using half-block cells.\n\n" + viewHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fps <= 0 {
				return fmt.Errorf("fps must be positive, got %d", fps)
			}
			scene, err := models.Load(args[0])
			if err != nil {
				return fmt.Errorf("load scene: %w", err)
			}
			logger().Debug("scene loaded", "name", scene.Name, "objects", len(scene.Objects))
			return runView(cmd.Context(), scene, fps)
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 30, "Target FPS")
	return cmd
}

func runView(ctx context.Context, scene *models.Scene, fps int) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Shutdown(context.Background())
	}()

	// Logging would tear through the alt screen
	tracer := render.NewTracer(nil)
	bg := scene.Background
	tracer.Background = render.RGB{R: int(bg.R), G: int(bg.G), B: int(bg.B)}.Clamped()

	orbit := NewOrbit(scene.Camera, fps)
	fb := render.NewFramebuffer(width, height*2)
	wireframe := false
	hud := newHUD(scene.Name)

	const torque = 0.02 // Radians per frame added per key press
	events := term.Events()
	frame := time.Second / time.Duration(fps)

	for {
		start := time.Now()

	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					width, height = ev.Width, ev.Height
					term.Erase()
					term.Resize(width, height)
					fb = render.NewFramebuffer(width, height*2)

				case uv.KeyPressEvent:
					switch {
					case ev.MatchString("escape", "ctrl+c"):
						return nil
					case ev.MatchString("w", "up"):
						orbit.ApplyImpulse(torque, 0)
					case ev.MatchString("s", "down"):
						orbit.ApplyImpulse(-torque, 0)
					case ev.MatchString("a", "left"):
						orbit.ApplyImpulse(0, -torque)
					case ev.MatchString("d", "right"):
						orbit.ApplyImpulse(0, torque)
					case ev.MatchString("+", "="):
						orbit.ZoomBy(0.9)
					case ev.MatchString("-", "_"):
						orbit.ZoomBy(1 / 0.9)
					case ev.MatchString("r"):
						orbit.Reset()
					case ev.MatchString("x"):
						wireframe = !wireframe
					}
				}
			default:
				break drain
			}
		}

		orbit.Update()

		if fb.Width > 0 && fb.Height > 0 {
			if err := drawFrame(ctx, tracer, scene, orbit, fb, wireframe); err != nil {
				return err
			}
			fb.Draw(term, uv.Rectangle(image.Rect(0, 0, width, height)))
		}
		hud.update()
		hud.draw(term, width, orbit)
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		if elapsed := time.Since(start); elapsed < frame {
			time.Sleep(frame - elapsed)
		}
	}
}

// drawFrame traces the scene from the orbit's eye. A camera that cannot be
// built leaves the previous frame on screen.
func drawFrame(ctx context.Context, tracer *render.Tracer, scene *models.Scene, orbit *Orbit, fb *render.Framebuffer, wireframe bool) error {
	cam, err := render.CameraFromSpec(orbit.Spec(), fb.Width, fb.Height)
	if err != nil {
		return nil
	}
	if _, err := tracer.Render(ctx, cam, scene.Objects, scene.Lights, fb); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("render: %w", err)
	}
	if wireframe {
		render.NewWireframe(cam, fb).DrawScene(scene.Objects, scene.Lights)
	}
	return nil
}

// hud is a one-line status bar on the top row.
type hud struct {
	name      string
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func newHUD(name string) *hud {
	return &hud{name: name, fpsTime: time.Now()}
}

// update counts a frame and refreshes the FPS estimate once a second.
func (h *hud) update() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

func (h *hud) draw(scr uv.Screen, width int, orbit *Orbit) {
	if width <= 0 {
		return
	}
	yaw, pitch := orbit.Angles()
	text := fmt.Sprintf(" %s  yaw %4.0f°  pitch %3.0f°  zoom %.2fx  %3.0f fps ",
		h.name, yaw*180/math.Pi, pitch*180/math.Pi, 1/orbit.Zoom, h.fps)

	style := uv.Style{Fg: render.ColorWhite, Bg: render.ColorBlack}
	col := 0
	for _, r := range text {
		if col >= width {
			break
		}
		scr.SetCell(col, 0, &uv.Cell{Content: string(r), Width: 1, Style: style})
		col++
	}
}

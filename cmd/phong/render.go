package main

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/taigrr/phong/pkg/models"
	"github.com/taigrr/phong/pkg/render"
)

type renderOptions struct {
	output    string
	width     int
	height    int
	workers   int
	wireframe bool
}

func newRenderCmd(logger func() *slog.Logger) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <scene>",
		Short: "Trace a scene into a PNG or JPEG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := models.Load(args[0])
			if err != nil {
				return fmt.Errorf("load scene: %w", err)
			}
			if cmd.Flags().Changed("width") {
				scene.Width = opts.width
			}
			if cmd.Flags().Changed("height") {
				scene.Height = opts.height
			}
			return runRender(cmd, scene, opts, logger())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "out.png", "Output image (.png, .jpg or .jpeg)")
	f.IntVar(&opts.width, "width", models.DefaultWidth, "Image width in pixels (overrides the scene)")
	f.IntVar(&opts.height, "height", models.DefaultHeight, "Image height in pixels (overrides the scene)")
	f.IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "Rows traced concurrently")
	f.BoolVar(&opts.wireframe, "wireframe", false, "Overlay object bounds, axes and lights")
	return cmd
}

func runRender(cmd *cobra.Command, scene *models.Scene, opts renderOptions, logger *slog.Logger) error {
	if scene.Width <= 0 || scene.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", scene.Width, scene.Height)
	}

	logger.Debug("scene loaded",
		"name", scene.Name,
		"objects", len(scene.Objects),
		"lights", len(scene.Lights),
		"size", fmt.Sprintf("%dx%d", scene.Width, scene.Height),
	)

	fb := render.NewFramebuffer(scene.Width, scene.Height)
	tracer := render.NewTracer(logger)
	tracer.Workers = opts.workers

	if _, err := tracer.RenderScene(cmd.Context(), scene, fb); err != nil {
		return fmt.Errorf("render %s: %w", scene.Name, err)
	}

	if opts.wireframe {
		cam, err := render.CameraFromSpec(scene.Camera, fb.Width, fb.Height)
		if err != nil {
			return fmt.Errorf("wireframe camera: %w", err)
		}
		render.NewWireframe(cam, fb).DrawScene(scene.Objects, scene.Lights)
	}

	if err := fb.Save(opts.output); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	logger.Info("image written", "path", opts.output)
	return nil
}

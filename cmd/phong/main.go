// phong - Phong-shaded ray tracer
//
// Render a scene to an image:
//
//	phong render scene.json -o out.png
//
// Or orbit it live in the terminal:
//
//	phong view scene.glb
//
// Scenes are JSON files or glTF 2.0 documents (.gltf/.glb).
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "phong",
		Short: "Ray trace scenes with Phong shading and hard shadows",
		Long: `phong traces one ray per pixel, shades the nearest hit with the Phong
model for every light and tests a single shadow ray per light.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug output")

	logger := func() *slog.Logger {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	root.AddCommand(newRenderCmd(logger), newViewCmd(logger))
	return root
}

package main

import (
	"fmt"
	"math"
	"time"

	"fortio.org/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
)

func newRenderCmd() *cobra.Command {
	var (
		scene    sceneFlags
		output   string
		width    int
		height   int
		fov      float64
		yaw      float64
		pitch    float64
		distance float64
		ambient  float64
		workers  int
		oneSided bool
	)

	cmd := &cobra.Command{
		Use:   "render <model.obj|model.glb>",
		Short: "Trace a model to a PNG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadScene(args[0], &scene)
			if err != nil {
				return err
			}

			opts := render.DefaultOptions()
			opts.Background = scene.background()
			opts.Ambient = ambient
			opts.TwoSided = !oneSided
			if workers > 0 {
				opts.Workers = workers
			}
			tracer := render.NewTracer(set.Surfaces, opts)

			cam := render.NewCamera()
			cam.SetFOV(fov * math.Pi / 180)
			cam.Orbit(math3d.Zero3(), distance, yaw*math.Pi/180, pitch*math.Pi/180)

			fb := render.NewFramebuffer(width, height)
			fb.Clear(opts.Background)

			start := time.Now()
			if err := tracer.Render(cmd.Context(), cam, fb); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			log.Infof("Traced %dx%d in %v", width, height, time.Since(start).Round(time.Millisecond))

			if err := fb.SavePNG(output); err != nil {
				return err
			}
			log.Infof("Wrote %s", output)
			return nil
		},
	}

	scene.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "facet.png", "Output PNG path")
	cmd.Flags().IntVar(&width, "width", 640, "Image width in pixels")
	cmd.Flags().IntVar(&height, "height", 480, "Image height in pixels")
	cmd.Flags().Float64Var(&fov, "fov", 60, "Vertical field of view in degrees")
	cmd.Flags().Float64Var(&yaw, "yaw", 30, "Camera yaw around the model in degrees")
	cmd.Flags().Float64Var(&pitch, "pitch", 20, "Camera pitch above the model in degrees")
	cmd.Flags().Float64Var(&distance, "distance", 4, "Camera distance from the model center")
	cmd.Flags().Float64Var(&ambient, "ambient", 0.15, "Ambient light in [0,1]")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent rows (0 = one per CPU)")
	cmd.Flags().BoolVar(&oneSided, "one-sided", false, "Leave back faces unlit")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"fortio.org/log"
	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
)

const (
	defaultDistance = 4.0
	defaultTilt     = 0.35
	autoSpin        = 0.6 // radians per second
)

// Turntable tracks one rotation axis whose velocity decays back to a
// resting speed through a harmonica spring.
type Turntable struct {
	Angle     float64
	Velocity  float64 // radians per frame
	rest      float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity
}

// NewTurntable creates a turntable that settles at rest radians per frame.
func NewTurntable(fps int, rest float64) Turntable {
	return Turntable{
		Velocity: rest,
		rest:     rest,
		// Frequency 4 = moderate settle, damping 1 = critically damped
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances the angle by one frame and eases velocity toward rest.
func (t *Turntable) Update() {
	t.Angle += t.Velocity
	t.Velocity, t.velAccel = t.velSpring.Update(t.Velocity, t.velAccel, t.rest)
}

// Nudge adds an impulse to the velocity.
func (t *Turntable) Nudge(impulse float64) {
	t.Velocity += impulse
}

func newViewCmd() *cobra.Command {
	var (
		scene sceneFlags
		fps   int
	)

	cmd := &cobra.Command{
		Use:   "view <model.obj|model.glb>",
		Short: "Spin a model in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fps <= 0 {
				return fmt.Errorf("invalid --fps %d", fps)
			}
			set, err := loadScene(args[0], &scene)
			if err != nil {
				return err
			}

			opts := render.DefaultOptions()
			opts.Background = scene.background()
			return runView(cmd.Context(), render.NewTracer(set.Surfaces, opts), opts.Background, fps)
		},
	}

	scene.register(cmd)
	cmd.Flags().IntVar(&fps, "fps", 30, "Target FPS")
	return cmd
}

func runView(ctx context.Context, tracer *render.Tracer, bg render.Color, fps int) error {
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

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			log.Errf("Terminal shutdown: %v", err)
		}
	}
	defer cleanup()

	// Each cell holds two vertically stacked pixels.
	fb := render.NewFramebuffer(width, height*2)
	cam := render.NewCamera()

	spin := NewTurntable(fps, autoSpin/float64(fps))
	tilt := defaultTilt
	distance := defaultDistance

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := term.Events()
	frame := time.Second / time.Duration(fps)
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

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
				fb.Resize(width, height*2)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "q", "ctrl+c"):
					cancel()
				case ev.MatchString("left", "a"):
					spin.Nudge(-0.05)
				case ev.MatchString("right", "d"):
					spin.Nudge(0.05)
				case ev.MatchString("up", "w"):
					tilt = math.Min(tilt+0.1, 1.4)
				case ev.MatchString("down", "s"):
					tilt = math.Max(tilt-0.1, -1.4)
				case ev.MatchString("+", "="):
					distance = math.Max(1.5, distance-0.25)
				case ev.MatchString("-", "_"):
					distance = math.Min(20, distance+0.25)
				case ev.MatchString("space"):
					spin.Nudge((rand.Float64() - 0.5) * 0.6)
				case ev.MatchString("r"):
					spin = NewTurntable(fps, autoSpin/float64(fps))
					tilt, distance = defaultTilt, defaultDistance
				}
			}

		case <-ticker.C:
			spin.Update()
			cam.Orbit(math3d.Zero3(), distance, spin.Angle, tilt)

			if fb.Empty() {
				continue
			}
			fb.Clear(bg)
			if err := tracer.Render(ctx, cam, fb); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("render: %w", err)
			}

			fb.Draw(term, uv.Rect(0, 0, width, height))
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}

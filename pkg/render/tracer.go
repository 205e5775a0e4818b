package render

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/surface"
)

// Options configures a Tracer.
type Options struct {
	Background Color       // Color of pixels whose ray hits nothing
	Light      math3d.Vec3 // Direction toward the light
	Ambient    float64     // Light floor in [0,1]
	TwoSided   bool        // Flip normals facing away from the viewer
	Workers    int         // Concurrent rows; <= 0 means runtime.NumCPU()
}

// DefaultOptions returns options for a key light above and to the right of
// the viewer.
func DefaultOptions() Options {
	return Options{
		Background: ColorNight,
		Light:      math3d.V3(0.4, 0.8, 0.6).Normalize(),
		Ambient:    0.15,
		TwoSided:   true,
		Workers:    runtime.NumCPU(),
	}
}

// Hit is the nearest intersection of a ray with the scene.
type Hit struct {
	Surface *surface.Surface
	Ray     math3d.Ray
	Dist    float64
	Point   math3d.Vec3
}

// Tracer finds the nearest surface along each ray and shades it.
// It only reads its surfaces, so one Tracer can serve concurrent calls.
type Tracer struct {
	surfaces []*surface.Surface
	bounds   AABB
	opts     Options
}

// NewTracer creates a tracer over surfaces. The surfaces must not be
// mutated while the tracer is in use; call Refit after moving them.
func NewTracer(surfaces []*surface.Surface, opts Options) *Tracer {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Tracer{
		surfaces: surfaces,
		bounds:   BoundsOf(surfaces),
		opts:     opts,
	}
}

// Refit recomputes the scene bounds.
func (t *Tracer) Refit() {
	t.bounds = BoundsOf(t.surfaces)
}

// Bounds returns the box enclosing every surface.
func (t *Tracer) Bounds() AABB {
	return t.bounds
}

// Trace returns the nearest surface hit by ray. Every surface is tested
// against one shared distance bound, so each accepted hit narrows the
// search for the rest.
func (t *Tracer) Trace(ray math3d.Ray) (Hit, bool) {
	dist := math.Inf(1)
	if !t.bounds.Hit(ray, dist) {
		return Hit{}, false
	}

	var nearest *surface.Surface
	for _, s := range t.surfaces {
		if s.Intersect(ray, &dist) {
			nearest = s
		}
	}
	if nearest == nil {
		return Hit{}, false
	}
	return Hit{Surface: nearest, Ray: ray, Dist: dist, Point: ray.At(dist)}, true
}

// Shade returns the lit color of hit.
func (t *Tracer) Shade(hit Hit) Color {
	base := hit.Surface.ColorAt(hit.Point)
	n := hit.Surface.NormalAt(hit.Point)
	if t.opts.TwoSided && n.Dot(hit.Ray.Direction) > 0 {
		n = n.Negate()
	}
	return Shade(base, Lambert(n, t.opts.Light, t.opts.Ambient))
}

// Pixel returns the color of the primary ray through pixel (x, y).
func (t *Tracer) Pixel(cam *Camera, x, y, width, height int) Color {
	hit, ok := t.Trace(cam.Ray(x, y, width, height))
	if !ok {
		return t.opts.Background
	}
	return t.Shade(hit)
}

// Render fills fb as seen from cam. Rows are traced concurrently; each
// worker owns its rays and distance bounds. Render stops early and returns
// the context error if ctx is cancelled.
func (t *Tracer) Render(ctx context.Context, cam *Camera, fb *Framebuffer) error {
	if fb.Empty() {
		return ErrEmptyFramebuffer
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.opts.Workers)

	for y := range fb.Height {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := range fb.Width {
				fb.SetPixel(x, y, t.Pixel(cam, x, y, fb.Width, fb.Height))
			}
			return nil
		})
	}
	return g.Wait()
}

// facet - ray-cast triangle meshes to PNG or the terminal.
//
// Commands:
//
//	render <model> -o out.png  - Trace a still image
//	view <model>               - Spinning turntable in the terminal
//	info <model>               - Mesh and surface statistics
//
// View controls:
//
//	Left/Right, A/D  - Spin
//	Up/Down, W/S     - Tilt camera
//	+/-              - Zoom
//	Space            - Random spin
//	R                - Reset view
//	Esc, Q, Ctrl+C   - Quit
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"fortio.org/log"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/facet/pkg/models"
	"github.com/taigrr/facet/pkg/render"
)

func main() {
	var logLevel string

	root := &cobra.Command{
		Use:   "facet",
		Short: "Ray-cast OBJ and glTF meshes",
		Long: `facet - ray-cast OBJ and glTF meshes.

Every pixel is resolved against the mesh's triangles: the nearest hit is
found by intersection, and its color, texture and normal (optionally
perturbed by a tangent-space normal map) are interpolated from the
triangle's vertices.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return log.SetLogLevelStr(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, verbose, info, warning, error)")

	root.AddCommand(newRenderCmd(), newViewCmd(), newInfoCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, root); err != nil {
		stop()
		os.Exit(1)
	}
}

// sceneFlags are the flags shared by render and view.
type sceneFlags struct {
	texture   string
	normalMap string
	waves     float64
	smooth    bool
	clamp     bool
	bilinear  bool
	bg        string
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.texture, "texture", "", "Path to texture image (PNG/JPG), replaces material textures")
	cmd.Flags().StringVar(&f.normalMap, "normal-map", "", "Path to tangent-space normal map, replaces material normal maps")
	cmd.Flags().Float64Var(&f.waves, "waves", 0, "Use a procedural ripple normal map with this many waves")
	cmd.Flags().BoolVar(&f.smooth, "smooth", true, "Interpolate vertex normals (false gives flat facets)")
	cmd.Flags().BoolVar(&f.clamp, "clamp", false, "Clamp texture coordinates instead of tiling")
	cmd.Flags().BoolVar(&f.bilinear, "bilinear", false, "Bilinear texture filtering")
	cmd.Flags().StringVar(&f.bg, "bg", "16,18,28", "Background color (R,G,B)")
}

// background parses the --bg flag, keeping the default on malformed input.
func (f *sceneFlags) background() render.Color {
	c := render.ColorNight
	if _, err := fmt.Sscanf(f.bg, "%d,%d,%d", &c.R, &c.G, &c.B); err != nil {
		log.Warnf("Invalid --bg %q, using default: %v", f.bg, err)
		return render.ColorNight
	}
	return c
}

// loadTexture reads an image as a texture with the flags' sampling options.
func (f *sceneFlags) loadTexture(path string) (*render.Texture, error) {
	tex, err := render.LoadTexture(path)
	if err != nil {
		return nil, err
	}
	f.configure(tex)
	return tex, nil
}

func (f *sceneFlags) configure(tex *render.Texture) {
	if f.bilinear {
		tex.Filter = render.FilterBilinear
	}
	if f.clamp {
		tex.Wrap = render.WrapClamp
	}
}

// builder returns a mesh builder for the flags. Maps that fail to load are
// reported and skipped.
func (f *sceneFlags) builder() *models.Builder {
	b := &models.Builder{Smooth: f.smooth, Clamp: f.clamp}
	if f.bilinear {
		b.Filter = render.FilterBilinear
	}

	if f.texture != "" {
		if tex, err := f.loadTexture(f.texture); err != nil {
			log.Warnf("Could not load texture: %v", err)
		} else {
			b.Texture = tex
		}
	}

	switch {
	case f.normalMap != "":
		if tex, err := f.loadTexture(f.normalMap); err != nil {
			log.Warnf("Could not load normal map: %v", err)
		} else {
			b.NormalMap = tex
		}
	case f.waves > 0:
		tex := render.NewWaveNormalMap(256, 256, f.waves, 0.6)
		f.configure(tex)
		b.NormalMap = tex
	}
	return b
}

// loadMesh reads a model, picking the loader by file extension.
func loadMesh(path string, smooth bool) (*models.Mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".glb", ".gltf":
		loader := models.NewGLTFLoader()
		loader.SmoothNormals = smooth
		return loader.Load(path)
	case ".obj":
		loader := models.NewOBJLoader()
		loader.SmoothNormals = smooth
		return loader.LoadFile(path)
	default:
		return nil, fmt.Errorf("unsupported format: %s (use .obj, .glb or .gltf)", ext)
	}
}

// loadScene loads a model and builds it into surfaces centered on the
// origin with a largest dimension of 2.
func loadScene(path string, f *sceneFlags) (*models.SurfaceSet, error) {
	mesh, err := loadMesh(path, f.smooth)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	set, err := f.builder().Build(mesh)
	if err != nil {
		return nil, fmt.Errorf("build surfaces: %w", err)
	}
	if set.Skipped > 0 {
		log.Warnf("%s: skipped %d degenerate faces", filepath.Base(path), set.Skipped)
	}
	log.Infof("Loaded %s (%d vertices, %d surfaces)", filepath.Base(path), set.Arena.Len(), len(set.Surfaces))

	set.Fit(2)
	return set, nil
}

package render

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	"github.com/taigrr/facet/pkg/surface"
)

var _ surface.Texture = (*Texture)(nil)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Texture is an image addressed by UV coordinates, with V = 0 at the bottom
// row. It satisfies surface.Texture and is linked either as a diffuse
// texture or as a tangent-space normal map.
type Texture struct {
	Width, Height int
	Image         *image.RGBA
	Wrap          WrapMode
	Filter        FilterMode
}

// NewTexture creates a transparent texture that repeats and samples nearest.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Image:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Generate fills a new texture by evaluating texel for every pixel.
func Generate(width, height int, texel func(x, y int) Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			tex.Image.SetRGBA(x, y, texel(x, y))
		}
	}
	return tex
}

// LoadTexture loads a texture from a PNG or JPEG file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage copies img, rebased so its top-left pixel is (0, 0).
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	tex := NewTexture(b.Dx(), b.Dy())
	draw.Draw(tex.Image, tex.Image.Bounds(), img, b.Min, draw.Src)
	return tex
}

// NewCheckerTexture alternates c1 and c2 in squares of checkSize pixels.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	return Generate(width, height, func(x, y int) Color {
		if (x/checkSize+y/checkSize)%2 == 0 {
			return c1
		}
		return c2
	})
}

// NewGradientTexture fades from left to right across the width.
func NewGradientTexture(width, height int, left, right Color) *Texture {
	span := float64(max(width-1, 1))
	return Generate(width, height, func(x, _ int) Color {
		return lerpColor(left, right, float64(x)/span)
	})
}

// FlatNormal is the normal-map texel for an unperturbed normal, (0, 0, 1)
// in tangent space.
var FlatNormal = Color{R: 128, G: 128, B: 255, A: 255}

// NewFlatNormalMap creates a 1x1 normal map that leaves normals unchanged.
func NewFlatNormalMap() *Texture {
	return Generate(1, 1, func(int, int) Color { return FlatNormal })
}

// NewWaveNormalMap creates a normal map for a height field of parallel
// sine ridges running along V. waves is the number of ridges across U and
// strength scales their slope.
func NewWaveNormalMap(width, height int, waves, strength float64) *Texture {
	return Generate(width, height, func(x, _ int) Color {
		u := (float64(x) + 0.5) / float64(width)
		slope := strength * 2 * math.Pi * waves * math.Cos(2*math.Pi*waves*u)
		return EncodeNormal(-slope, 0, 1)
	})
}

// EncodeNormal packs a tangent-space direction into a normal-map texel.
// The direction is normalized first.
func EncodeNormal(x, y, z float64) Color {
	l := math.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return FlatNormal
	}
	enc := func(c float64) uint8 {
		return uint8(math.Round((c/l*0.5 + 0.5) * 255))
	}
	return Color{R: enc(x), G: enc(y), B: enc(z), A: 255}
}

// SetPixel sets a pixel; writes outside the texture are dropped.
func (t *Texture) SetPixel(x, y int, c Color) {
	t.Image.SetRGBA(x, y, c)
}

// GetPixel returns the pixel at (x, y), or transparent black outside.
func (t *Texture) GetPixel(x, y int) Color {
	return t.Image.RGBAAt(x, y)
}

// Repeats reports whether the texture tiles. Surfaces fall back to their
// material color outside [0,1] when this is false.
func (t *Texture) Repeats() bool {
	return t.Wrap == WrapRepeat
}

// Sample returns the texel at (u, v).
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}

	// Image rows run top-down while V runs bottom-up.
	fx := t.wrap(u) * float64(t.Width)
	fy := (1 - t.wrap(v)) * float64(t.Height)

	if t.Filter == FilterBilinear {
		return t.bilinear(fx-0.5, fy-0.5)
	}
	return t.GetPixel(min(int(fx), t.Width-1), min(int(fy), t.Height-1))
}

func (t *Texture) wrap(c float64) float64 {
	if t.Wrap == WrapClamp {
		return math.Max(0, math.Min(1, c))
	}
	return c - math.Floor(c)
}

// bilinear blends the four texels around pixel-space point (fx, fy).
func (t *Texture) bilinear(fx, fy float64) Color {
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0, fy-y0

	at := func(x, y int) Color {
		return t.GetPixel(t.texel(x, t.Width), t.texel(y, t.Height))
	}
	ix, iy := int(x0), int(y0)
	top := lerpColor(at(ix, iy), at(ix+1, iy), tx)
	bot := lerpColor(at(ix, iy+1), at(ix+1, iy+1), tx)
	return lerpColor(top, bot, ty)
}

// texel maps a pixel index that may fall off the edge back into [0, size).
func (t *Texture) texel(i, size int) int {
	if t.Wrap == WrapClamp {
		return max(0, min(i, size-1))
	}
	return ((i % size) + size) % size
}

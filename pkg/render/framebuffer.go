// Package render casts rays against facet surfaces and writes the shaded
// result to a framebuffer, which can be saved as PNG or drawn to the
// terminal with half-block cells.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// ErrEmptyFramebuffer is returned when rendering to or saving a framebuffer
// with no pixels.
var ErrEmptyFramebuffer = errors.New("render: empty framebuffer")

// Framebuffer is a 2D array of pixels.
// Terminal output uses double vertical resolution with half-block
// characters (▀), so a terminal framebuffer is twice as tall as the rows it
// fills.
type Framebuffer struct {
	Width  int          // Width in pixels
	Height int          // Height in pixels
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Empty reports whether the framebuffer has no pixels.
func (fb *Framebuffer) Empty() bool {
	return fb.Width <= 0 || fb.Height <= 0
}

// Resize changes the dimensions, reallocating only when the pixel count
// grows. Contents are undefined afterwards.
func (fb *Framebuffer) Resize(width, height int) {
	fb.Width = width
	fb.Height = height
	if n := width * height; n > cap(fb.Pixels) {
		fb.Pixels = make([]color.RGBA, n)
	} else {
		fb.Pixels = fb.Pixels[:n]
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	if fb.Empty() {
		return ErrEmptyFramebuffer
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

package raster

import (
	"fmt"
	stdimage "image"
	"image/png"
	"os"

	"github.com/taigrr/raster/pkg/math3d"
)

// DepthScale is the depth range the viewport matrix maps NDC z into; see
// Viewport in transform.go.
const DepthScale = 255.0

// DisplayBuffer selects which buffer a Draw call serializes.
type DisplayBuffer int

const (
	DisplayFrame DisplayBuffer = iota
	DisplayDepth
)

// Framebuffer owns a color buffer and a depth buffer of identical
// dimensions. Row 0 of the color buffer is the top of the window; pixel
// writes via SetPixel use a y-up coordinate system and invert y before
// indexing.
type Framebuffer struct {
	Width, Height int
	Color         []Color
	Depth         []float32

	// Viewport is cached after the first rasterization pass configures it.
	Viewport math3d.Mat4
}

// NewFramebuffer allocates a framebuffer with its required initial values:
// opaque black color, zero depth.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Color:  make([]Color, width*height),
		Depth:  make([]float32, width*height),
	}
	fb.Clear()
	return fb
}

// Clear resets color to opaque black and depth to zero.
func (fb *Framebuffer) Clear() {
	for i := range fb.Color {
		fb.Color[i] = OpaqueBlack
		fb.Depth[i] = 0
	}
}

// SetPixel writes a color at (x,y) in a y-up coordinate system, viewport
// clipped: out-of-range writes are silently dropped.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	yy := fb.Height - y - 1
	fb.Color[yy*fb.Width+x] = c
}

// depthColorBuffer produces the depth-visualization buffer: each depth
// sample z mapped to the color (z, z, z, 255) via color_from_vec4.
func (fb *Framebuffer) depthColorBuffer() []Color {
	out := make([]Color, len(fb.Depth))
	for i, z := range fb.Depth {
		zf := float64(z)
		out[i] = colorFromVec4(math3d.V4(zf, zf, zf, 255))
	}
	return out
}

// Draw copies either the color buffer or the depth-visualization buffer
// into frame, a caller-supplied byte slice of length 4*Width*Height,
// serializing each packed color big-endian: R,G,B,A,R,G,B,A,...
func (fb *Framebuffer) Draw(frame []byte, which DisplayBuffer) {
	var src []Color
	switch which {
	case DisplayDepth:
		src = fb.depthColorBuffer()
	default:
		src = fb.Color
	}
	for i, c := range src {
		frame[i*4+0] = byte(c >> 24)
		frame[i*4+1] = byte(c >> 16)
		frame[i*4+2] = byte(c >> 8)
		frame[i*4+3] = byte(c)
	}
}

// SnapshotColor copies the color buffer into a new Texture the same
// dimensions as the framebuffer, used to capture the depth pass's output as
// a shadow map.
func (fb *Framebuffer) SnapshotColor() *Texture {
	tex := NewTexture(fb.Width, fb.Height)
	copy(tex.Buf, fb.Color)
	return tex
}

// ToImage converts the selected buffer to a standard Go image.RGBA, the
// format the PNG-encoding presentation surface needs.
func (fb *Framebuffer) ToImage(which DisplayBuffer) *stdimage.RGBA {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, fb.Width, fb.Height))
	fb.Draw(img.Pix, which)
	return img
}

// SavePNG encodes the selected buffer as a PNG file at path.
func (fb *Framebuffer) SavePNG(path string, which DisplayBuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, fb.ToImage(which)); err != nil {
		return fmt.Errorf("encode png %q: %w", path, err)
	}
	return nil
}

package raster

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"math"
	"os"
)

// Texture owns a width*height grid of packed RGBA samples, stored row-major
// with row 0 as the top of the source image.
type Texture struct {
	Width, Height float64
	Buf           []Color
}

// NewTexture allocates a texture of the given dimensions, zeroed (fully
// transparent black).
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  float64(width),
		Height: float64(height),
		Buf:    make([]Color, width*height),
	}
}

// LoadTexture reads an image file and packs it per the texture-loader
// contract: (R<<24)|(G<<16)|(B<<8)|0xFF, row 0 of the packed buffer is the
// top row of the source image.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage packs a decoded image.Image into a Texture.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	tex := NewTexture(width, height)

	for y := range height {
		for x := range width {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			tex.Buf[y*width+x] = Color(r>>8)<<24 | Color(g>>8)<<16 | Color(b>>8)<<8 | 0xFF
		}
	}
	return tex
}

// lookup returns the packed color at integer index y*width+x. The caller is
// responsible for bounds and for any floor/ceil rounding of x, y.
func (t *Texture) lookup(x, y float64) Color {
	return t.Buf[bufIndex(x, y, t.Width)]
}

// lookupYInvert indexes with the y-inverted convention, matching the
// orientation shadow-map lookups expect from shader-supplied NDC-style
// coordinates.
func (t *Texture) lookupYInvert(x, y float64) Color {
	return t.Buf[bufIndexYInvert(x, y, t.Width, t.Height)]
}

// bufIndex is the plain row-major index: y*width+x.
func bufIndex(x, y, width float64) int {
	return int(y)*int(width) + int(x)
}

// bufIndexYInvert is the shared y-inverted index used by both the shadow
// texture lookup and the rasterizer's own zbuffer/color writes (§4.5, §4.3).
// Read literally, spec's "(height-y)*width+x" overflows a width*height
// buffer for the valid loop value y=0 (the row nearest the bottom edge in
// the y-up convention the rasterizer's inner loop uses); this uses the
// equivalent zero-indexed-row form (height-1-y), matching the convention
// Framebuffer.SetPixel already uses, so the whole module has exactly one
// y-flip convention rather than two that differ by one row.
func bufIndexYInvert(x, y, width, height float64) int {
	return int(height-1-y)*int(width) + int(x)
}

// clampCoord keeps a texel coordinate within [0, limit-1], so that (u,v)
// exactly on the u=1 or v=0 edge (which maps to one past the last row or
// column) still lands on a valid texel instead of overrunning Buf.
func clampCoord(v, limit float64) float64 {
	if v < 0 {
		return 0
	}
	if v > limit-1 {
		return limit - 1
	}
	return v
}

// sampleNN maps (u,v) in [0,1]^2 to (u*width, height-v*height), floors both,
// and looks up the nearest texel.
func (t *Texture) sampleNN(u, v float64) Color {
	x := math.Floor(clampCoord(u*t.Width, t.Width))
	y := math.Floor(clampCoord(t.Height-v*t.Height, t.Height))
	return t.lookup(x, y)
}

// sampleLerp bilinearly interpolates the four texels enclosing (u,v).
func (t *Texture) sampleLerp(u, v float64) Color {
	x := clampCoord(u*t.Width, t.Width)
	y := clampCoord(t.Height-v*t.Height, t.Height)

	x1, y1 := math.Floor(x), math.Floor(y)
	x2, y2 := math.Min(math.Ceil(x), t.Width-1), math.Min(math.Ceil(y), t.Height-1)
	sx, sy := x-x1, y-y1

	c11 := vec4FromColor(t.lookup(x1, y1))
	c21 := vec4FromColor(t.lookup(x2, y1))
	c12 := vec4FromColor(t.lookup(x1, y2))
	c22 := vec4FromColor(t.lookup(x2, y2))

	v1 := c11.Lerp(c21, sx)
	v2 := c12.Lerp(c22, sx)
	return colorFromVec4(v1.Lerp(v2, sy))
}

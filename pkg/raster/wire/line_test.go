package wire

import (
	"testing"

	"github.com/taigrr/raster/pkg/raster"
)

func nonBackground(fb *raster.Framebuffer) int {
	n := 0
	for _, c := range fb.Color {
		if c != raster.OpaqueBlack {
			n++
		}
	}
	return n
}

func TestDrawLineHorizontal(t *testing.T) {
	fb := raster.NewFramebuffer(10, 10)
	DrawLine(fb, 0, 5, 9, 5, 0xFFFFFFFF)
	if n := nonBackground(fb); n != 10 {
		t.Errorf("horizontal line wrote %d pixels, want 10", n)
	}
}

func TestDrawTriangleWritesThreeEdges(t *testing.T) {
	fb := raster.NewFramebuffer(20, 20)
	DrawTriangle(fb, 2, 2, 17, 2, 2, 17, 0xFFFFFFFF)
	if n := nonBackground(fb); n == 0 {
		t.Errorf("DrawTriangle wrote no pixels")
	}
	// One interior point of each edge, in SetPixel's y-up coordinates.
	for _, p := range [][2]int{{10, 2}, {10, 9}, {2, 10}} {
		if c := fb.Color[(fb.Height-1-p[1])*fb.Width+p[0]]; c != 0xFFFFFFFF {
			t.Errorf("edge pixel (%d,%d) = %#08x, want edge color", p[0], p[1], uint32(c))
		}
	}
}

func TestDrawLineClipsOffscreenEndpoints(t *testing.T) {
	fb := raster.NewFramebuffer(4, 4)
	DrawLine(fb, -5, -5, -1, -1, 0xFFFFFFFF)
	if n := nonBackground(fb); n != 0 {
		t.Errorf("fully offscreen line wrote %d pixels, want 0", n)
	}
}

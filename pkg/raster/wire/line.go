// Package wire implements the Bresenham line drawer used only for wireframe
// debug views — a collaborator external to the core rasterizer, operating
// on screen-space points the caller has already projected.
package wire

import "github.com/taigrr/raster/pkg/raster"

// DrawLine draws a line from (x0,y0) to (x1,y1) into fb using Bresenham's
// algorithm, in the same y-up coordinate system as Framebuffer.SetPixel.
func DrawLine(fb *raster.Framebuffer, x0, y0, x1, y1 int, c raster.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawTriangle draws the three edges of a screen-space triangle.
func DrawTriangle(fb *raster.Framebuffer, x0, y0, x1, y1, x2, y2 int, c raster.Color) {
	DrawLine(fb, x0, y0, x1, y1, c)
	DrawLine(fb, x1, y1, x2, y2, c)
	DrawLine(fb, x2, y2, x0, y0, c)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package raster

import (
	"math"

	"github.com/taigrr/raster/pkg/math3d"
)

// Rasterize rasterizes one triangle given as three clip-space positions and
// a shader instance already primed by three Vertex calls (one per slot).
// It mutates fb's color and depth buffers; it is pure with respect to
// everything else and allocates nothing in the per-pixel loop.
func Rasterize(clip [3]math3d.Vec4, shader Shader, fb *Framebuffer) {
	var scr [3]math3d.Vec4
	var s [3]math3d.Vec2
	for i := range 3 {
		scr[i] = fb.Viewport.MulVec4(clip[i])
		s[i] = math3d.V2(scr[i].X/scr[i].W, scr[i].Y/scr[i].W)
	}

	minX := math.Floor(min3(s[0].X, s[1].X, s[2].X))
	minY := math.Floor(min3(s[0].Y, s[1].Y, s[2].Y))
	maxX := math.Ceil(max3(s[0].X, s[1].X, s[2].X))
	maxY := math.Ceil(max3(s[0].Y, s[1].Y, s[2].Y))

	minX = math.Max(minX, 0)
	minY = math.Max(minY, 0)
	maxX = math.Min(maxX, float64(fb.Width-1))
	maxY = math.Min(maxY, float64(fb.Height-1))

	for y := int(minY); y <= int(maxY); y++ {
		for x := int(minX); x <= int(maxX); x++ {
			bc := barycentric(s[0], s[1], s[2], float64(x), float64(y))

			bcClip := math3d.V3(bc.X/scr[0].W, bc.Y/scr[1].W, bc.Z/scr[2].W)
			sum := bcClip.X + bcClip.Y + bcClip.Z
			bcClip = bcClip.Scale(1.0 / sum)

			if bcClip.X < 0 || bcClip.Y < 0 || bcClip.Z < 0 {
				continue
			}

			fragDepth := scr[0].Z*bcClip.X + scr[1].Z*bcClip.Y + scr[2].Z*bcClip.Z

			zindex := bufIndexYInvert(float64(x), float64(y), float64(fb.Width), float64(fb.Height))
			if fb.Depth[zindex] > float32(fragDepth) {
				continue
			}

			color, discard := shader.Fragment(bcClip)
			if discard {
				continue
			}
			fb.Depth[zindex] = float32(fragDepth)
			fb.Color[zindex] = color
		}
	}
}

// barycentric computes 2-D barycentric weights of p w.r.t. triangle a,b,c
// via the cross-product method. Degenerate (near-zero-area) triangles
// return (-1,1,1), which the caller's sign test discards.
func barycentric(a, b, c math3d.Vec2, px, py float64) math3d.Vec3 {
	s0 := math3d.V3(c.Y-a.Y, b.Y-a.Y, a.Y-py)
	s1 := math3d.V3(c.X-a.X, b.X-a.X, a.X-px)
	u := s0.Cross(s1)
	if math.Abs(u.Z) > 0.01 {
		return math3d.V3(1-(u.X+u.Y)/u.Z, u.Y/u.Z, u.X/u.Z)
	}
	return math3d.V3(-1, 1, 1)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

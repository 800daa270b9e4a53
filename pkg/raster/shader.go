package raster

import "github.com/taigrr/raster/pkg/math3d"

// Shader is the programmable two-stage interface the rasterizer drives.
// vertex transforms a single vertex and stashes any per-triangle varyings
// under slot (0, 1, 2); fragment computes a color from barycentric weights
// and previously stashed varyings, returning true to discard the fragment.
//
// No concurrent triangle may share a Shader instance: varyings are scratch
// state written by Vertex and read by Fragment, overwritten each triangle.
type Shader interface {
	Vertex(pos, normal math3d.Vec4, uv math3d.Vec2, slot int) math3d.Vec4
	Fragment(bary math3d.Vec3) (color Color, discard bool)
}

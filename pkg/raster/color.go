// Package raster implements a CPU software rasterization pipeline: a
// programmable vertex/fragment shader interface driving a perspective-correct
// barycentric triangle traversal over a packed-color framebuffer, with
// concrete depth and Phong-with-shadows shaders and a two-pass scene driver.
package raster

import "github.com/taigrr/raster/pkg/math3d"

// Color is a packed 32-bit RGBA sample, red in the most significant byte:
// R<<24 | G<<16 | B<<8 | A.
type Color uint32

// OpaqueBlack is the initial value of every framebuffer color cell.
const OpaqueBlack Color = 0x000000FF

// colorFromComponents packs four byte-range components into a Color,
// truncating toward zero. Components are clamped to >=0 before the
// float->uint conversion, since Go's conversion result for negative floats
// to an unsigned type is otherwise implementation-specific.
func colorFromComponents(r, g, b, a float64) Color {
	return Color(truncByte(r))<<24 | Color(truncByte(g))<<16 | Color(truncByte(b))<<8 | Color(truncByte(a))
}

func truncByte(v float64) uint32 {
	if v < 0 {
		v = 0
	}
	return uint32(v) & 0xff
}

// vec4FromColor extracts the four byte components of c into a float vector
// in [0,255].
func vec4FromColor(c Color) math3d.Vec4 {
	return math3d.V4(
		float64((c>>24)&0xff),
		float64((c>>16)&0xff),
		float64((c>>8)&0xff),
		float64(c&0xff),
	)
}

// colorFromVec4 packs a float vector back into a Color, truncating each
// component toward zero. Round-trips with vec4FromColor for any Color.
func colorFromVec4(v math3d.Vec4) Color {
	return colorFromComponents(v.X, v.Y, v.Z, v.W)
}

// vec4GLFromColor returns vec4FromColor(c) scaled into [0,1].
func vec4GLFromColor(c Color) math3d.Vec4 {
	return vec4FromColor(c).Scale(1.0 / 255.0)
}

// vec3NormalFromColor decodes a tangent-space normal stored in a color
// texture: 2*(c/255) - 1, the conventional [0,1] -> [-1,1] unpacking.
func vec3NormalFromColor(c Color) math3d.Vec3 {
	g := vec4GLFromColor(c)
	return math3d.V3(2*g.X-1, 2*g.Y-1, 2*g.Z-1)
}

// colorFromNDCVec3 remaps v in [-1,1]^3 to [0,255]^3 before packing, with
// full alpha. Used both to visualize depth and to re-encode a normal.
func colorFromNDCVec3(v math3d.Vec3) Color {
	return colorFromVec4(math3d.V4(
		(v.X+1)*0.5*255,
		(v.Y+1)*0.5*255,
		(v.Z+1)*0.5*255,
		255,
	))
}

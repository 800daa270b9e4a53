package raster

import (
	"math"
	"testing"

	"github.com/taigrr/raster/pkg/math3d"
)

// TestColorRoundTrip verifies colorFromVec4(vec4FromColor(c)) == c.
func TestColorRoundTrip(t *testing.T) {
	samples := []Color{0, 0xFFFFFFFF, 0x000000FF, 0x80402010, OpaqueBlack, 0x12345678}
	for _, c := range samples {
		got := colorFromVec4(vec4FromColor(c))
		if got != c {
			t.Errorf("round trip of %#08x = %#08x", uint32(c), uint32(got))
		}
	}
}

// TestNormalFromColorConvention verifies that a flat-up-facing normal
// color (0x8080FFFF) decodes to ≈ (0, 0, 1).
func TestNormalFromColorConvention(t *testing.T) {
	got := vec3NormalFromColor(0x8080FFFF)
	want := math3d.V3(0, 0, 1)
	if math.Abs(got.X-want.X) > 1.0/255 || math.Abs(got.Y-want.Y) > 1.0/255 || math.Abs(got.Z-want.Z) > 1e-9 {
		t.Errorf("vec3NormalFromColor(0x8080FFFF) = %v, want ≈ %v", got, want)
	}
}

// TestNormalColorRoundTrip verifies that packing then unpacking a unit
// normal recovers it within one LSB (1/255).
func TestNormalColorRoundTrip(t *testing.T) {
	units := []math3d.Vec3{
		math3d.V3(0, 0, 1),
		math3d.V3(1, 0, 0),
		math3d.V3(0, 1, 0),
		math3d.V3(0.6, 0.8, 0).Normalize(),
	}
	for _, n := range units {
		packed := colorFromNDCVec3(n)
		back := vec3NormalFromColor(packed)
		if math.Abs(back.X-n.X) > 1.0/255*1.5 ||
			math.Abs(back.Y-n.Y) > 1.0/255*1.5 ||
			math.Abs(back.Z-n.Z) > 1.0/255*1.5 {
			t.Errorf("round trip of normal %v gave %v", n, back)
		}
	}
}

package math3d

import (
	"math"
	"testing"
)

func TestQuatToMat4Identity(t *testing.T) {
	m := QuatToMat4(0, 0, 0, 1)
	id := Identity()
	for i := range 16 {
		if math.Abs(m[i]-id[i]) > 1e-10 {
			t.Errorf("index %d: got %v, want %v", i, m[i], id[i])
		}
	}
}

// TestQuatToMat4RotatesAxes checks a 90-degree rotation about Y, the shape
// a GLTF node's Rotation field decodes to: X maps to -Z, Z maps to X.
func TestQuatToMat4RotatesAxes(t *testing.T) {
	half := math.Pi / 4
	m := QuatToMat4(0, math.Sin(half), 0, math.Cos(half))

	rotated := m.MulVec3Dir(V3(1, 0, 0))
	want := V3(0, 0, -1)
	if math.Abs(rotated.X-want.X) > 1e-9 || math.Abs(rotated.Y-want.Y) > 1e-9 || math.Abs(rotated.Z-want.Z) > 1e-9 {
		t.Errorf("rotated X axis = %+v, want %+v", rotated, want)
	}
}

func TestMat4FromSliceRoundTrip(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	m := Mat4FromSlice(vals)
	for i, v := range vals {
		if m[i] != v {
			t.Errorf("index %d = %v, want %v", i, m[i], v)
		}
	}
}

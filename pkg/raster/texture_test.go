package raster

import "testing"

// TestBilinearOnGrid verifies that the bilinear sampler reduces to the
// texel color when (u,v) lies exactly on an integer grid coordinate.
func TestBilinearOnGrid(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.Buf[0] = 0x11111111 // (0,0)
	tex.Buf[1] = 0x22222222 // (1,0)
	tex.Buf[2] = 0x33333333 // (0,1)
	tex.Buf[3] = 0x44444444 // (1,1)

	// sampleNN/sampleLerp map v by height-v*height, so v=1 -> y=0 (top row).
	got := tex.sampleLerp(0, 1)
	want := tex.lookup(0, 0)
	if got != want {
		t.Errorf("sampleLerp(0,1) = %#08x, want %#08x", uint32(got), uint32(want))
	}
}

func TestSampleNNMatchesLerpOnGrid(t *testing.T) {
	tex := NewTexture(4, 4)
	for i := range tex.Buf {
		tex.Buf[i] = Color(i)<<8 | 0xFF
	}

	for _, uv := range [][2]float64{{0, 0}, {0.25, 0.5}, {0.75, 0.75}} {
		nn := tex.sampleNN(uv[0], uv[1])
		lerp := tex.sampleLerp(uv[0], uv[1])
		if nn != lerp {
			t.Errorf("at (%v,%v): sampleNN=%#08x sampleLerp=%#08x should agree on exact grid points", uv[0], uv[1], uint32(nn), uint32(lerp))
		}
	}
}

func TestLookupYInvert(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.Buf[0] = 1 // row 0 (top), col 0
	tex.Buf[2] = 2 // row 1 (bottom), col 0

	if got := tex.lookupYInvert(0, 1); got != tex.Buf[0] {
		t.Errorf("lookupYInvert(0,1) = %v, want %v", got, tex.Buf[0])
	}
	if got := tex.lookupYInvert(0, 0); got != tex.Buf[2] {
		t.Errorf("lookupYInvert(0,0) = %v, want %v", got, tex.Buf[2])
	}
}

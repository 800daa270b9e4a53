package raster

import "testing"

// TestSetPixelClips verifies that out-of-range writes leave the buffers
// unchanged.
func TestSetPixelClips(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	before := make([]Color, len(fb.Color))
	copy(before, fb.Color)

	fb.SetPixel(-1, 0, 0x11111111)
	fb.SetPixel(0, -1, 0x11111111)
	fb.SetPixel(4, 0, 0x11111111)
	fb.SetPixel(0, 4, 0x11111111)

	for i := range fb.Color {
		if fb.Color[i] != before[i] {
			t.Fatalf("out-of-range SetPixel mutated color[%d]", i)
		}
	}
}

func TestNewFramebufferInitialValues(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	for i, c := range fb.Color {
		if c != OpaqueBlack {
			t.Errorf("color[%d] = %#08x, want OpaqueBlack", i, uint32(c))
		}
	}
	for i, d := range fb.Depth {
		if d != 0 {
			t.Errorf("depth[%d] = %v, want 0", i, d)
		}
	}
}

func TestClearResets(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.Color[0] = 0xFFFFFFFF
	fb.Depth[0] = 1
	fb.Clear()
	if fb.Color[0] != OpaqueBlack || fb.Depth[0] != 0 {
		t.Errorf("Clear() did not reset buffers")
	}
}

func TestSetPixelYUp(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	// Writing at y=0 (bottom in the y-up convention) should land in the
	// last row of the stored (y-down) color buffer.
	fb.SetPixel(1, 0, 0xAABBCCDD)
	if fb.Color[3*4+1] != 0xAABBCCDD {
		t.Errorf("SetPixel(1,0) did not land in the bottom stored row")
	}
}

func TestSnapshotColorCopiesNotAliases(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.Color[0] = 0x12345678
	tex := fb.SnapshotColor()
	fb.Color[0] = 0
	if tex.Buf[0] != 0x12345678 {
		t.Errorf("SnapshotColor should copy, not alias, the color buffer")
	}
}

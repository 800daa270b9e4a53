package raster

import (
	"testing"

	"github.com/taigrr/raster/pkg/math3d"
	"github.com/taigrr/raster/pkg/models"
)

// flatTexture returns a 1x1 texture filled with c, used where a shader
// needs a diffuse/normal map but the test doesn't care about its content.
func flatTexture(c Color) *Texture {
	tex := NewTexture(1, 1)
	tex.Buf[0] = c
	return tex
}

func triangleMesh() *models.Mesh {
	m := models.NewMesh("triangle")
	m.Positions = append(m.Positions,
		math3d.V3(-1, -1, 0),
		math3d.V3(1, -1, 0),
		math3d.V3(0, 1, 0),
	)
	m.Faces = append(m.Faces, models.Face{V: [3]int{1, 2, 3}, VT: [3]int{0, 0, 0}, VN: [3]int{0, 0, 0}, Material: -1})
	m.CalculateSmoothNormals()
	m.CalculateBounds()
	return m
}

// TestDepthPassIdempotent verifies that running the depth pass twice, with
// a clear in between, over an unchanging scene produces byte-identical
// output.
func TestDepthPassIdempotent(t *testing.T) {
	mesh := triangleMesh()
	state := RendererState{
		Eye:      math3d.V3(0, 0, 3),
		Center:   math3d.V3(0, 0, 0),
		Up:       math3d.V3(0, 1, 0),
		LightDir: math3d.V3(1, 1, 1),
		Mesh:     mesh,
		Diffuse:  flatTexture(0xFFFFFFFF),
		Normal:   flatTexture(0x8080FFFF),
	}

	scene := NewScene(64, 64)
	scene.Render(state)
	first := make([]Color, len(scene.Shadow().Buf))
	copy(first, scene.Shadow().Buf)

	scene.FB.Clear()
	scene.Render(state)
	second := scene.Shadow().Buf

	if len(first) != len(second) {
		t.Fatalf("shadow buffer length changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("shadow buffer differs at index %d: %#08x vs %#08x", i, uint32(first[i]), uint32(second[i]))
		}
	}
}

func TestSceneRenderProducesNonEmptyFrame(t *testing.T) {
	mesh := triangleMesh()
	state := RendererState{
		Eye:      math3d.V3(0, 0, 3),
		Center:   math3d.V3(0, 0, 0),
		Up:       math3d.V3(0, 1, 0),
		LightDir: math3d.V3(1, 1, 1),
		Mesh:     mesh,
		Diffuse:  flatTexture(0xFFFFFFFF),
		Normal:   flatTexture(0x8080FFFF),
	}

	scene := NewScene(64, 64)
	scene.Render(state)

	n := 0
	for _, c := range scene.FB.Color {
		if c != OpaqueBlack {
			n++
		}
	}
	if n == 0 {
		t.Errorf("beauty pass wrote no pixels for a triangle facing the camera")
	}
}

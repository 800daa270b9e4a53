package models

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempOBJ(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.obj")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp obj: %v", err)
	}
	return path
}

const triangleOBJ = `
v -1.0 -1.0 0.0
v 1.0 -1.0 0.0
v 0.0 1.0 0.0
vt 0.0 0.0
vt 1.0 0.0
vt 0.5 1.0
f 1/1 2/2 3/3
`

func TestLoadOBJBasicTriangle(t *testing.T) {
	path := writeTempOBJ(t, triangleOBJ)
	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}

	if got, want := mesh.VertexCount(), 3; got != want {
		t.Errorf("VertexCount() = %d, want %d", got, want)
	}
	if got, want := mesh.TriangleCount(), 1; got != want {
		t.Errorf("TriangleCount() = %d, want %d", got, want)
	}

	// Sentinel element at index 0 of every attribute array.
	if mesh.Positions[0].X != 0 || mesh.Positions[0].Y != 0 || mesh.Positions[0].Z != 0 {
		t.Errorf("Positions[0] is not the zero sentinel")
	}

	face := mesh.Faces[0]
	if face.V != [3]int{1, 2, 3} {
		t.Errorf("face.V = %v, want [1 2 3]", face.V)
	}
	if face.VT != [3]int{1, 2, 3} {
		t.Errorf("face.VT = %v, want [1 2 3]", face.VT)
	}
	if face.Material != -1 {
		t.Errorf("face.Material = %d, want -1 (no material in a plain OBJ)", face.Material)
	}

	pos, _, uv := mesh.FaceVertex(0, 0)
	if pos.X != -1 || pos.Y != -1 || pos.Z != 0 {
		t.Errorf("FaceVertex(0,0) pos = %v, want (-1,-1,0)", pos)
	}
	if uv.X != 0 || uv.Y != 0 {
		t.Errorf("FaceVertex(0,0) uv = %v, want (0,0)", uv)
	}
}

func TestLoadOBJMissingVTAndVN(t *testing.T) {
	path := writeTempOBJ(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)
	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	face := mesh.Faces[0]
	if face.VT != [3]int{0, 0, 0} {
		t.Errorf("face.VT = %v, want all-sentinel", face.VT)
	}
	// No normals in the file: LoadOBJ must have synthesized smooth normals.
	if !mesh.HasNormals() {
		t.Errorf("expected LoadOBJ to synthesize normals when the file has none")
	}
}

func TestLoadOBJOutOfRangeIndexFails(t *testing.T) {
	path := writeTempOBJ(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 99
`)
	if _, err := LoadOBJ(path); err == nil {
		t.Fatalf("expected an error for an out-of-range face index, got nil")
	}
}

func TestLoadOBJNonTriangulatedFaceFails(t *testing.T) {
	path := writeTempOBJ(t, `
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
f 1 2 3 4
`)
	if _, err := LoadOBJ(path); err == nil {
		t.Fatalf("expected an error for a quad face (mesh must be pre-triangulated)")
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "does-not-exist.obj")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

// TestLoadOBJMaterialsFromMTL verifies that mtllib/usemtl directives
// populate Mesh.Materials and assign the right material to each face.
func TestLoadOBJMaterialsFromMTL(t *testing.T) {
	dir := t.TempDir()
	mtlPath := filepath.Join(dir, "colors.mtl")
	mtlBody := `
newmtl red
Kd 1.0 0.0 0.0

newmtl textured
Kd 1.0 1.0 1.0
map_Kd brick.png
`
	if err := os.WriteFile(mtlPath, []byte(mtlBody), 0o644); err != nil {
		t.Fatalf("write temp mtl: %v", err)
	}

	objBody := `
mtllib colors.mtl
v -1.0 -1.0 0.0
v 1.0 -1.0 0.0
v 0.0 1.0 0.0
v 2.0 -1.0 0.0
usemtl red
f 1 2 3
usemtl textured
f 2 4 3
`
	path := filepath.Join(dir, "mesh.obj")
	if err := os.WriteFile(path, []byte(objBody), 0o644); err != nil {
		t.Fatalf("write temp obj: %v", err)
	}

	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}

	if got, want := mesh.MaterialCount(), 2; got != want {
		t.Fatalf("MaterialCount() = %d, want %d", got, want)
	}

	red := mesh.GetMaterial(mesh.GetFaceMaterial(0))
	if red == nil || red.Name != "red" || red.BaseColor != [4]float64{1, 0, 0, 1} {
		t.Errorf("face 0 material = %+v, want red (1,0,0,1)", red)
	}

	textured := mesh.GetMaterial(mesh.GetFaceMaterial(1))
	if textured == nil || textured.Name != "textured" || !textured.HasTexture {
		t.Fatalf("face 1 material = %+v, want textured with HasTexture", textured)
	}
	if filepath.Base(textured.DiffuseTexture) != "brick.png" {
		t.Errorf("DiffuseTexture = %q, want a path ending in brick.png", textured.DiffuseTexture)
	}
}

func TestLoadOBJMissingMTLIsNonFatal(t *testing.T) {
	path := writeTempOBJ(t, `
mtllib does-not-exist.mtl
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)
	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v, want a missing mtllib to be non-fatal", err)
	}
	if mesh.MaterialCount() != 0 {
		t.Errorf("MaterialCount() = %d, want 0", mesh.MaterialCount())
	}
	if mesh.Faces[0].Material != -1 {
		t.Errorf("face.Material = %d, want -1", mesh.Faces[0].Material)
	}
}

func TestLoadOBJNameFromFilename(t *testing.T) {
	path := writeTempOBJ(t, triangleOBJ)
	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if mesh.Name != "mesh" {
		t.Errorf("mesh.Name = %q, want %q", mesh.Name, "mesh")
	}
}

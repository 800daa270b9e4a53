package models

import "testing"

// TestMaterialDefaults checks a Material built with the defaults the
// loaders fill in (opaque white, fully rough, no texture): its alpha is 1
// and HasTexture is false.
func TestMaterialDefaults(t *testing.T) {
	m := Material{
		Name:      "test",
		BaseColor: [4]float64{1, 1, 1, 1},
		Roughness: 1,
	}

	if m.BaseColor[3] != 1 {
		t.Errorf("BaseColor alpha = %f, want 1", m.BaseColor[3])
	}
	if m.HasTexture {
		t.Errorf("HasTexture should be false until a loader sets a diffuse path")
	}
}

// TestFaceMaterialIndex verifies GetFaceMaterial/GetMaterial bounds
// behavior, the lookup path a renderer consults per face.
func TestFaceMaterialIndex(t *testing.T) {
	mesh := NewMesh("test")

	mesh.Materials = []Material{
		{Name: "red", BaseColor: [4]float64{1, 0, 0, 1}},
		{Name: "green", BaseColor: [4]float64{0, 1, 0, 1}},
		{Name: "blue", BaseColor: [4]float64{0, 0, 1, 1}},
	}

	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}, Material: 0},
		{V: [3]int{3, 4, 5}, Material: 1},
		{V: [3]int{6, 7, 8}, Material: 2},
		{V: [3]int{9, 10, 11}, Material: -1},
	}

	if mesh.GetFaceMaterial(0) != 0 {
		t.Errorf("face 0 material = %d, want 0", mesh.GetFaceMaterial(0))
	}
	if mesh.GetFaceMaterial(1) != 1 {
		t.Errorf("face 1 material = %d, want 1", mesh.GetFaceMaterial(1))
	}
	if mesh.GetFaceMaterial(3) != -1 {
		t.Errorf("face 3 material = %d, want -1", mesh.GetFaceMaterial(3))
	}

	if mat := mesh.GetMaterial(0); mat == nil || mat.Name != "red" {
		t.Errorf("GetMaterial(0) = %+v, want the red material", mat)
	}
	if mat := mesh.GetMaterial(-1); mat != nil {
		t.Errorf("GetMaterial(-1) = %+v, want nil", mat)
	}
	if mat := mesh.GetMaterial(99); mat != nil {
		t.Errorf("GetMaterial(99) = %+v, want nil (out of bounds)", mat)
	}
}

// TestMeshClonePreservesMaterials verifies Clone deep-copies Materials so a
// renderer holding a cloned mesh can't corrupt the original's palette.
func TestMeshClonePreservesMaterials(t *testing.T) {
	mesh := NewMesh("original")
	mesh.Materials = []Material{
		{Name: "mat1", BaseColor: [4]float64{1, 0, 0, 1}},
		{Name: "mat2", BaseColor: [4]float64{0, 1, 0, 1}},
	}
	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}, Material: 0},
		{V: [3]int{3, 4, 5}, Material: 1},
	}

	clone := mesh.Clone()

	if clone.MaterialCount() != mesh.MaterialCount() {
		t.Errorf("clone has %d materials, want %d", clone.MaterialCount(), mesh.MaterialCount())
	}

	clone.Materials[0].Name = "modified"
	if mesh.Materials[0].Name == "modified" {
		t.Errorf("mutating the clone's material mutated the original")
	}

	if clone.GetFaceMaterial(0) != 0 || clone.GetFaceMaterial(1) != 1 {
		t.Errorf("clone lost its face material indices")
	}
}

func TestMaterialCount(t *testing.T) {
	mesh := NewMesh("test")

	if mesh.MaterialCount() != 0 {
		t.Errorf("empty mesh has %d materials, want 0", mesh.MaterialCount())
	}

	mesh.Materials = make([]Material, 5)
	if mesh.MaterialCount() != 5 {
		t.Errorf("mesh has %d materials, want 5", mesh.MaterialCount())
	}
}

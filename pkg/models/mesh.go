// Package models provides 3D mesh loading and representation for the
// rasterizer.
package models

import (
	"github.com/taigrr/raster/pkg/math3d"
)

// Mesh represents an indexed triangle mesh: parallel arrays of positions,
// texture coordinates and normals, plus a face list of three index triples
// per triangle. Element 0 of Positions, UVs and Normals is a zero-valued
// sentinel written by the loaders so that the OBJ format's 1-based indices
// can be used directly without adjustment.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	UVs       []math3d.Vec2
	Normals   []math3d.Vec3
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is a triangle as three index triples, one per corner: V indexes
// Positions, VT indexes UVs, VN indexes Normals. A zero index means "no
// attribute at this corner" for VT/VN (the sentinel element). Material is
// an index into Mesh.Materials, or -1 if the face has no material.
type Face struct {
	V        [3]int
	VT       [3]int
	VN       [3]int
	Material int
}

// Material is a supplemental per-face rendering hint: a loaded asset may
// define more than one, and a face picks one by index. The core Phong
// shader itself knows nothing about materials — it always takes exactly
// one diffuse and one normal texture per pass — this is a loader/CLI-level
// convenience for choosing among several.
type Material struct {
	Name       string
	BaseColor  [4]float64
	Metallic   float64
	Roughness  float64
	HasTexture bool
	// DiffuseTexture is a path or asset-relative name the CLI resolves to
	// a concrete Texture; the core never opens it itself.
	DiffuseTexture string
}

// NewMesh creates an empty mesh, pre-seeded with the sentinel element at
// index 0 of each attribute array.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Positions: []math3d.Vec3{{}},
		UVs:       []math3d.Vec2{{}},
		Normals:   []math3d.Vec3{{}},
		Faces:     make([]Face, 0),
	}
}

// VertexCount returns the number of real (non-sentinel) positions.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) - 1
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// FaceVertex returns the position, normal and UV for corner c (0,1,2) of
// face i. A missing normal or UV (index 0, the sentinel) reads back as the
// zero value.
func (m *Mesh) FaceVertex(i, c int) (pos math3d.Vec3, normal math3d.Vec3, uv math3d.Vec2) {
	f := m.Faces[i]
	pos = m.Positions[f.V[c]]
	if vn := f.VN[c]; vn > 0 && vn < len(m.Normals) {
		normal = m.Normals[vn]
	}
	if vt := f.VT[c]; vt > 0 && vt < len(m.UVs) {
		uv = m.UVs[vt]
	}
	return pos, normal, uv
}

// CalculateBounds computes the axis-aligned bounding box over the real
// (non-sentinel) positions.
func (m *Mesh) CalculateBounds() {
	if len(m.Positions) < 2 {
		return
	}

	m.BoundsMin = m.Positions[1]
	m.BoundsMax = m.Positions[1]

	for _, p := range m.Positions[2:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// CalculateNormals computes flat face normals: every corner of a face gets
// the same normal, stored once per face so no two faces sharing a vertex
// ever see each other's or averaged data.
func (m *Mesh) CalculateNormals() {
	m.Normals = []math3d.Vec3{{}}
	for i := range m.Faces {
		f := &m.Faces[i]
		v0, v1, v2 := m.Positions[f.V[0]], m.Positions[f.V[1]], m.Positions[f.V[2]]
		n := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
		m.Normals = append(m.Normals, n)
		for c := range 3 {
			f.VN[c] = len(m.Normals) - 1
		}
	}
}

// CalculateSmoothNormals computes per-vertex normals by accumulating
// (unnormalized, area-weighted) face normals at every shared position and
// normalizing once all faces have contributed.
func (m *Mesh) CalculateSmoothNormals() {
	m.Normals = make([]math3d.Vec3, len(m.Positions))
	for i := range m.Faces {
		f := &m.Faces[i]
		v0, v1, v2 := m.Positions[f.V[0]], m.Positions[f.V[1]], m.Positions[f.V[2]]
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		for c := range 3 {
			m.Normals[f.V[c]] = m.Normals[f.V[c]].Add(n)
			f.VN[c] = f.V[c]
		}
	}
	for i := range m.Normals {
		m.Normals[i] = m.Normals[i].Normalize()
	}
}

// HasNormals reports whether any face references a non-sentinel normal.
func (m *Mesh) HasNormals() bool {
	for _, f := range m.Faces {
		if f.VN[0] != 0 || f.VN[1] != 0 || f.VN[2] != 0 {
			return true
		}
	}
	return false
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Positions: make([]math3d.Vec3, len(m.Positions)),
		UVs:       make([]math3d.Vec2, len(m.UVs)),
		Normals:   make([]math3d.Vec3, len(m.Normals)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Positions, m.Positions)
	copy(clone.UVs, m.UVs)
	copy(clone.Normals, m.Normals)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetFaceMaterial returns the material index of face i, or -1 if out of
// range or unset.
func (m *Mesh) GetFaceMaterial(i int) int {
	if i < 0 || i >= len(m.Faces) {
		return -1
	}
	return m.Faces[i].Material
}

// GetMaterial returns the material at idx, or nil if idx is out of range.
func (m *Mesh) GetMaterial(idx int) *Material {
	if idx < 0 || idx >= len(m.Materials) {
		return nil
	}
	return &m.Materials[idx]
}

// MaterialCount returns the number of materials defined on the mesh.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

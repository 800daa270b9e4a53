package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"
	"unsafe"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/raster/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Options
	CalculateNormals bool
	SmoothNormals    bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	loader := NewGLTFLoader()
	return loader.Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	matIdx := make(map[int]int)

	if len(doc.Nodes) == 0 {
		// No node graph at all: process every mesh directly in its own
		// local space, the only sensible fallback.
		for _, m := range doc.Meshes {
			if err := l.processMesh(doc, m, mesh, math3d.Identity(), matIdx); err != nil {
				return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
			}
		}
	} else {
		for _, idx := range sceneRoots(doc) {
			if err := l.walkNode(doc, idx, math3d.Identity(), mesh, matIdx); err != nil {
				return nil, err
			}
		}
	}

	if l.CalculateNormals && !mesh.HasNormals() {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	mesh.CalculateBounds()

	return mesh, nil
}

// sceneRoots returns the root node indices of the document's default scene,
// or every parentless node if the document declares none.
func sceneRoots(doc *gltf.Document) []uint32 {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if int(c) < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []uint32
	for i, has := range hasParent {
		if !has {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

// nodeLocalTransform builds a node's local transform: its Matrix if one is
// set, else the composed translation*rotation*scale, per the GLTF spec's
// mutual-exclusion rule between the two representations.
func nodeLocalTransform(n *gltf.Node) math3d.Mat4 {
	if n.Matrix != [16]float64{} {
		return math3d.Mat4FromSlice(n.Matrix[:])
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	trans := math3d.Translate(math3d.V3(float64(t[0]), float64(t[1]), float64(t[2])))
	rot := math3d.QuatToMat4(float64(r[0]), float64(r[1]), float64(r[2]), float64(r[3]))
	scl := math3d.Scale(math3d.V3(float64(s[0]), float64(s[1]), float64(s[2])))
	return trans.Mul(rot).Mul(scl)
}

// walkNode visits node idx and its children, accumulating each node's local
// transform into parent, and folds in the geometry of any mesh the node
// references with that accumulated world transform applied. Without this,
// a mesh's vertices load in the local space of whichever node's transform
// it happens to sit under, rather than the asset's intended world space.
func (l *GLTFLoader) walkNode(doc *gltf.Document, idx uint32, parent math3d.Mat4, mesh *Mesh, matIdx map[int]int) error {
	if int(idx) >= len(doc.Nodes) {
		return nil
	}
	n := doc.Nodes[idx]
	world := parent.Mul(nodeLocalTransform(n))

	if n.Mesh != nil && int(*n.Mesh) < len(doc.Meshes) {
		gm := doc.Meshes[*n.Mesh]
		if err := l.processMesh(doc, gm, mesh, world, matIdx); err != nil {
			return fmt.Errorf("process mesh %q: %w", gm.Name, err)
		}
	}
	for _, c := range n.Children {
		if err := l.walkNode(doc, c, world, mesh, matIdx); err != nil {
			return err
		}
	}
	return nil
}

// materialIndex returns the Mesh.Materials index for the GLTF document
// material at gltfIdx, converting and appending it on first reference.
// matIdx caches GLTF material index -> Mesh.Materials index across the
// whole load so a material shared by several primitives is converted once.
func materialIndex(doc *gltf.Document, gltfIdx int, mesh *Mesh, matIdx map[int]int) int {
	if mi, ok := matIdx[gltfIdx]; ok {
		return mi
	}
	if gltfIdx < 0 || gltfIdx >= len(doc.Materials) {
		return -1
	}
	mesh.Materials = append(mesh.Materials, convertGLTFMaterial(doc, doc.Materials[gltfIdx]))
	mi := len(mesh.Materials) - 1
	matIdx[gltfIdx] = mi
	return mi
}

// convertGLTFMaterial extracts the base-color factor, metallic/roughness
// factors and an external base-color texture URI (if any) from a GLTF
// material's PBR metallic-roughness block. Embedded (bufferview-backed)
// textures are skipped: Material.DiffuseTexture is a filesystem path the
// CLI resolves itself, and an embedded image has none.
func convertGLTFMaterial(doc *gltf.Document, gm *gltf.Material) Material {
	mat := Material{Name: gm.Name, BaseColor: [4]float64{1, 1, 1, 1}, Roughness: 1}

	pbr := gm.PBRMetallicRoughness
	if pbr == nil {
		return mat
	}
	cf := pbr.BaseColorFactorOrDefault()
	mat.BaseColor = [4]float64{float64(cf[0]), float64(cf[1]), float64(cf[2]), float64(cf[3])}
	mat.Metallic = float64(pbr.MetallicFactorOrDefault())
	mat.Roughness = float64(pbr.RoughnessFactorOrDefault())

	if pbr.BaseColorTexture != nil {
		if uri := textureURI(doc, pbr.BaseColorTexture.Index); uri != "" {
			mat.HasTexture = true
			mat.DiffuseTexture = uri
		}
	}
	return mat
}

// textureURI resolves a GLTF texture index to its source image's external
// URI, or "" if the texture is missing or embedded rather than
// file-backed.
func textureURI(doc *gltf.Document, texIdx int) string {
	if texIdx < 0 || texIdx >= len(doc.Textures) {
		return ""
	}
	src := doc.Textures[texIdx].Source
	if src == nil || int(*src) >= len(doc.Images) {
		return ""
	}
	return doc.Images[*src].URI
}

// processMesh extracts geometry from a GLTF mesh, transforming each vertex
// by world: the accumulated transform of the node that referenced it.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh, world math3d.Mat4, matIdx map[int]int) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		// Get position accessor
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		// Get normals if available
		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		// Get UVs if available
		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		// base is the sentinel-adjusted 1-based index of the first vertex
		// this primitive contributes; GLTF's own attribute/index arrays are
		// 0-based and per-primitive.
		base := len(mesh.Positions)

		hasUV := len(uvs) > 0
		hasNormal := len(normals) > 0

		faceMaterial := -1
		if prim.Material != nil {
			faceMaterial = materialIndex(doc, int(*prim.Material), mesh, matIdx)
		}

		for i := range positions {
			mesh.Positions = append(mesh.Positions, world.MulVec3(positions[i]))
			if i < len(normals) {
				mesh.Normals = append(mesh.Normals, world.MulVec3Dir(normals[i]).Normalize())
			} else if hasNormal {
				mesh.Normals = append(mesh.Normals, math3d.Zero3())
			}
			if i < len(uvs) {
				// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
				mesh.UVs = append(mesh.UVs, math3d.V2(uvs[i].X, 1.0-uvs[i].Y))
			} else if hasUV {
				mesh.UVs = append(mesh.UVs, math3d.Zero2())
			}
		}

		addFace := func(i0, i1, i2 int) {
			face := Face{Material: faceMaterial}
			// GLTF uses CCW winding for front-facing, but this engine uses
			// CW (due to the Y-flip in screen space), so corners 1 and 2
			// are swapped here relative to the source index order.
			idx := [3]int{base + i0, base + i2, base + i1}
			face.V = idx
			if hasUV {
				face.VT = idx
			}
			if hasNormal {
				face.VN = idx
			}
			mesh.Faces = append(mesh.Faces, face)
		}

		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				addFace(indices[i], indices[i+1], indices[i+2])
			}
		} else {
			// No indices, assume sequential triangles.
			for i := 0; i+2 < len(positions); i += 3 {
				addFace(i, i+1, i+2)
			}
		}
	}

	return nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][2]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC2")
	}

	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}

	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint16:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint32:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

// readAccessorData reads raw data from a GLTF accessor.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	// Get buffer data
	var bufData []byte
	if buffer.URI == "" {
		// Embedded data (GLB)
		bufData = buffer.Data
	} else {
		// External file - need to load relative to document
		return nil, fmt.Errorf("external buffers not supported yet")
	}

	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	// Calculate data bounds
	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	// Read based on component type and accessor type
	switch accessor.Type {
	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12 // 3 floats * 4 bytes
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorVec2:
		if stride == 0 {
			stride = 8 // 2 floats * 4 bytes
		}
		result := make([][2]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 2 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		if stride == 0 {
			switch accessor.ComponentType {
			case gltf.ComponentUbyte:
				stride = 1
			case gltf.ComponentUshort:
				stride = 2
			case gltf.ComponentUint:
				stride = 4
			}
		}

		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			result := make([]uint16, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint16(bufData[offset]) | uint16(bufData[offset+1])<<8
			}
			return result, nil
		case gltf.ComponentUint:
			result := make([]uint32, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint32(bufData[offset]) |
					uint32(bufData[offset+1])<<8 |
					uint32(bufData[offset+2])<<16 |
					uint32(bufData[offset+3])<<24
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return float32frombits(bits)
}

// float32frombits converts bits to float32.
func float32frombits(b uint32) float32 {
	return *(*float32)(unsafe.Pointer(&b))
}

// LoadGLTFWithTextures loads a GLTF file and extracts embedded textures.
// Returns the mesh and a map of image index to texture data.
func LoadGLTFWithTextures(path string) (*Mesh, map[int][]byte, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	loader := NewGLTFLoader()
	mesh, err := loader.Load(path)
	if err != nil {
		return nil, nil, err
	}

	// Extract textures
	textures := make(map[int][]byte)
	for i, img := range doc.Images {
		if img.BufferView != nil {
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer]
			if buf.Data != nil {
				start := bv.ByteOffset
				end := start + bv.ByteLength
				textures[i] = buf.Data[start:end]
			}
		} else if img.URI != "" {
			// External texture file
			dir := filepath.Dir(path)
			texPath := filepath.Join(dir, img.URI)
			data, err := os.ReadFile(texPath)
			if err == nil {
				textures[i] = data
			}
		}
	}

	return mesh, textures, nil
}

// LoadGLBWithTexture loads a GLB file and returns the mesh plus the first
// texture (lowest image index) that decodes.
// Returns (mesh, texture image, error). Texture may be nil if none decodes.
func LoadGLBWithTexture(path string) (*Mesh, image.Image, error) {
	mesh, textures, err := LoadGLTFWithTextures(path)
	if err != nil {
		return nil, nil, err
	}

	// Find the first texture, in image index order
	idxs := make([]int, 0, len(textures))
	for i := range textures {
		idxs = append(idxs, i)
	}
	slices.Sort(idxs)

	var textureImg image.Image
	for _, i := range idxs {
		if data := textures[i]; len(data) > 0 {
			img, _, err := image.Decode(bytes.NewReader(data))
			if err == nil {
				textureImg = img
				break
			}
		}
	}

	return mesh, textureImg, nil
}

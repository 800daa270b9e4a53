package models

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/raster/pkg/math3d"
)

// LoadOBJ parses a Wavefront OBJ file into a Mesh. It understands v, vt, vn
// and f records; face records are slash-separated v/vt/vn triples and are
// assumed to already be triangulated (exactly three corners per f line).
// Fields are split on one-or-more spaces. Indices in the file are 1-based
// and are stored as-is against Mesh's sentinel-prefixed attribute arrays.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	base := filepath.Base(path)
	mesh := NewMesh(strings.TrimSuffix(base, filepath.Ext(base)))
	dir := filepath.Dir(path)

	materialsByName := map[string]int{}
	currentMaterial := -1

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("obj %q line %d: %w", path, lineNo, err)
			}
			mesh.Positions = append(mesh.Positions, v)
		case "vn":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("obj %q line %d: %w", path, lineNo, err)
			}
			mesh.Normals = append(mesh.Normals, v)
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("obj %q line %d: vt needs at least 2 components", path, lineNo)
			}
			u, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("obj %q line %d: %w", path, lineNo, err)
			}
			v, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("obj %q line %d: %w", path, lineNo, err)
			}
			mesh.UVs = append(mesh.UVs, math3d.V2(u, v))
		case "f":
			face, err := parseFace(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("obj %q line %d: %w", path, lineNo, err)
			}
			face.Material = currentMaterial
			mesh.Faces = append(mesh.Faces, face)
		case "mtllib":
			for _, name := range fields[1:] {
				mats, err := loadMTL(filepath.Join(dir, name))
				if err != nil {
					// A missing or unreadable material library doesn't
					// invalidate the mesh's geometry; just fall back to
					// no per-face material data.
					fmt.Fprintf(os.Stderr, "obj %q line %d: %v\n", path, lineNo, err)
					continue
				}
				for _, mat := range mats {
					materialsByName[mat.Name] = len(mesh.Materials)
					mesh.Materials = append(mesh.Materials, mat)
				}
			}
		case "usemtl":
			if len(fields) > 1 {
				if idx, ok := materialsByName[fields[1]]; ok {
					currentMaterial = idx
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj %q: %w", path, err)
	}

	if err := validateMesh(mesh); err != nil {
		return nil, fmt.Errorf("obj %q: %w", path, err)
	}

	if !mesh.HasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// validateMesh enforces that every face corner indexes within its own
// attribute array; an out-of-range index is a load-time-fatal error.
func validateMesh(m *Mesh) error {
	for i, f := range m.Faces {
		for c := range 3 {
			if f.V[c] <= 0 || f.V[c] >= len(m.Positions) {
				return fmt.Errorf("face %d corner %d: position index %d out of range", i, c, f.V[c])
			}
			if f.VT[c] != 0 && (f.VT[c] < 0 || f.VT[c] >= len(m.UVs)) {
				return fmt.Errorf("face %d corner %d: uv index %d out of range", i, c, f.VT[c])
			}
			if f.VN[c] != 0 && (f.VN[c] < 0 || f.VN[c] >= len(m.Normals)) {
				return fmt.Errorf("face %d corner %d: normal index %d out of range", i, c, f.VN[c])
			}
		}
	}
	return nil
}

// loadMTL parses a Wavefront .mtl material library: newmtl starts a
// material, Kd sets its diffuse color, map_Kd sets its diffuse texture
// path (stored relative to the .mtl file's own directory, same as OBJ
// itself resolves mtllib). Unrecognized records are ignored.
func loadMTL(path string) ([]Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mtl %q: %w", path, err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	var mats []Material

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				continue
			}
			mats = append(mats, Material{
				Name:      fields[1],
				BaseColor: [4]float64{1, 1, 1, 1},
				Roughness: 1,
			})
		case "Kd":
			if len(mats) == 0 || len(fields) < 4 {
				continue
			}
			cur := &mats[len(mats)-1]
			r, rerr := strconv.ParseFloat(fields[1], 64)
			g, gerr := strconv.ParseFloat(fields[2], 64)
			b, berr := strconv.ParseFloat(fields[3], 64)
			if rerr != nil || gerr != nil || berr != nil {
				continue
			}
			cur.BaseColor = [4]float64{r, g, b, cur.BaseColor[3]}
		case "map_Kd":
			if len(mats) == 0 || len(fields) < 2 {
				continue
			}
			cur := &mats[len(mats)-1]
			cur.HasTexture = true
			cur.DiffuseTexture = filepath.Join(dir, fields[len(fields)-1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read mtl %q: %w", path, err)
	}
	return mats, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("need 3 components, got %d", len(fields))
	}
	vals := make([]float64, 3)
	for i := range 3 {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math3d.Vec3{}, err
		}
		vals[i] = f
	}
	return math3d.V3(vals[0], vals[1], vals[2]), nil
}

// parseFace parses exactly three v/vt/vn corner tokens. vt and vn are
// optional (e.g. "3" or "3//5"); a missing component is left as index 0,
// the sentinel.
func parseFace(fields []string) (Face, error) {
	if len(fields) != 3 {
		return Face{}, fmt.Errorf("expected 3 face corners, got %d (mesh must already be triangulated)", len(fields))
	}

	var face Face
	for c, tok := range fields {
		parts := strings.Split(tok, "/")
		v, err := strconv.Atoi(parts[0])
		if err != nil {
			return Face{}, fmt.Errorf("corner %d: %w", c, err)
		}
		face.V[c] = v

		if len(parts) > 1 && parts[1] != "" {
			vt, err := strconv.Atoi(parts[1])
			if err != nil {
				return Face{}, fmt.Errorf("corner %d: %w", c, err)
			}
			face.VT[c] = vt
		}
		if len(parts) > 2 && parts[2] != "" {
			vn, err := strconv.Atoi(parts[2])
			if err != nil {
				return Face{}, fmt.Errorf("corner %d: %w", c, err)
			}
			face.VN[c] = vn
		}
	}
	return face, nil
}

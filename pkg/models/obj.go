package models

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/facet/pkg/math3d"
)

// OBJLoader loads Wavefront OBJ files.
type OBJLoader struct {
	// Options
	CalculateNormals bool // If true, calculate normals if not provided
	SmoothNormals    bool // If true, use smooth shading (averaged normals)
}

// NewOBJLoader creates a new OBJ loader with default settings. Computed
// normals are smoothed, matching NewGLTFLoader and NewBuilder: flat
// normals on shared vertices only hold the last face's direction.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadOBJ is a convenience function to load an OBJ file with default settings.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().LoadFile(path)
}

// LoadFile loads an OBJ file from disk. Material libraries named by mtllib
// are read from the same directory; a missing library leaves the named
// materials white, any other library error fails the load.
func (l *OBJLoader) LoadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	mesh, libs, err := l.load(f, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for _, lib := range libs {
		mats, err := loadMTL(filepath.Join(dir, lib))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("material library %s: %w", lib, err)
		}
		mesh.applyMaterials(mats)
	}
	return mesh, nil
}

// Load parses an OBJ from a reader. mtllib statements are ignored.
func (l *OBJLoader) Load(r io.Reader, name string) (*Mesh, error) {
	mesh, _, err := l.load(r, name)
	return mesh, err
}

func (l *OBJLoader) load(r io.Reader, name string) (*Mesh, []string, error) {
	mesh := NewMesh(name)

	// OBJ indices are 1-based and address these lists independently
	var positions []math3d.Vec3
	var normals []math3d.Vec3
	var uvs []math3d.Vec2
	var libs []string

	// One mesh vertex per distinct (pos, uv, normal) triple
	type vertexKey struct {
		pos, uv, normal int
	}
	vertexMap := make(map[vertexKey]int)

	materialIdx := -1
	materialByName := make(map[string]int)

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: invalid vertex: %w", lineNum, err)
			}
			positions = append(positions, math3d.V3(p[0], p[1], p[2]))

		case "vt":
			p, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: invalid texture coord: %w", lineNum, err)
			}
			uvs = append(uvs, math3d.V2(p[0], p[1]))

		case "vn":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: invalid normal: %w", lineNum, err)
			}
			normals = append(normals, math3d.V3(p[0], p[1], p[2]).Normalize())

		case "f":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}

			faceVerts := make([]int, 0, len(fields)-1)
			for _, field := range fields[1:] {
				posIdx, uvIdx, normalIdx, err := parseFaceVertex(field)
				if err != nil {
					return nil, nil, fmt.Errorf("line %d: %w", lineNum, err)
				}

				posIdx = resolveIndex(posIdx, len(positions))
				uvIdx = resolveIndex(uvIdx, len(uvs))
				normalIdx = resolveIndex(normalIdx, len(normals))

				if posIdx < 0 || posIdx >= len(positions) {
					return nil, nil, fmt.Errorf("line %d: position index %d out of range", lineNum, posIdx+1)
				}

				key := vertexKey{posIdx, uvIdx, normalIdx}
				vertIdx, exists := vertexMap[key]
				if !exists {
					vert := MeshVertex{Position: positions[posIdx]}
					if uvIdx >= 0 && uvIdx < len(uvs) {
						vert.UV = uvs[uvIdx]
					}
					if normalIdx >= 0 && normalIdx < len(normals) {
						vert.Normal = normals[normalIdx]
					}
					vertIdx = len(mesh.Vertices)
					mesh.Vertices = append(mesh.Vertices, vert)
					vertexMap[key] = vertIdx
				}
				faceVerts = append(faceVerts, vertIdx)
			}

			// Fan triangulation for convex polygons, keeping CCW winding
			for i := 1; i < len(faceVerts)-1; i++ {
				mesh.Faces = append(mesh.Faces, Face{
					V:        [3]int{faceVerts[0], faceVerts[i], faceVerts[i+1]},
					Material: materialIdx,
				})
			}

		case "usemtl":
			if len(fields) < 2 {
				continue
			}
			idx, ok := materialByName[fields[1]]
			if !ok {
				idx = len(mesh.Materials)
				mesh.Materials = append(mesh.Materials, DefaultMaterial(fields[1]))
				materialByName[fields[1]] = idx
			}
			materialIdx = idx

		case "mtllib":
			libs = append(libs, fields[1:]...)

		case "o", "g":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}

		default:
			// Ignore smoothing groups and unknown directives
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading OBJ: %w", err)
	}
	if len(mesh.Faces) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", name, ErrNoGeometry)
	}

	mesh.CalculateBounds()

	if l.CalculateNormals && len(normals) == 0 {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	return mesh, libs, nil
}

// parseFloats parses the first n fields as floats.
func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("need %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// parseFaceVertex parses a face vertex in format: v, v/vt, v/vt/vn, or v//vn
// Returns 1-indexed values (0 means not specified)
func parseFaceVertex(s string) (pos, uv, normal int, err error) {
	parts := strings.Split(s, "/")

	pos, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid vertex index: %s", parts[0])
	}

	if len(parts) > 1 && parts[1] != "" {
		uv, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid texture index: %s", parts[1])
		}
	}

	if len(parts) > 2 && parts[2] != "" {
		normal, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid normal index: %s", parts[2])
		}
	}

	return pos, uv, normal, nil
}

// resolveIndex converts OBJ 1-indexed (or negative) index to 0-indexed.
// Returns -1 if index was 0 (not specified).
func resolveIndex(idx, count int) int {
	if idx == 0 {
		return -1
	}
	if idx < 0 {
		return count + idx // Negative indices count from end
	}
	return idx - 1
}

// applyMaterials fills the mesh's named materials from a parsed library.
func (m *Mesh) applyMaterials(lib map[string]Material) {
	for i, mat := range m.Materials {
		if def, ok := lib[mat.Name]; ok {
			m.Materials[i] = def
		}
	}
}

// loadMTL reads a Wavefront material library. Only the diffuse color
// (Kd), dissolve (d), diffuse map (map_Kd) and normal map (norm, map_Bump,
// bump) are used. Maps that cannot be decoded are skipped.
func loadMTL(path string) (map[string]Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MTL file: %w", err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	mats := make(map[string]Material)
	var cur *Material
	commit := func() {
		if cur != nil {
			mats[cur.Name] = *cur
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0][0] == '#' {
			continue
		}
		if fields[0] == "newmtl" {
			commit()
			m := DefaultMaterial(fields[1])
			cur = &m
			continue
		}
		if cur == nil {
			continue
		}

		switch fields[0] {
		case "Kd":
			if p, err := parseFloats(fields[1:], 3); err == nil {
				cur.BaseColor[0], cur.BaseColor[1], cur.BaseColor[2] = p[0], p[1], p[2]
			}
		case "d":
			if p, err := parseFloats(fields[1:], 1); err == nil {
				cur.BaseColor[3] = p[0]
			}
		case "map_Kd":
			if img, err := loadImage(filepath.Join(dir, fields[len(fields)-1])); err == nil {
				cur.BaseMap = img
				cur.HasTexture = true
			}
		case "norm", "map_Bump", "map_bump", "bump":
			if img, err := loadImage(filepath.Join(dir, fields[len(fields)-1])); err == nil {
				cur.NormalMap = img
			}
		}
	}
	commit()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading MTL: %w", err)
	}
	return mats, nil
}

// loadImage decodes an image file in any registered format.
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

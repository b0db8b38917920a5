package loaders

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wavefront/octracer/pkg/core"
	"github.com/wavefront/octracer/pkg/geometry"
	"github.com/wavefront/octracer/pkg/material"
	"github.com/wavefront/octracer/pkg/scene"
)

// faceVertex is one "v", "v/vt", "v//vn" or "v/vt/vn" token, holding
// 0-based indices into the file's vertex/texcoord/normal lists (-1 when
// absent).
type faceVertex struct {
	v, vt, vn int
}

// LoadOBJ parses a Wavefront OBJ file (and any mtllib it references) into a
// scene.Scene. Recognized directives: v, vn, vt, f, mtllib, usemtl; all
// others are logged as warnings via logger and skipped. A face is fanned
// into triangles (0,1,2) and, for quads, (2,3,0); any other vertex count is
// a warning. A failed numeric parse on v/vn/vt is fatal, since every face
// referencing that vertex would otherwise resolve to garbage.
func LoadOBJ(path string, logger core.Logger) (*scene.Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loaders: open obj %q: %w", path, err)
	}
	defer file.Close()

	dir := filepath.Dir(path)
	sc := scene.NewScene()

	var vertices, normals, texcoords []core.Vec3
	var currentMtl *material.Material
	lineNo := 0

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			v, err := parseVertex(fields)
			if err != nil {
				return nil, fmt.Errorf("loaders: obj %q line %d: %w", path, lineNo, err)
			}
			vertices = append(vertices, v)

		case "vn":
			n, err := parseVertex(fields)
			if err != nil {
				return nil, fmt.Errorf("loaders: obj %q line %d: %w", path, lineNo, err)
			}
			normals = append(normals, n)

		case "vt":
			uv, err := parseTexcoord(fields)
			if err != nil {
				return nil, fmt.Errorf("loaders: obj %q line %d: %w", path, lineNo, err)
			}
			texcoords = append(texcoords, uv)

		case "mtllib":
			if len(fields) < 2 {
				logger.Printf("warning: obj %q line %d: mtllib missing filename", path, lineNo)
				continue
			}
			mtlPath := filepath.Join(dir, fields[1])
			mats, texs, err := LoadMTL(mtlPath, logger)
			if err != nil {
				logger.Printf("warning: obj %q line %d: %v", path, lineNo, err)
				continue
			}
			for name, m := range mats {
				sc.Materials[name] = m
			}
			for name, t := range texs {
				sc.Textures[name] = t
			}

		case "usemtl":
			if len(fields) < 2 {
				logger.Printf("warning: obj %q line %d: usemtl missing name", path, lineNo)
				continue
			}
			m, ok := sc.Materials[fields[1]]
			if !ok {
				logger.Printf("warning: obj %q line %d: unknown material %q", path, lineNo, fields[1])
				currentMtl = nil
				continue
			}
			currentMtl = m

		case "f":
			if err := readFace(sc, fields, vertices, normals, texcoords, currentMtl, lineNo, logger); err != nil {
				logger.Printf("warning: obj %q line %d: %v", path, lineNo, err)
			}

		case "s", "g", "o":
			// smoothing groups, groups, object names: not used by this renderer.
			logger.Printf("warning: obj %q line %d: ignoring directive %q", path, lineNo, fields[0])

		default:
			logger.Printf("warning: obj %q line %d: unknown directive %q", path, lineNo, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loaders: read obj %q: %w", path, err)
	}

	return sc, nil
}

func parseVertex(fields []string) (core.Vec3, error) {
	if len(fields) < 4 {
		return core.Vec3{}, fmt.Errorf("unsupported vertex format %q", strings.Join(fields, " "))
	}
	x, err1 := strconv.ParseFloat(fields[1], 64)
	y, err2 := strconv.ParseFloat(fields[2], 64)
	z, err3 := strconv.ParseFloat(fields[3], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return core.Vec3{}, fmt.Errorf("unsupported vertex format %q", strings.Join(fields, " "))
	}
	return core.NewVec3(x, y, z), nil
}

func parseTexcoord(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("unsupported texcoord format %q", strings.Join(fields, " "))
	}
	u, err1 := strconv.ParseFloat(fields[1], 64)
	v, err2 := strconv.ParseFloat(fields[2], 64)
	if err1 != nil || err2 != nil {
		return core.Vec3{}, fmt.Errorf("unsupported texcoord format %q", strings.Join(fields, " "))
	}
	w := 0.0
	if len(fields) >= 4 {
		if parsed, err := strconv.ParseFloat(fields[3], 64); err == nil {
			w = parsed
		}
	}
	return core.NewVec3(u, v, w), nil
}

// parseFaceToken accepts "v", "v/vt", "v//vn" and "v/vt/vn", returning
// 0-based indices (-1 for an absent component).
func parseFaceToken(token string) (faceVertex, error) {
	parts := strings.Split(token, "/")
	fv := faceVertex{vt: -1, vn: -1}

	v, err := strconv.Atoi(parts[0])
	if err != nil {
		return faceVertex{}, fmt.Errorf("unsupported face format %q", token)
	}
	fv.v = v - 1

	switch len(parts) {
	case 1:
		// "v"
	case 2:
		// "v/vt"
		vt, err := strconv.Atoi(parts[1])
		if err != nil {
			return faceVertex{}, fmt.Errorf("unsupported face format %q", token)
		}
		fv.vt = vt - 1
	case 3:
		if parts[1] != "" {
			vt, err := strconv.Atoi(parts[1])
			if err != nil {
				return faceVertex{}, fmt.Errorf("unsupported face format %q", token)
			}
			fv.vt = vt - 1
		}
		vn, err := strconv.Atoi(parts[2])
		if err != nil {
			return faceVertex{}, fmt.Errorf("unsupported face format %q", token)
		}
		fv.vn = vn - 1
	default:
		return faceVertex{}, fmt.Errorf("unsupported face format %q", token)
	}
	return fv, nil
}

func readFace(sc *scene.Scene, fields []string, vertices, normals, texcoords []core.Vec3, mtl *material.Material, lineNo int, logger core.Logger) error {
	tokens := fields[1:]
	verts := make([]faceVertex, 0, len(tokens))
	for _, tok := range tokens {
		fv, err := parseFaceToken(tok)
		if err != nil {
			return err
		}
		verts = append(verts, fv)
	}

	if len(verts) != 3 && len(verts) != 4 {
		return fmt.Errorf("unsupported face vertex count (%d)", len(verts))
	}

	// Fan a quad into two triangles sharing the (0,2) diagonal.
	if len(verts) == 4 {
		verts = append(verts, verts[0])
	}

	for i := 3; i <= len(verts); i += 2 {
		tri := verts[i-3 : i]
		t, err := buildTriangle(tri, vertices, normals, texcoords, mtl, lineNo)
		if err != nil {
			return err
		}
		sc.AddPrimitive(t)
	}
	return nil
}

func buildTriangle(verts []faceVertex, vertices, normals, texcoords []core.Vec3, mtl *material.Material, lineNo int) (*geometry.Triangle, error) {
	var v, n, uv [3]core.Vec3
	haveNormals := true
	for i, fv := range verts {
		if fv.v < 0 || fv.v >= len(vertices) {
			return nil, fmt.Errorf("vertex index out of range")
		}
		v[i] = vertices[fv.v]

		if fv.vn >= 0 && fv.vn < len(normals) {
			n[i] = normals[fv.vn]
		} else {
			haveNormals = false
		}

		if fv.vt >= 0 && fv.vt < len(texcoords) {
			uv[i] = texcoords[fv.vt]
		}
	}
	if !haveNormals {
		n = [3]core.Vec3{}
	}

	return geometry.NewTriangle(
		v[0], v[1], v[2],
		n[0], n[1], n[2],
		uv[0], uv[1], uv[2],
		mtl, lineNo,
	), nil
}

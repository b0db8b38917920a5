package loaders

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wavefront/octracer/pkg/core"
	"github.com/wavefront/octracer/pkg/material"
)

// LoadMTL parses a Wavefront MTL file into name-indexed materials and the
// textures they reference. Recognized directives: newmtl, Ka, Kd, Ks, Ns,
// Ni, Tr, Tf, Refl (non-standard reflectance), map_Ka. Everything else is
// logged as a warning and skipped.
func LoadMTL(path string, logger core.Logger) (map[string]*material.Material, map[string]*material.Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loaders: open mtl %q: %w", path, err)
	}
	defer file.Close()

	dir := filepath.Dir(path)
	materials := make(map[string]*material.Material)
	textures := make(map[string]*material.Texture)
	var current *material.Material

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				logger.Printf("warning: mtl %q: newmtl missing name", path)
				continue
			}
			current = material.NewMaterial(fields[1])
			materials[fields[1]] = current

		case "Ka":
			if v, ok := parseVec3(fields); ok && current != nil {
				current.Ka = v
			}
		case "Kd":
			if v, ok := parseVec3(fields); ok && current != nil {
				current.Kd = v
			}
		case "Ks":
			if v, ok := parseVec3(fields); ok && current != nil {
				current.Ks = v
			}
		case "Tf":
			if v, ok := parseVec3(fields); ok && current != nil {
				current.Tf = v
			}
		case "Ns":
			if f, ok := parseFloat1(fields); ok && current != nil {
				current.Ns = f
			}
		case "Ni":
			if f, ok := parseFloat1(fields); ok && current != nil {
				current.Ni = f
			}
		case "Tr":
			if f, ok := parseFloat1(fields); ok && current != nil {
				current.Tr = f
			}
		case "Refl":
			if f, ok := parseFloat1(fields); ok && current != nil {
				current.Refl = f
			}
		case "map_Ka":
			if current == nil || len(fields) < 2 {
				logger.Printf("warning: mtl %q: map_Ka with no current material", path)
				continue
			}
			texPath := filepath.Join(dir, fields[len(fields)-1])
			tex, err := LoadTexture(texPath)
			if err != nil {
				logger.Printf("warning: mtl %q: %v", path, err)
				continue
			}
			textures[fields[1]] = tex
			current.Texture = tex

		default:
			logger.Printf("warning: mtl %q: unrecognized directive %q", path, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("loaders: read mtl %q: %w", path, err)
	}

	return materials, textures, nil
}

func parseVec3(fields []string) (core.Vec3, bool) {
	if len(fields) < 4 {
		return core.Vec3{}, false
	}
	x, err1 := strconv.ParseFloat(fields[1], 64)
	y, err2 := strconv.ParseFloat(fields[2], 64)
	z, err3 := strconv.ParseFloat(fields[3], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return core.Vec3{}, false
	}
	return core.NewVec3(x, y, z), true
}

func parseFloat1(fields []string) (float64, bool) {
	if len(fields) < 2 {
		return 0, false
	}
	f, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

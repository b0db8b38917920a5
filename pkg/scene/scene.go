// Package scene assembles a parsed OBJ/MTL scene into the octree, material
// table, texture table, and light list the shading kernel queries.
package scene

import (
	"github.com/wavefront/octracer/pkg/core"
	"github.com/wavefront/octracer/pkg/geometry"
	"github.com/wavefront/octracer/pkg/material"
)

// Light is a point light with independent ambient/diffuse/specular color.
type Light struct {
	Position core.Vec3
	Ambient  core.Vec3
	Diffuse  core.Vec3
	Specular core.Vec3
}

// Scene owns everything the renderer needs: geometry (via the octree),
// name-indexed materials and textures, and the light list. Every Material's
// Texture and every Triangle's Mtl must refer into this same scene's
// tables, or be nil.
type Scene struct {
	Octree    *geometry.Octree
	Materials map[string]*material.Material
	Textures  map[string]*material.Texture
	Lights    []Light
}

// NewScene returns an empty scene ready to be populated by a loader.
func NewScene() *Scene {
	return &Scene{
		Octree:    geometry.NewOctree(),
		Materials: make(map[string]*material.Material),
		Textures:  make(map[string]*material.Texture),
	}
}

// AddPrimitive adds a triangle to the scene's acceleration structure. Must
// be called before Finalize.
func (s *Scene) AddPrimitive(p geometry.Primitive) {
	s.Octree.AddPrimitive(p)
}

// Finalize builds the octree from everything added so far. The scene's
// geometry is immutable after this call; it may be queried read-only by any
// number of concurrent renderer goroutines.
func (s *Scene) Finalize() {
	s.Octree.Finalize()
}

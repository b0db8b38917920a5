// Package geometry holds the triangle primitive and the octree that
// accelerates ray queries over it.
package geometry

import (
	"github.com/wavefront/octracer/pkg/core"
	"github.com/wavefront/octracer/pkg/material"
)

// Primitive is the capability set the shading kernel and octree need from
// any piece of scene geometry. Triangle is the only implementation; the
// interface exists so the octree stores borrowed references rather than a
// concrete type.
type Primitive interface {
	AABB() core.AABB
	IntersectRay(ray core.Ray) (point core.Vec3, distance float64, hit bool)
	Normal(point core.Vec3) core.Vec3
	UVW(point core.Vec3) core.Vec3
	Material() *material.Material
	DebugLine() int
}

package geometry

import (
	"math"

	"github.com/wavefront/octracer/pkg/core"
	"github.com/wavefront/octracer/pkg/material"
)

// Triangle is a mesh face: three vertices, three per-vertex normals, three
// per-vertex UVW coordinates, a cached AABB, an optional material, and the
// OBJ source line it was parsed from (0 if unknown).
type Triangle struct {
	V0, V1, V2 core.Vec3
	N0, N1, N2 core.Vec3
	UV0, UV1, UV2 core.Vec3

	Mtl  *material.Material
	Line int

	bbox core.AABB
}

// NewTriangle builds a Triangle and caches its AABB. If all three normals
// are the zero vector (no `vn` data in the source file), the flat face
// normal is used for all three vertices so shading always has something
// sane to interpolate.
func NewTriangle(v0, v1, v2, n0, n1, n2, uv0, uv1, uv2 core.Vec3, mtl *material.Material, line int) *Triangle {
	t := &Triangle{
		V0: v0, V1: v1, V2: v2,
		N0: n0, N1: n1, N2: n2,
		UV0: uv0, UV1: uv1, UV2: uv2,
		Mtl:  mtl,
		Line: line,
	}
	if n0.LengthSquared() == 0 && n1.LengthSquared() == 0 && n2.LengthSquared() == 0 {
		face := v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
		t.N0, t.N1, t.N2 = face, face, face
	}
	t.bbox = core.NewAABBFromPoints(v0, v1, v2)
	return t
}

// AABB returns the triangle's cached bounding box.
func (t *Triangle) AABB() core.AABB { return t.bbox }

// Material returns the triangle's material, or nil.
func (t *Triangle) Material() *material.Material { return t.Mtl }

// DebugLine returns the OBJ source line this face was parsed from.
func (t *Triangle) DebugLine() int { return t.Line }

// IntersectRay implements Möller–Trumbore intersection. A slab test against
// the cached AABB short-circuits misses cheaply before the full algebra.
func (t *Triangle) IntersectRay(ray core.Ray) (core.Vec3, float64, bool) {
	if !t.bbox.Hit(ray, 0, math.Inf(1)) {
		return core.Vec3{}, 0, false
	}

	const epsilon = 1e-8

	e1 := t.V1.Subtract(t.V0)
	e2 := t.V2.Subtract(t.V0)
	p := ray.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -epsilon && det < epsilon {
		return core.Vec3{}, 0, false
	}
	inv := 1.0 / det

	tv := ray.Origin.Subtract(t.V0)
	u := tv.Dot(p) * inv
	if u < 0.0 || u > 1.0 {
		return core.Vec3{}, 0, false
	}

	q := tv.Cross(e1)
	v := ray.Direction.Dot(q) * inv
	if v < 0.0 || u+v > 1.0 {
		return core.Vec3{}, 0, false
	}

	distance := e2.Dot(q) * inv
	if distance < 0.0 {
		return core.Vec3{}, 0, false
	}

	return ray.At(distance), distance, true
}

// areaOfTriangle computes a triangle's area from its three side lengths via
// Heron's formula, clamping to zero if floating-point error on a degenerate
// triangle would otherwise produce a negative radicand.
func areaOfTriangle(a, b, c float64) float64 {
	p := (a + b + c) / 2.0
	radicand := p * (p - a) * (p - b) * (p - c)
	if radicand < 0 {
		return 0
	}
	return math.Sqrt(radicand)
}

// barycentricWeights returns the area-based barycentric weights of point,
// assumed to already lie in the triangle's plane, relative to V0/V1/V2.
func (t *Triangle) barycentricWeights(point core.Vec3) (n0, n1, n2, n float64) {
	a := t.V0.Distance(t.V1)
	b := t.V1.Distance(t.V2)
	c := t.V2.Distance(t.V0)

	p0 := point.Distance(t.V0)
	p1 := point.Distance(t.V1)
	p2 := point.Distance(t.V2)

	n0 = areaOfTriangle(b, p2, p1)
	n1 = areaOfTriangle(c, p0, p2)
	n2 = areaOfTriangle(a, p1, p0)
	n = n0 + n1 + n2
	return
}

// Normal returns the barycentrically interpolated per-vertex normal at
// point.
func (t *Triangle) Normal(point core.Vec3) core.Vec3 {
	n0, n1, n2, n := t.barycentricWeights(point)
	if n == 0 {
		return t.N0
	}
	return t.N0.Multiply(n0).Add(t.N1.Multiply(n1)).Add(t.N2.Multiply(n2)).Multiply(1.0 / n).Normalize()
}

// UVW returns the barycentrically interpolated per-vertex UVW at point.
func (t *Triangle) UVW(point core.Vec3) core.Vec3 {
	n0, n1, n2, n := t.barycentricWeights(point)
	if n == 0 {
		return t.UV0
	}
	return t.UV0.Multiply(n0).Add(t.UV1.Multiply(n1)).Add(t.UV2.Multiply(n2)).Multiply(1.0 / n)
}

package geometry

import (
	"math"
	"sort"

	"github.com/wavefront/octracer/pkg/core"
)

// splitBoundary is the minimum primitive count a node must hold before it
// subdivides into eight children. Below this, leaf-testing every primitive
// is cheaper than descending.
const splitBoundary = 16

// OctreeNode is one node of the octree: the region it covers, the
// primitives that can't be pushed further down (because no single child
// fully contains them), and either no children or eight children
// partitioning its AABB.
type OctreeNode struct {
	aabb       core.AABB
	center     core.Vec3
	primitives []Primitive
	children   [8]*OctreeNode // all nil for an unsplit leaf
}

// Octree is the spatial acceleration structure over the scene's triangles.
type Octree struct {
	root     *OctreeNode
	pending  []Primitive
	final    bool
}

// NewOctree returns an empty, unfinalized octree.
func NewOctree() *Octree {
	return &Octree{}
}

// AddPrimitive appends p to the pre-finalize list and extends the root AABB
// to include it. Calling this after Finalize has no effect.
func (o *Octree) AddPrimitive(p Primitive) {
	if o.final {
		return
	}
	o.pending = append(o.pending, p)
	box := p.AABB()
	if o.root == nil {
		o.root = &OctreeNode{aabb: box}
	} else {
		o.root.aabb = o.root.aabb.ExtendAABB(box)
	}
}

// Finalize moves every added primitive into the root node and recursively
// splits. Safe to call at most once; a second call is a no-op.
func (o *Octree) Finalize() {
	if o.final {
		return
	}
	o.final = true
	if o.root == nil {
		o.root = &OctreeNode{}
	}
	o.root.primitives = o.pending
	o.pending = nil
	o.root.split()
}

// GetAABB returns the root node's bound.
func (o *Octree) GetAABB() core.AABB {
	if o.root == nil {
		return core.AABB{}
	}
	return o.root.aabb
}

// split partitions a node's primitives into eight octants around its AABB
// center, per spec: a node under splitBoundary never splits, and a
// primitive only moves into a child if that child's AABB fully contains it
// — primitives straddling the center stay at the parent.
func (n *OctreeNode) split() {
	if len(n.primitives) < splitBoundary {
		return
	}

	n.center = n.aabb.Center()
	min, max, c := n.aabb.Min, n.aabb.Max, n.center

	var childBoxes [8]core.AABB
	for i := 0; i < 8; i++ {
		lo := core.NewVec3(
			pick(i&1 != 0, c.X, min.X),
			pick(i&2 != 0, c.Y, min.Y),
			pick(i&4 != 0, c.Z, min.Z),
		)
		hi := core.NewVec3(
			pick(i&1 != 0, max.X, c.X),
			pick(i&2 != 0, max.Y, c.Y),
			pick(i&4 != 0, max.Z, c.Z),
		)
		childBoxes[i] = core.NewAABB(lo, hi)
	}

	retained := n.primitives[:0]
	childPrims := make([][]Primitive, 8)

	for _, p := range n.primitives {
		box := p.AABB()
		assigned := false
		for i := 0; i < 8; i++ {
			if childBoxes[i].FullyContains(box) {
				childPrims[i] = append(childPrims[i], p)
				assigned = true
				break
			}
		}
		if !assigned {
			retained = append(retained, p)
		}
	}
	n.primitives = retained

	for i := 0; i < 8; i++ {
		child := &OctreeNode{aabb: childBoxes[i], primitives: childPrims[i]}
		child.split()
		n.children[i] = child
	}
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// slabHit runs the ray/AABB slab test described in spec.md §4.1, returning
// the entry distance on a hit.
func slabHit(box core.AABB, ray core.Ray) (float64, bool) {
	t1 := (box.Min.X - ray.Origin.X) * ray.InvDirection.X
	t2 := (box.Max.X - ray.Origin.X) * ray.InvDirection.X
	t3 := (box.Min.Y - ray.Origin.Y) * ray.InvDirection.Y
	t4 := (box.Max.Y - ray.Origin.Y) * ray.InvDirection.Y
	t5 := (box.Min.Z - ray.Origin.Z) * ray.InvDirection.Z
	t6 := (box.Max.Z - ray.Origin.Z) * ray.InvDirection.Z

	tmin := math.Max(math.Max(math.Min(t1, t2), math.Min(t3, t4)), math.Min(t5, t6))
	tmax := math.Min(math.Min(math.Max(t1, t2), math.Max(t3, t4)), math.Max(t5, t6))

	if tmax < 0 || tmin > tmax {
		return 0, false
	}
	return tmin, true
}

// IntersectRay returns the primitive nearest along ray (distance >= 0), or
// ok=false if nothing is hit.
func (o *Octree) IntersectRay(ray core.Ray) (prim Primitive, point core.Vec3, distance float64, ok bool) {
	if o.root == nil {
		return nil, core.Vec3{}, 0, false
	}
	return o.root.intersect(ray, math.Inf(1))
}

type childEntry struct {
	node  *OctreeNode
	entry float64
}

// intersect recursively visits a node: test the node's own AABB, then its
// retained primitives, then its children in ascending distance order,
// stopping after the first child that yields a hit (children are disjoint
// octants along the ray, per spec.md §4.1 / §9).
func (n *OctreeNode) intersect(ray core.Ray, tMax float64) (Primitive, core.Vec3, float64, bool) {
	if _, hit := slabHit(n.aabb, ray); !hit {
		return nil, core.Vec3{}, 0, false
	}

	var bestPrim Primitive
	var bestPoint core.Vec3
	bestDist := tMax
	found := false

	for _, p := range n.primitives {
		if point, dist, hit := p.IntersectRay(ray); hit && dist >= 0 && dist < bestDist {
			bestPrim, bestPoint, bestDist, found = p, point, dist, true
		}
	}

	var entries []childEntry
	for _, child := range n.children {
		if child == nil {
			continue
		}
		if entry, hit := slabHit(child.aabb, ray); hit {
			entries = append(entries, childEntry{child, entry})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].entry < entries[j].entry })

	for _, e := range entries {
		if prim, point, dist, hit := e.node.intersect(ray, bestDist); hit {
			bestPrim, bestPoint, bestDist, found = prim, point, dist, true
			break
		}
	}

	return bestPrim, bestPoint, bestDist, found
}

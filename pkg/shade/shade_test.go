package shade

import (
	"math"
	"testing"

	"github.com/wavefront/octracer/pkg/core"
	"github.com/wavefront/octracer/pkg/geometry"
	"github.com/wavefront/octracer/pkg/material"
	"github.com/wavefront/octracer/pkg/scene"
)

func floorTriangle(mtl *material.Material) *geometry.Triangle {
	return geometry.NewTriangle(
		core.NewVec3(-10, 0, -10), core.NewVec3(10, 0, -10), core.NewVec3(0, 0, 10),
		core.Vec3{}, core.Vec3{}, core.Vec3{},
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		mtl, 0,
	)
}

// occluderAt returns a small horizontal triangle centered at the given
// height, large enough to fully block a ray passing through (0, height, 0).
func occluderAt(height float64, mtl *material.Material) *geometry.Triangle {
	return geometry.NewTriangle(
		core.NewVec3(-5, height, -5), core.NewVec3(5, height, -5), core.NewVec3(0, height, 5),
		core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0),
		core.Vec3{}, core.Vec3{}, core.Vec3{},
		mtl, 0,
	)
}

func TestTraceRay_ShadowThroughOpaqueOccluderZeroesDiffuse(t *testing.T) {
	floorMtl := material.NewMaterial("floor")
	floorMtl.Kd = core.NewVec3(1, 1, 1)
	floorMtl.Ka = core.NewVec3(1, 1, 1) // diffuse is modulated by the Ka-derived surface color

	opaque := material.NewMaterial("opaque")
	opaque.Tr = 0

	scn := scene.NewScene()
	scn.AddPrimitive(floorTriangle(floorMtl))
	scn.AddPrimitive(occluderAt(1, opaque))
	scn.Lights = []scene.Light{{
		Position: core.NewVec3(0, 5, 0),
		Ambient:  core.Vec3{},
		Diffuse:  core.NewVec3(1, 1, 1),
		Specular: core.NewVec3(1, 1, 1),
	}}
	scn.Finalize()

	// Start the view ray between the occluder and the floor so only the
	// shadow ray crosses the occluder.
	ray := core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(0, -1, 0))
	color := traceRayWorker(ray, 0, false, 1.0, scn)

	if color.X > 1e-9 || color.Y > 1e-9 || color.Z > 1e-9 {
		t.Errorf("expected zero contribution behind an opaque occluder, got %+v", color)
	}
}

func TestTraceRay_ShadowThroughTransparentOccluderHalvesDiffuse(t *testing.T) {
	floorMtl := material.NewMaterial("floor")
	floorMtl.Kd = core.NewVec3(1, 1, 1)
	floorMtl.Ka = core.NewVec3(1, 1, 1) // diffuse is modulated by the Ka-derived surface color

	glass := material.NewMaterial("glass")
	glass.Tr = 0.5
	glass.Tf = core.NewVec3(1, 1, 1)

	withOccluder := scene.NewScene()
	withOccluder.AddPrimitive(floorTriangle(floorMtl))
	withOccluder.AddPrimitive(occluderAt(1, glass))
	light := scene.Light{
		Position: core.NewVec3(0, 5, 0),
		Diffuse:  core.NewVec3(1, 1, 1),
		Specular: core.Vec3{},
	}
	withOccluder.Lights = []scene.Light{light}
	withOccluder.Finalize()

	bare := scene.NewScene()
	bare.AddPrimitive(floorTriangle(floorMtl))
	bare.Lights = []scene.Light{light}
	bare.Finalize()

	// Start the view ray between the occluder and the floor so only the
	// shadow ray crosses the occluder.
	ray := core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(0, -1, 0))
	attenuated := traceRayWorker(ray, 0, false, 1.0, withOccluder)
	full := traceRayWorker(ray, 0, false, 1.0, bare)

	const tolerance = 1e-6
	if math.Abs(attenuated.X-full.X*0.5) > tolerance {
		t.Errorf("diffuse through Tr=0.5 occluder = %v, want half of unoccluded %v", attenuated.X, full.X)
	}
}

// TestTraceRay_RecursionCapTerminates builds two parallel mirrors facing each
// other and checks that shading a ray between them terminates (the call
// returning at all proves it did) with a bounded color magnitude.
func TestTraceRay_RecursionCapTerminates(t *testing.T) {
	mirror := material.NewMaterial("mirror")
	mirror.Refl = 0.9
	mirror.Ka = core.NewVec3(0.01, 0.01, 0.01)

	left := geometry.NewTriangle(
		core.NewVec3(-1, -10, -10), core.NewVec3(-1, 10, -10), core.NewVec3(-1, 0, 10),
		core.NewVec3(1, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(1, 0, 0),
		core.Vec3{}, core.Vec3{}, core.Vec3{},
		mirror, 0,
	)
	right := geometry.NewTriangle(
		core.NewVec3(1, -10, -10), core.NewVec3(1, 10, -10), core.NewVec3(1, 0, 10),
		core.NewVec3(-1, 0, 0), core.NewVec3(-1, 0, 0), core.NewVec3(-1, 0, 0),
		core.Vec3{}, core.Vec3{}, core.Vec3{},
		mirror, 0,
	)

	scn := scene.NewScene()
	scn.AddPrimitive(left)
	scn.AddPrimitive(right)
	scn.Lights = []scene.Light{{
		Position: core.NewVec3(0, 5, 0),
		Ambient:  core.NewVec3(0.1, 0.1, 0.1),
		Diffuse:  core.NewVec3(1, 1, 1),
		Specular: core.NewVec3(1, 1, 1),
	}}
	scn.Finalize()

	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(1, 0, -1))
	color := TraceRay(ray, scn)

	if math.IsNaN(color.X) || math.IsInf(color.X, 0) {
		t.Fatalf("recursion produced a non-finite color: %+v", color)
	}
	if color.X > 100 || color.Y > 100 || color.Z > 100 {
		t.Errorf("recursion produced an unbounded color: %+v", color)
	}
}

func TestColorToRGB_ClampsAndTruncates(t *testing.T) {
	tests := []struct {
		name string
		in   core.Vec3
		want [3]byte
	}{
		{"zero", core.NewVec3(0, 0, 0), [3]byte{0, 0, 0}},
		{"one", core.NewVec3(1, 1, 1), [3]byte{255, 255, 255}},
		{"over", core.NewVec3(2, -1, 0.5), [3]byte{255, 0, 127}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ColorToRGB(tt.in)
			if got != tt.want {
				t.Errorf("ColorToRGB(%+v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

package geometry

import (
	"math"
	"testing"

	"github.com/wavefront/octracer/pkg/core"
)

func TestTriangle_IntersectRay(t *testing.T) {
	// Triangle (0,0,0)-(1,0,0)-(1,1,0), per the spec's concrete scenario.
	tri := NewTriangle(
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(1, 1, 0),
		core.Vec3{}, core.Vec3{}, core.Vec3{},
		core.Vec3{}, core.Vec3{}, core.Vec3{},
		nil, 0,
	)

	tests := []struct {
		name      string
		ray       core.Ray
		wantHit   bool
		wantDist  float64
	}{
		{
			name:     "hits the triangle interior",
			ray:      core.NewRay(core.NewVec3(0.9, 0.9, -10), core.NewVec3(0, 0, 1)),
			wantHit:  true,
			wantDist: 10,
		},
		{
			name:    "misses entirely",
			ray:     core.NewRay(core.NewVec3(5, 5, 5), core.NewVec3(0, 0, 1)),
			wantHit: false,
		},
		{
			name:    "behind the ray origin",
			ray:     core.NewRay(core.NewVec3(0.9, 0.9, 10), core.NewVec3(0, 0, 1)),
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, dist, hit := tri.IntersectRay(tt.ray)
			if hit != tt.wantHit {
				t.Fatalf("IntersectRay() hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && math.Abs(dist-tt.wantDist) > 1e-9 {
				t.Errorf("IntersectRay() dist = %v, want %v", dist, tt.wantDist)
			}
		})
	}
}

func TestTriangle_NormalFallsBackToFaceNormal(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.Vec3{}, core.Vec3{}, core.Vec3{},
		core.Vec3{}, core.Vec3{}, core.Vec3{},
		nil, 0,
	)

	n := tri.Normal(core.NewVec3(0.25, 0.25, 0))
	want := core.NewVec3(0, 0, 1)
	if n.Subtract(want).Length() > 1e-9 {
		t.Errorf("Normal() = %v, want %v", n, want)
	}
}

func TestTriangle_NormalInterpolatesPerVertex(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0),
		core.Vec3{}, core.Vec3{}, core.Vec3{},
		nil, 0,
	)

	// At V2 the interpolated normal should equal N2 exactly.
	n := tri.Normal(core.NewVec3(0, 1, 0))
	want := core.NewVec3(1, 0, 0)
	if n.Subtract(want).Length() > 1e-6 {
		t.Errorf("Normal() at V2 = %v, want %v", n, want)
	}
}

package tile

import (
	"testing"

	"github.com/wavefront/octracer/pkg/camera"
	"github.com/wavefront/octracer/pkg/core"
	"github.com/wavefront/octracer/pkg/geometry"
	"github.com/wavefront/octracer/pkg/material"
	"github.com/wavefront/octracer/pkg/scene"
)

func TestRender_EmptySceneProducesBlackChunk(t *testing.T) {
	scn := scene.NewScene()
	scn.Finalize()

	cam := camera.Camera{Origin: core.NewVec3(0, 0, -5), AOV: 90}
	chunk := WorkChunk{ImageWidth: 8, ImageHeight: 8, X: 0, Y: 0, Width: 8, Height: 8}

	pixels := Render(chunk, cam, scn)
	if len(pixels) != 8*8*3 {
		t.Fatalf("Render() len = %d, want %d", len(pixels), 8*8*3)
	}
	for i, b := range pixels {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0 for an empty scene", i, b)
		}
	}
}

func TestRender_ChunkOffsetMatchesFullImagePixel(t *testing.T) {
	mtl := material.NewMaterial("wall")
	mtl.Ka = core.NewVec3(1, 0, 0)

	scn := scene.NewScene()
	scn.AddPrimitive(geometry.NewTriangle(
		core.NewVec3(-10, -10, 5), core.NewVec3(10, -10, 5), core.NewVec3(0, 10, 5),
		core.NewVec3(0, 0, -1), core.NewVec3(0, 0, -1), core.NewVec3(0, 0, -1),
		core.Vec3{}, core.Vec3{}, core.Vec3{},
		mtl, 0,
	))
	scn.Finalize()

	cam := camera.Camera{Origin: core.NewVec3(0, 0, 0), AOV: 90}

	full := Render(WorkChunk{ImageWidth: 4, ImageHeight: 4, X: 0, Y: 0, Width: 4, Height: 4}, cam, scn)
	sub := Render(WorkChunk{ImageWidth: 4, ImageHeight: 4, X: 2, Y: 2, Width: 2, Height: 2}, cam, scn)

	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			fullIdx := ((2+row)*4 + (2 + col)) * 3
			subIdx := (row*2 + col) * 3
			for c := 0; c < 3; c++ {
				if full[fullIdx+c] != sub[subIdx+c] {
					t.Errorf("pixel (%d,%d) channel %d: full=%d sub=%d", col, row, c, full[fullIdx+c], sub[subIdx+c])
				}
			}
		}
	}
}

// Command master loads a scene and camera and serves WorkChunks to
// connecting workers, compositing their results into periodic frame dumps.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/wavefront/octracer/pkg/camera"
	"github.com/wavefront/octracer/pkg/core"
	"github.com/wavefront/octracer/pkg/loaders"
	"github.com/wavefront/octracer/pkg/master"
)

func main() {
	objPath := flag.String("obj", "", "path to the Wavefront OBJ scene to render")
	addr := flag.String("listen", ":12345", "TCP address to listen on for workers")
	width := flag.Int("width", 1920, "output image width")
	height := flag.Int("height", 1080, "output image height")
	animDir := flag.String("anim-dir", "anim", "directory for periodic frame dumps")
	originX := flag.Float64("origin-x", 300, "camera origin X")
	originY := flag.Float64("origin-y", 57, "camera origin Y")
	originZ := flag.Float64("origin-z", 160, "camera origin Z")
	pitch := flag.Float64("pitch", 0, "camera pitch, degrees")
	yaw := flag.Float64("yaw", 180, "camera yaw, degrees")
	roll := flag.Float64("roll", 0, "camera roll, degrees")
	aov := flag.Float64("aov", 110, "camera horizontal angle of view, degrees")
	flag.Parse()

	if *objPath == "" {
		fmt.Println("usage: master -obj <scene.obj> [options]")
		flag.PrintDefaults()
		return
	}

	fmt.Println("Loading scene...")
	if _, err := loaders.LoadOBJ(*objPath, stdLogger{}); err != nil {
		log.Fatalf("error: %v", err)
	}
	// TODO: stream the loaded scene to workers over SCNE instead of relying
	// on every worker loading the same OBJ path locally.

	cam := camera.Camera{
		Origin: core.NewVec3(*originX, *originY, *originZ),
		Pitch:  *pitch, Yaw: *yaw, Roll: *roll,
		AOV: *aov,
	}

	fmt.Printf("Resolution: %d %d\n", *width, *height)
	m := master.New(*width, *height, cam, *animDir)

	fmt.Println("Starting server...")
	if err := m.Listen(*addr); err != nil {
		log.Fatalf("error: %v", err)
	}
}

type stdLogger struct{}

func (stdLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

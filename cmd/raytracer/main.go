// Command raytracer renders a single OBJ scene to a PNG file on one
// process, with no master/worker networking involved.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/wavefront/octracer/pkg/camera"
	"github.com/wavefront/octracer/pkg/core"
	"github.com/wavefront/octracer/pkg/loaders"
	"github.com/wavefront/octracer/pkg/shade"
)

func main() {
	objPath := flag.String("obj", "", "path to the Wavefront OBJ scene to render")
	width := flag.Int("width", 1920, "output image width")
	height := flag.Int("height", 1080, "output image height")
	originX := flag.Float64("origin-x", 0, "camera origin X")
	originY := flag.Float64("origin-y", 0, "camera origin Y")
	originZ := flag.Float64("origin-z", 0, "camera origin Z")
	pitch := flag.Float64("pitch", 0, "camera pitch, degrees")
	yaw := flag.Float64("yaw", 0, "camera yaw, degrees")
	roll := flag.Float64("roll", 0, "camera roll, degrees")
	aov := flag.Float64("aov", 90, "camera horizontal angle of view, degrees")
	outPath := flag.String("out", "", "output PNG path (default: output/render_<timestamp>.png)")
	flag.Parse()

	if *objPath == "" {
		fmt.Println("usage: raytracer -obj <scene.obj> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Loading scene...")
	sc, err := loaders.LoadOBJ(*objPath, stdLogger{})
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	sc.Finalize()

	cam := camera.Camera{
		Origin: core.NewVec3(*originX, *originY, *originZ),
		Pitch:  *pitch, Yaw: *yaw, Roll: *roll,
		AOV: *aov,
	}
	sensor := cam.GetSensor(*width, *height)

	fmt.Printf("Rendering %dx%d...\n", *width, *height)
	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, *width, *height))
	for y := 0; y < *height; y++ {
		for x := 0; x < *width; x++ {
			ray := sensor.GetRay(x, y)
			c := shade.TraceRay(ray, sc)
			rgb := shade.ColorToRGB(c)
			img.Set(x, y, color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255})
		}
	}
	fmt.Printf("Rendered in %s\n", time.Since(start))

	dest := *outPath
	if dest == "" {
		if err := os.MkdirAll("output", 0o755); err != nil {
			log.Fatalf("error creating output directory: %v", err)
		}
		dest = filepath.Join("output", fmt.Sprintf("render_%d.png", time.Now().UnixNano()))
	}

	f, err := os.Create(dest)
	if err != nil {
		log.Fatalf("error creating %s: %v", dest, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		log.Fatalf("error encoding PNG: %v", err)
	}
	fmt.Printf("Saved to %s\n", dest)
}

type stdLogger struct{}

func (stdLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

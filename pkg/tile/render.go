package tile

import (
	"runtime"
	"sync"

	"github.com/wavefront/octracer/pkg/camera"
	"github.com/wavefront/octracer/pkg/scene"
	"github.com/wavefront/octracer/pkg/shade"
)

// rowTask is one scanline of a chunk to render, handed to a worker
// goroutine.
type rowTask struct {
	row int
}

// Render shades every pixel of chunk against scn through cam, returning a
// row-major RGB888 buffer of Width*Height*3 bytes. Rows are distributed
// across a small pool of goroutines since chunk rows don't interact.
func Render(chunk WorkChunk, cam camera.Camera, scn *scene.Scene) []byte {
	sensor := cam.GetSensor(chunk.ImageWidth, chunk.ImageHeight)
	pixels := make([]byte, chunk.Width*chunk.Height*3)

	numWorkers := runtime.NumCPU()
	if numWorkers > chunk.Height {
		numWorkers = chunk.Height
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	tasks := make(chan rowTask, chunk.Height)
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				renderRow(chunk, sensor, scn, task.row, pixels)
			}
		}()
	}

	for row := 0; row < chunk.Height; row++ {
		tasks <- rowTask{row: row}
	}
	close(tasks)
	wg.Wait()

	return pixels
}

func renderRow(chunk WorkChunk, sensor camera.Sensor, scn *scene.Scene, row int, pixels []byte) {
	imageY := chunk.Y + row
	rowOffset := row * chunk.Width * 3
	for col := 0; col < chunk.Width; col++ {
		imageX := chunk.X + col
		ray := sensor.GetRay(imageX, imageY)
		color := shade.TraceRay(ray, scn)
		rgb := shade.ColorToRGB(color)
		pixels[rowOffset+col*3+0] = rgb[0]
		pixels[rowOffset+col*3+1] = rgb[1]
		pixels[rowOffset+col*3+2] = rgb[2]
	}
}

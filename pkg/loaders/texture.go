// Package loaders reads Wavefront OBJ/MTL scene files and the textures they
// reference into a scene.Scene.
package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"

	"github.com/wavefront/octracer/pkg/core"
	"github.com/wavefront/octracer/pkg/material"
)

// maxTextureDimension is the largest width or height accepted from a
// decoded image, per spec.md §6 ("(0, 30000]").
const maxTextureDimension = 30000

// LoadTexture decodes a PNG or JPEG file into a Texture with pixels
// normalized to [0,1].
func LoadTexture(path string) (*material.Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loaders: open texture %q: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("loaders: decode texture %q: %w", path, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || width > maxTextureDimension || height <= 0 || height > maxTextureDimension {
		return nil, fmt.Errorf("loaders: texture %q dimensions %dx%d out of range (0,%d]", path, width, height, maxTextureDimension)
	}

	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return material.NewTexture(width, height, pixels), nil
}

package material

import (
	"math"

	"github.com/wavefront/octracer/pkg/core"
)

// Texture is a decoded image, stored as row-major RGB samples normalized to
// [0,1]. The origin is conceptually top-left; Sample flips V so that v=0 is
// the bottom row, matching the Wavefront convention.
type Texture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // row-major, Pixels[y*Width+x]
}

// NewTexture creates a texture from a decoded pixel buffer.
func NewTexture(width, height int, pixels []core.Vec3) *Texture {
	return &Texture{Width: width, Height: height, Pixels: pixels}
}

// Sample bilinearly samples the texture at (u, v), wrapping both axes.
func (t *Texture) Sample(u, v float64) core.Vec3 {
	u = wrap(u)
	v = wrap(v)

	// Flip V: v=0 is the bottom of the image, row 0 is the top.
	fx := u*float64(t.Width) - 0.5
	fy := (1.0-v)*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := t.at(x0, y0)
	c10 := t.at(x0+1, y0)
	c01 := t.at(x0, y0+1)
	c11 := t.at(x0+1, y0+1)

	top := c00.Multiply(1 - tx).Add(c10.Multiply(tx))
	bottom := c01.Multiply(1 - tx).Add(c11.Multiply(tx))
	return top.Multiply(1 - ty).Add(bottom.Multiply(ty))
}

// at fetches pixel (x, y), wrapping both coordinates around the image
// bounds so Sample's bilinear taps stay continuous across edges.
func (t *Texture) at(x, y int) core.Vec3 {
	x = wrapIndex(x, t.Width)
	y = wrapIndex(y, t.Height)
	return t.Pixels[y*t.Width+x]
}

func wrap(f float64) float64 {
	f -= math.Floor(f)
	if f < 0 {
		f += 1.0
	}
	return f
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

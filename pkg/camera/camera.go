// Package camera builds the pitch/yaw/roll/AOV view frustum and the
// per-pixel rays the shading kernel traces through it.
package camera

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wavefront/octracer/pkg/core"
)

// serializedSize is the fixed wire length of a Camera: origin (3 float64)
// plus pitch, yaw, roll, aov (1 float64 each).
const serializedSize = 8 * 7

// Camera is the scene's eye: a position and orientation (degrees) plus a
// horizontal angle of view (degrees).
type Camera struct {
	Origin           core.Vec3
	Pitch, Yaw, Roll float64
	AOV              float64
}

// Sensor is a camera's frustum resolved for a specific image size, ready to
// hand out per-pixel rays.
type Sensor struct {
	camera                          Camera
	width, height                   int
	startPoint                      core.Vec3
	deltaScanline, deltaPixel       core.Vec3
}

// GetSensor resolves the camera's frustum for a width x height image.
func (c Camera) GetSensor(width, height int) Sensor {
	s := Sensor{camera: c, width: width, height: height}
	s.reset()
	return s
}

// reset builds the frustum corners exactly as spec.md §4.3 describes,
// including the diagonal top-right corner construction (rot_bottom *
// rot_right) preserved deliberately from the original implementation.
func (s *Sensor) reset() {
	c := s.camera
	aovVertical := (float64(s.height) / float64(s.width)) * c.AOV

	rotLeft := core.RotationYDeg(c.AOV / 2.0)
	rotRight := core.RotationYDeg(-c.AOV / 2.0)
	rotTop := core.RotationZDeg(aovVertical / 2.0)
	rotBottom := core.RotationZDeg(-aovVertical / 2.0)

	rotLeftTop := rotTop.Multiply(rotLeft)
	rotRightTop := rotBottom.Multiply(rotRight) // diagonal quirk, preserved per spec.md §9
	rotLeftBottom := rotBottom.Multiply(rotLeft)

	forward := core.NewVec3(0, 0, 1)

	topLeft := rotLeftTop.Apply(forward)
	topRight := rotRightTop.Apply(forward)
	bottomLeft := rotLeftBottom.Apply(forward)

	frustumRotation := core.RotationYDeg(c.Yaw).Multiply(core.RotationXDeg(c.Pitch)).Multiply(core.RotationZDeg(c.Roll))

	topLeft = frustumRotation.Apply(topLeft)
	topRight = frustumRotation.Apply(topRight)
	bottomLeft = frustumRotation.Apply(bottomLeft)

	s.deltaScanline = bottomLeft.Subtract(topLeft).Multiply(1.0 / float64(s.height))
	s.deltaPixel = topRight.Subtract(topLeft).Multiply(1.0 / float64(s.width))
	s.startPoint = topLeft
}

// GetRay returns the camera-space ray for pixel (x, y).
func (s Sensor) GetRay(x, y int) core.Ray {
	direction := s.startPoint.
		Add(s.deltaScanline.Multiply(float64(y))).
		Add(s.deltaPixel.Multiply(float64(x)))
	return core.NewRay(s.camera.Origin, direction.Normalize())
}

// Direction returns the camera's forward unit vector (yaw then pitch; roll
// is skipped, as it doesn't change a pure direction vector).
func (c Camera) Direction() core.Vec3 {
	dir := core.NewVec3(0, 0, 1)
	return core.RotationYDeg(c.Yaw).Multiply(core.RotationXDeg(c.Pitch)).Apply(dir)
}

// Serialize encodes the camera into the fixed 56-byte wire format:
// origin.x/y/z, pitch, yaw, roll, aov — all little-endian float64.
func (c Camera) Serialize() []byte {
	buf := make([]byte, serializedSize)
	fields := []float64{c.Origin.X, c.Origin.Y, c.Origin.Z, c.Pitch, c.Yaw, c.Roll, c.AOV}
	for i, f := range fields {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

// Deserialize decodes a camera from the wire format produced by Serialize.
func Deserialize(buf []byte) (Camera, error) {
	if len(buf) != serializedSize {
		return Camera{}, fmt.Errorf("camera: want %d bytes, got %d", serializedSize, len(buf))
	}
	var fields [7]float64
	for i := range fields {
		fields[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return Camera{
		Origin: core.NewVec3(fields[0], fields[1], fields[2]),
		Pitch:  fields[3],
		Yaw:    fields[4],
		Roll:   fields[5],
		AOV:    fields[6],
	}, nil
}

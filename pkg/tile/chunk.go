// Package tile defines the WorkChunk unit of distributed rendering work and
// renders one against a scene and camera.
package tile

import (
	"encoding/binary"
	"fmt"
)

// maxImageDimension bounds image_width/image_height/chunk_width/chunk_height
// against runaway allocations from a corrupt or hostile peer.
const maxImageDimension = 100000

// inputSize is the wire size of a WorkChunk's input half: six little-endian
// uint32 fields.
const inputSize = 6 * 4

// WorkChunk describes one rectangular tile of a larger image render: the
// full image's dimensions (so a worker can build the right camera sensor)
// and the tile's offset and size within it.
type WorkChunk struct {
	ImageWidth, ImageHeight int
	X, Y                    int
	Width, Height           int
}

// SerializeInput packs a WorkChunk's input fields into 24 bytes: six
// little-endian uint32s in ImageWidth, ImageHeight, X, Y, Width, Height
// order.
func (c WorkChunk) SerializeInput() []byte {
	buf := make([]byte, inputSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(c.ImageWidth))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(c.ImageHeight))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(c.X))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(c.Y))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(c.Width))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(c.Height))
	return buf
}

// DeserializeInput unpacks and validates a WorkChunk's input fields. A chunk
// is valid only if every dimension is nonzero, image dimensions and chunk
// dimensions don't exceed maxImageDimension, and the chunk rectangle lies
// entirely within the image.
func DeserializeInput(buf []byte) (WorkChunk, error) {
	if len(buf) != inputSize {
		return WorkChunk{}, fmt.Errorf("tile: work chunk input is %d bytes, want %d", len(buf), inputSize)
	}

	c := WorkChunk{
		ImageWidth:  int(binary.LittleEndian.Uint32(buf[0:4])),
		ImageHeight: int(binary.LittleEndian.Uint32(buf[4:8])),
		X:           int(binary.LittleEndian.Uint32(buf[8:12])),
		Y:           int(binary.LittleEndian.Uint32(buf[12:16])),
		Width:       int(binary.LittleEndian.Uint32(buf[16:20])),
		Height:      int(binary.LittleEndian.Uint32(buf[20:24])),
	}

	switch {
	case c.ImageWidth == 0 || c.ImageHeight == 0 || c.Width == 0 || c.Height == 0:
		return WorkChunk{}, fmt.Errorf("tile: work chunk has a zero dimension: %+v", c)
	case c.ImageWidth > maxImageDimension || c.ImageHeight > maxImageDimension:
		return WorkChunk{}, fmt.Errorf("tile: image dimensions %dx%d exceed %d", c.ImageWidth, c.ImageHeight, maxImageDimension)
	case c.Width > maxImageDimension || c.Height > maxImageDimension:
		return WorkChunk{}, fmt.Errorf("tile: chunk dimensions %dx%d exceed %d", c.Width, c.Height, maxImageDimension)
	case c.X+c.Width > c.ImageWidth || c.Y+c.Height > c.ImageHeight:
		return WorkChunk{}, fmt.Errorf("tile: chunk (%d,%d)+(%d,%d) exceeds image %dx%d", c.X, c.Y, c.Width, c.Height, c.ImageWidth, c.ImageHeight)
	}

	return c, nil
}

// SerializeOutput packs a rendered chunk's pixels (row-major RGB triplets,
// Width*Height*3 bytes) into a 4-byte little-endian length prefix followed
// by the payload.
func SerializeOutput(pixels []byte) []byte {
	buf := make([]byte, 4+len(pixels))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(pixels)))
	copy(buf[4:], pixels)
	return buf
}

// DeserializeOutput reads a length-prefixed pixel payload and validates it
// against the chunk it belongs to: the byte count must be exactly
// Width*Height*3.
func (c WorkChunk) DeserializeOutput(buf []byte) ([]byte, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("tile: work chunk output shorter than its length prefix")
	}
	size := binary.LittleEndian.Uint32(buf[0:4])
	payload := buf[4:]
	if uint32(len(payload)) != size {
		return nil, fmt.Errorf("tile: work chunk output length prefix %d does not match payload %d bytes", size, len(payload))
	}
	want := c.Width * c.Height * 3
	if size%3 != 0 || int(size) != want {
		return nil, fmt.Errorf("tile: work chunk output is %d bytes, want %d (%dx%d RGB)", size, want, c.Width, c.Height)
	}
	return payload, nil
}

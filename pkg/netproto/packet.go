// Package netproto implements the master/worker wire protocol: a 4-byte tag,
// an 8-byte sender/destination id, a 4-byte little-endian length, and the
// tagged payload.
package netproto

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Tag identifies a packet's payload format and direction.
type Tag string

const (
	// TagWorkerReady is sent worker->master: the worker is ready for a scene
	// and render orders.
	TagWorkerReady Tag = "RDY!"
	// TagMasterScene is sent master->worker: the serialized scene. Reserved;
	// no packet with this tag is produced, since each worker loads the scene
	// itself from the OBJ path given on its own command line.
	TagMasterScene Tag = "SCNE"
	// TagMasterCamera is sent master->worker: the serialized Camera.
	TagMasterCamera Tag = "CAMR"
	// TagMasterWork is sent master->worker: the serialized WorkChunk input.
	TagMasterWork Tag = "WORK"
	// TagWorkerPixels is sent worker->master: the rendered WorkChunk output.
	TagWorkerPixels Tag = "PXLS"
)

// maxPayloadSize bounds a packet's payload so a corrupt length field can't
// force an unbounded allocation.
const maxPayloadSize = 1024 * 1024

// headerSize is the 4-byte tag + 8-byte id + 4-byte length prefix that
// precedes every payload.
const headerSize = 4 + 8 + 4

// ErrProtocol reports a packet whose payload, or whose header's length
// field, exceeds maxPayloadSize. Tags are not checked here, and a truncated
// payload is reported as a plain read error.
var ErrProtocol = errors.New("netproto: protocol violation")

// Packet is one frame of the wire protocol.
type Packet struct {
	Tag     Tag
	ID      [8]byte
	Payload []byte
}

// WriteID builds an 8-byte id field from a string, truncating or
// zero-padding as needed (workers identify themselves with an arbitrary
// short name).
func WriteID(name string) [8]byte {
	var id [8]byte
	copy(id[:], name)
	return id
}

// WritePacket frames tag/id/payload and writes it to w.
func WritePacket(w io.Writer, tag Tag, id [8]byte, payload []byte) error {
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload %d bytes exceeds %d", ErrProtocol, len(payload), maxPayloadSize)
	}

	header := make([]byte, headerSize)
	copy(header[0:4], tag)
	copy(header[4:12], id[:])
	binary.LittleEndian.PutUint32(header[12:16], uint32(len(payload)))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("netproto: write header: %w", err)
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("netproto: write payload: %w", err)
		}
	}
	return nil
}

// ReadPacket reads one framed packet from r. The tag is returned as-is
// without validating it against a specific side's expected set; callers
// (master or worker) check the tag they expect.
func ReadPacket(r io.Reader) (Packet, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return Packet{}, fmt.Errorf("netproto: read header: %w", err)
	}

	var id [8]byte
	copy(id[:], header[4:12])
	length := binary.LittleEndian.Uint32(header[12:16])
	if length > maxPayloadSize {
		return Packet{}, fmt.Errorf("%w: length %d exceeds %d", ErrProtocol, length, maxPayloadSize)
	}

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Packet{}, fmt.Errorf("netproto: read payload: %w", err)
		}
	}

	return Packet{Tag: Tag(header[0:4]), ID: id, Payload: payload}, nil
}

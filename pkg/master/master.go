// Package master implements the distributed rendering coordinator: it
// accepts worker connections, hands out WorkChunks, composites finished
// chunks into a full-frame bitmap, and periodically dumps that bitmap to
// disk.
package master

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wavefront/octracer/pkg/camera"
	"github.com/wavefront/octracer/pkg/netproto"
	"github.com/wavefront/octracer/pkg/tile"
)

// chunkW/chunkH are the tile dimensions work is split into; the final row
// and column of tiles are clamped to the image edge.
const (
	chunkW = 128
	chunkH = 128
)

// readyChunk is a finished WorkChunk paired with the pixels a worker sent
// back for it.
type readyChunk struct {
	chunk  tile.WorkChunk
	pixels []byte
}

// Master owns the two work queues described in spec.md: chunks available to
// hand out, and chunks a worker has finished. Both are guarded by their own
// mutex and polled, mirroring the reference's two mutex-guarded lists.
type Master struct {
	width, height int
	cam           camera.Camera
	animDir       string

	availableMu sync.Mutex
	available   []tile.WorkChunk

	finishedMu sync.Mutex
	finished   []readyChunk

	bitmapMu sync.Mutex
	bitmap   []byte

	totalChunks     int
	completedChunks int
}

// New returns a Master ready to Listen, rendering a width x height image of
// cam. animDir is where periodic frame dumps are written (created if
// missing).
func New(width, height int, cam camera.Camera, animDir string) *Master {
	return &Master{
		width:   width,
		height:  height,
		cam:     cam,
		animDir: animDir,
		bitmap:  make([]byte, width*height*3),
	}
}

// Listen accepts worker connections on addr until Accept fails, and only
// returns with that error (or a setup error). Each connection is handled in
// its own goroutine.
func (m *Master) Listen(addr string) error {
	if err := os.MkdirAll(m.animDir, 0o755); err != nil {
		return fmt.Errorf("master: create anim dir: %w", err)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("master: listen on %s: %w", addr, err)
	}
	defer ln.Close()

	log.Printf("master: listening on %s", addr)

	go m.frameLoop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("master: accept: %w", err)
		}
		go m.handleWorker(conn)
	}
}

// frameLoop generates work for the current frame whenever the queue has
// drained, composites finished chunks into the bitmap, and periodically
// persists it, exactly mirroring the reference's single-threaded poll loop
// (moved to its own goroutine since the accept loop occupies this one).
func (m *Master) frameLoop() {
	frame := 0
	lastDump := time.Now()

	for {
		if m.totalChunks == 0 {
			log.Print("master: generating work for new frame")
			m.completedChunks = 0
			m.totalChunks = m.generateWork()
		}

		m.drainFinished()

		if time.Since(lastDump) > 2*time.Second {
			m.dumpBitmap(filepath.Join(m.animDir, "frame_dump.raw"))
			lastDump = time.Now()
		}

		if m.totalChunks > 0 && m.completedChunks == m.totalChunks {
			log.Print("master: frame complete, writing dump")
			m.dumpBitmap(filepath.Join(m.animDir, fmt.Sprintf("dump_%05d.raw", frame)))
			m.bitmapMu.Lock()
			for i := range m.bitmap {
				m.bitmap[i] = 0
			}
			m.bitmapMu.Unlock()
			m.totalChunks = 0
			frame++
			continue
		}

		time.Sleep(100 * time.Millisecond)
	}
}

// generateWork clears the available queue and refills it with every tile of
// the current frame.
func (m *Master) generateWork() int {
	m.availableMu.Lock()
	defer m.availableMu.Unlock()

	m.available = m.available[:0]
	count := 0
	for y := 0; y < m.height; y += chunkH {
		for x := 0; x < m.width; x += chunkW {
			w := min(chunkW, m.width-x)
			h := min(chunkH, m.height-y)
			m.available = append(m.available, tile.WorkChunk{
				ImageWidth: m.width, ImageHeight: m.height,
				X: x, Y: y, Width: w, Height: h,
			})
			count++
		}
	}
	return count
}

// popChunk blocks, polling every 100ms, until a chunk is available.
func (m *Master) popChunk() tile.WorkChunk {
	for {
		m.availableMu.Lock()
		if len(m.available) > 0 {
			c := m.available[0]
			m.available = m.available[1:]
			m.availableMu.Unlock()
			return c
		}
		m.availableMu.Unlock()
		time.Sleep(100 * time.Millisecond)
	}
}

// returnChunk puts a chunk back at the end of the available queue, used
// when a worker disconnects or errors mid-assignment.
func (m *Master) returnChunk(c tile.WorkChunk) {
	log.Print("master: returning chunk to queue")
	m.availableMu.Lock()
	m.available = append(m.available, c)
	m.availableMu.Unlock()
}

func (m *Master) commitChunk(c tile.WorkChunk, pixels []byte) {
	m.finishedMu.Lock()
	m.finished = append(m.finished, readyChunk{chunk: c, pixels: pixels})
	m.finishedMu.Unlock()
}

func (m *Master) drainFinished() {
	m.finishedMu.Lock()
	ready := m.finished
	m.finished = nil
	m.finishedMu.Unlock()

	if len(ready) == 0 {
		return
	}

	m.bitmapMu.Lock()
	for _, r := range ready {
		blitChunk(m.bitmap, m.width, r.chunk, r.pixels)
	}
	m.bitmapMu.Unlock()

	m.completedChunks += len(ready)
}

// blitChunk copies a rendered tile's RGB rows into their place in the
// full-frame bitmap.
func blitChunk(bitmap []byte, imageWidth int, c tile.WorkChunk, pixels []byte) {
	for row := 0; row < c.Height; row++ {
		dstOffset := ((row+c.Y)*imageWidth + c.X) * 3
		srcOffset := row * c.Width * 3
		copy(bitmap[dstOffset:dstOffset+c.Width*3], pixels[srcOffset:srcOffset+c.Width*3])
	}
}

func (m *Master) dumpBitmap(path string) {
	m.bitmapMu.Lock()
	snapshot := make([]byte, len(m.bitmap))
	copy(snapshot, m.bitmap)
	m.bitmapMu.Unlock()

	if err := os.WriteFile(path, snapshot, 0o644); err != nil {
		log.Printf("master: dump %s: %v", path, err)
		return
	}
	log.Printf("master: saved %s", path)
}

// handleWorker speaks the full worker protocol over one connection: receive
// RDY!, then loop sending CAMR+WORK and receiving PXLS until the worker
// disconnects. Any I/O or protocol error returns the in-flight chunk (if
// any) to the available queue.
func (m *Master) handleWorker(conn net.Conn) {
	defer conn.Close()
	addr := conn.RemoteAddr().String()

	ready, err := netproto.ReadPacket(conn)
	if err != nil || ready.Tag != netproto.TagWorkerReady {
		log.Printf("master: %s: expected RDY!, got error=%v tag=%q", addr, err, ready.Tag)
		return
	}
	id := ready.ID
	log.Printf("master: %s is %q", addr, id[:])

	for {
		chunk := m.popChunk()

		if err := netproto.WritePacket(conn, netproto.TagMasterCamera, id, m.cam.Serialize()); err != nil {
			log.Printf("master: %s: send CAMR: %v", id, err)
			m.returnChunk(chunk)
			return
		}
		if err := netproto.WritePacket(conn, netproto.TagMasterWork, id, chunk.SerializeInput()); err != nil {
			log.Printf("master: %s: send WORK: %v", id, err)
			m.returnChunk(chunk)
			return
		}

		resp, err := netproto.ReadPacket(conn)
		if err != nil || resp.Tag != netproto.TagWorkerPixels {
			log.Printf("master: %s: expected PXLS, got error=%v tag=%q", id, err, resp.Tag)
			m.returnChunk(chunk)
			return
		}

		pixels, err := chunk.DeserializeOutput(resp.Payload)
		if err != nil {
			log.Printf("master: %s: bad PXLS payload: %v", id, err)
			m.returnChunk(chunk)
			return
		}

		m.commitChunk(chunk, pixels)
		log.Printf("master: %s: chunk (%d,%d) committed", id, chunk.X, chunk.Y)
	}
}

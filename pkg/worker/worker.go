// Package worker implements the rendering client: it connects to a master,
// announces itself, and renders whatever WorkChunks it's sent until the
// connection drops, at which point it reconnects.
package worker

import (
	"log"
	"net"
	"time"

	"github.com/wavefront/octracer/pkg/camera"
	"github.com/wavefront/octracer/pkg/netproto"
	"github.com/wavefront/octracer/pkg/scene"
	"github.com/wavefront/octracer/pkg/tile"
)

const (
	reconnectDelay = 1 * time.Second
	errorBackoff   = 2 * time.Second
)

// Worker renders WorkChunks against a fixed scene for whichever master it's
// pointed at.
type Worker struct {
	id    [8]byte
	scene *scene.Scene
}

// New returns a Worker identified by id (truncated/padded to 8 bytes) that
// renders against scn.
func New(id string, scn *scene.Scene) *Worker {
	return &Worker{id: netproto.WriteID(id), scene: scn}
}

// Run connects to addr and serves render requests forever, reconnecting
// with backoff on any disconnect. It only returns if stop is closed.
func (w *Worker) Run(addr string, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		log.Print("worker: connecting...")
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			log.Printf("worker: failed to connect to %s: %v", addr, err)
			time.Sleep(reconnectDelay)
			continue
		}

		log.Print("worker: connected")
		w.serve(conn)
		conn.Close()
	}
}

// serve runs one connection's lifetime: send RDY!, then loop on
// CAMR/WORK until the master disconnects or sends something unexpected.
func (w *Worker) serve(conn net.Conn) {
	if err := netproto.WritePacket(conn, netproto.TagWorkerReady, w.id, nil); err != nil {
		log.Printf("worker: failed to send RDY!: %v", err)
		time.Sleep(errorBackoff)
		return
	}

	var cam camera.Camera
	haveCamera := false

	for {
		pkt, err := netproto.ReadPacket(conn)
		if err != nil {
			log.Printf("worker: disconnected: %v", err)
			time.Sleep(errorBackoff)
			return
		}

		switch pkt.Tag {
		case netproto.TagMasterCamera:
			c, err := camera.Deserialize(pkt.Payload)
			if err != nil {
				log.Printf("worker: bad CAMR payload: %v", err)
				time.Sleep(errorBackoff)
				return
			}
			cam = c
			haveCamera = true
			log.Printf("worker: received camera: origin=%+v pitch/yaw/roll=%v/%v/%v aov=%v",
				cam.Origin, cam.Pitch, cam.Yaw, cam.Roll, cam.AOV)

		case netproto.TagMasterWork:
			if !haveCamera {
				log.Print("worker: received WORK before CAMR")
				time.Sleep(errorBackoff)
				return
			}
			chunk, err := tile.DeserializeInput(pkt.Payload)
			if err != nil {
				log.Printf("worker: bad WORK payload: %v", err)
				time.Sleep(errorBackoff)
				return
			}

			log.Printf("worker: rendering chunk (%d,%d) %dx%d of %dx%d",
				chunk.X, chunk.Y, chunk.Width, chunk.Height, chunk.ImageWidth, chunk.ImageHeight)
			pixels := tile.Render(chunk, cam, w.scene)

			if err := netproto.WritePacket(conn, netproto.TagWorkerPixels, w.id, tile.SerializeOutput(pixels)); err != nil {
				log.Printf("worker: failed to send PXLS: %v", err)
				time.Sleep(errorBackoff)
				return
			}
			log.Printf("worker: sent %d pixels", chunk.Width*chunk.Height)

		default:
			log.Printf("worker: unexpected tag %q", pkt.Tag)
			time.Sleep(errorBackoff)
			return
		}
	}
}

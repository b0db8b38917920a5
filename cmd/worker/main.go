// Command worker loads a scene and connects to a master to render whatever
// WorkChunks it's given, reconnecting automatically if the master restarts.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/wavefront/octracer/pkg/loaders"
	"github.com/wavefront/octracer/pkg/worker"
)

func main() {
	objPath := flag.String("obj", "", "path to the Wavefront OBJ scene to render")
	id := flag.String("id", "", "worker id, at most 8 characters")
	masterAddr := flag.String("master", "", "master's host:port")
	flag.Parse()

	if *objPath == "" || *id == "" || *masterAddr == "" {
		fmt.Println("usage: worker -obj <scene.obj> -id <tag> -master <host:port>")
		flag.PrintDefaults()
		return
	}

	fmt.Println("Loading scene...")
	sc, err := loaders.LoadOBJ(*objPath, stdLogger{})
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	sc.Finalize()

	fmt.Printf("Name of this worker: %s\n", *id)
	w := worker.New(*id, sc)
	w.Run(*masterAddr, nil)
}

type stdLogger struct{}

func (stdLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

package tile

import "testing"

func TestWorkChunk_SerializeInputRoundTrip(t *testing.T) {
	c := WorkChunk{ImageWidth: 800, ImageHeight: 600, X: 128, Y: 256, Width: 128, Height: 128}

	buf := c.SerializeInput()
	if len(buf) != inputSize {
		t.Fatalf("SerializeInput() len = %d, want %d", len(buf), inputSize)
	}

	got, err := DeserializeInput(buf)
	if err != nil {
		t.Fatalf("DeserializeInput() error = %v", err)
	}
	if got != c {
		t.Errorf("DeserializeInput() = %+v, want %+v", got, c)
	}
}

func TestDeserializeInput_RejectsWrongLength(t *testing.T) {
	if _, err := DeserializeInput(make([]byte, 23)); err == nil {
		t.Error("expected an error for a short buffer")
	}
}

func TestDeserializeInput_RejectsChunkOutsideImage(t *testing.T) {
	c := WorkChunk{ImageWidth: 100, ImageHeight: 100, X: 50, Y: 0, Width: 60, Height: 10}
	if _, err := DeserializeInput(c.SerializeInput()); err == nil {
		t.Error("expected an error for a chunk that overruns the image width")
	}
}

func TestDeserializeInput_RejectsZeroDimension(t *testing.T) {
	c := WorkChunk{ImageWidth: 100, ImageHeight: 100, X: 0, Y: 0, Width: 0, Height: 10}
	if _, err := DeserializeInput(c.SerializeInput()); err == nil {
		t.Error("expected an error for a zero-width chunk")
	}
}

func TestDeserializeInput_RejectsOversizedDimension(t *testing.T) {
	c := WorkChunk{ImageWidth: 200000, ImageHeight: 100, X: 0, Y: 0, Width: 100, Height: 10}
	if _, err := DeserializeInput(c.SerializeInput()); err == nil {
		t.Error("expected an error for an image dimension beyond the cap")
	}
}

func TestWorkChunk_SerializeOutputRoundTrip(t *testing.T) {
	c := WorkChunk{ImageWidth: 4, ImageHeight: 4, X: 0, Y: 0, Width: 2, Height: 2}
	pixels := make([]byte, c.Width*c.Height*3) // scenario #2: all-zero PXLS payload

	wire := SerializeOutput(pixels)
	got, err := c.DeserializeOutput(wire)
	if err != nil {
		t.Fatalf("DeserializeOutput() error = %v", err)
	}
	if len(got) != len(pixels) {
		t.Fatalf("DeserializeOutput() len = %d, want %d", len(got), len(pixels))
	}
	for i, b := range got {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0", i, b)
		}
	}
}

func TestWorkChunk_DeserializeOutputRejectsWrongSize(t *testing.T) {
	c := WorkChunk{ImageWidth: 4, ImageHeight: 4, X: 0, Y: 0, Width: 2, Height: 2}
	wire := SerializeOutput(make([]byte, 5)) // not a multiple of 3, and wrong total
	if _, err := c.DeserializeOutput(wire); err == nil {
		t.Error("expected an error for a payload that doesn't match width*height*3")
	}
}

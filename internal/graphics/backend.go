// Package graphics provides the video front-ends: a windowed Ebitengine
// backend and a headless backend for automation. Backends pull one
// emulated frame per host frame from the Driver and push input back.
package graphics

import "github.com/minnowc/nes-2/internal/ppu"

// InputState carries the polled button state of both pads in shift order
// (A, B, Select, Start, Up, Down, Left, Right).
type InputState struct {
	Pad1 [8]bool
	Pad2 [8]bool
}

// Driver is the emulation side of a backend: it advances the console one
// frame per Update and exposes the resulting frame buffer.
type Driver interface {
	Update(input InputState) error
	Frame() *[ppu.FrameWidth * ppu.FrameHeight]uint32
}

// Backend runs a presentation loop around a Driver until the driver
// returns an error or the host closes the window.
type Backend interface {
	Name() string
	Run(driver Driver) error
}

// Config selects and parameterizes a backend.
type Config struct {
	Title      string
	Scale      int
	Fullscreen bool
	VSync      bool

	// Headless settings.
	Frames    int    // 0 means run until the driver stops
	DumpEvery int    // dump a PPM every N frames; 0 disables
	DumpDir   string // destination for frame dumps
}

package graphics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/minnowc/nes-2/internal/ppu"
)

// HeadlessBackend drives the emulator without a window, optionally
// dumping frames to disk as PPM images. Used for automation and tests.
type HeadlessBackend struct {
	config Config
}

// NewHeadlessBackend creates the windowless backend.
func NewHeadlessBackend(config Config) *HeadlessBackend {
	return &HeadlessBackend{config: config}
}

// Name identifies the backend in logs and config.
func (b *HeadlessBackend) Name() string {
	return "headless"
}

// Run steps the driver for the configured number of frames (or forever
// when zero) with no input attached.
func (b *HeadlessBackend) Run(driver Driver) error {
	for frame := 0; b.config.Frames == 0 || frame < b.config.Frames; frame++ {
		if err := driver.Update(InputState{}); err != nil {
			return err
		}
		if b.config.DumpEvery > 0 && (frame+1)%b.config.DumpEvery == 0 {
			if err := b.dumpFrame(driver.Frame(), frame+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// dumpFrame writes one frame as a plain PPM image.
func (b *HeadlessBackend) dumpFrame(buffer *[ppu.FrameWidth * ppu.FrameHeight]uint32, frame int) error {
	dir := b.config.DumpDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, fmt.Sprintf("frame_%05d.ppm", frame))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("graphics: dump frame: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "P3\n%d %d\n255\n", ppu.FrameWidth, ppu.FrameHeight)
	for y := 0; y < ppu.FrameHeight; y++ {
		for x := 0; x < ppu.FrameWidth; x++ {
			pixel := buffer[y*ppu.FrameWidth+x]
			fmt.Fprintf(f, "%d %d %d ", pixel>>16&0xFF, pixel>>8&0xFF, pixel&0xFF)
		}
		fmt.Fprintln(f)
	}
	return nil
}

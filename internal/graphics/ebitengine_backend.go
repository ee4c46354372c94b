package graphics

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/minnowc/nes-2/internal/ppu"
)

// Keymap binds host keys to the eight pad buttons, in shift order.
type Keymap [8]ebiten.Key

// DefaultKeymap is the usual arrow-keys-plus-ZX layout.
var DefaultKeymap = Keymap{
	ebiten.KeyZ,          // A
	ebiten.KeyX,          // B
	ebiten.KeyShiftRight, // Select
	ebiten.KeyEnter,      // Start
	ebiten.KeyArrowUp,
	ebiten.KeyArrowDown,
	ebiten.KeyArrowLeft,
	ebiten.KeyArrowRight,
}

// EbitengineBackend presents frames in a window and polls the keyboard.
type EbitengineBackend struct {
	config Config
	keymap Keymap
}

// NewEbitengineBackend creates the windowed backend.
func NewEbitengineBackend(config Config, keymap Keymap) *EbitengineBackend {
	if config.Scale <= 0 {
		config.Scale = 2
	}
	return &EbitengineBackend{config: config, keymap: keymap}
}

// Name identifies the backend in logs and config.
func (b *EbitengineBackend) Name() string {
	return "ebitengine"
}

// Run opens the window and hands control to Ebitengine's game loop.
func (b *EbitengineBackend) Run(driver Driver) error {
	ebiten.SetWindowTitle(b.config.Title)
	ebiten.SetWindowSize(ppu.FrameWidth*b.config.Scale, ppu.FrameHeight*b.config.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(b.config.VSync)
	if b.config.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	game := &ebitenGame{
		driver: driver,
		keymap: b.keymap,
		frame:  ebiten.NewImage(ppu.FrameWidth, ppu.FrameHeight),
		pixels: make([]byte, ppu.FrameWidth*ppu.FrameHeight*4),
	}
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("graphics: %w", err)
	}
	return nil
}

type ebitenGame struct {
	driver Driver
	keymap Keymap
	frame  *ebiten.Image
	pixels []byte
}

func (g *ebitenGame) Update() error {
	var input InputState
	for i, key := range g.keymap {
		input.Pad1[i] = ebiten.IsKeyPressed(key)
	}
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return g.driver.Update(input)
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	buffer := g.driver.Frame()
	for i, pixel := range buffer {
		g.pixels[i*4+0] = byte(pixel >> 16)
		g.pixels[i*4+1] = byte(pixel >> 8)
		g.pixels[i*4+2] = byte(pixel)
		g.pixels[i*4+3] = 0xFF
	}
	g.frame.WritePixels(g.pixels)

	var op ebiten.DrawImageOptions
	bounds := screen.Bounds()
	scaleX := float64(bounds.Dx()) / float64(ppu.FrameWidth)
	scaleY := float64(bounds.Dy()) / float64(ppu.FrameHeight)
	op.GeoM.Scale(scaleX, scaleY)
	screen.DrawImage(g.frame, &op)
}

func (g *ebitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

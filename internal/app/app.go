package app

import (
	"fmt"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/minnowc/nes-2/internal/bus"
	"github.com/minnowc/nes-2/internal/graphics"
	"github.com/minnowc/nes-2/internal/ppu"
)

// Application owns the console and the front-ends, and implements
// graphics.Driver: one Update call advances the console a full frame.
type Application struct {
	config *Config
	system *bus.System

	mixer  *Mixer
	player *audio.Player
}

// NewApplication builds a console configured from the file at configPath.
func NewApplication(configPath string) (*Application, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	system := bus.New()
	system.CPU.SetStrict(config.Emulation.StrictOpcodes)

	return &Application{
		config: config,
		system: system,
	}, nil
}

// Config exposes the active configuration.
func (a *Application) Config() *Config {
	return a.config
}

// System exposes the console for tests and tooling.
func (a *Application) System() *bus.System {
	return a.system
}

// LoadROM inserts the cartridge at path.
func (a *Application) LoadROM(path string) error {
	if err := a.system.Load(path); err != nil {
		return err
	}
	a.system.CPU.SetStrict(a.config.Emulation.StrictOpcodes)
	log.Printf("loaded %s (mapper %d)", path, a.system.Cart.MapperID())
	return nil
}

// Run selects the configured backend and drives the console until the
// window closes or the frame budget runs out.
func (a *Application) Run(headless bool, frames int) error {
	backendName := a.config.Video.Backend
	if headless {
		backendName = "headless"
	}

	var backend graphics.Backend
	switch backendName {
	case "headless":
		backend = graphics.NewHeadlessBackend(graphics.Config{
			Frames:    frames,
			DumpEvery: 0,
		})
	case "ebitengine":
		a.startAudio()
		backend = graphics.NewEbitengineBackend(graphics.Config{
			Title:      "nes-2",
			Scale:      a.config.Window.Scale,
			Fullscreen: a.config.Window.Fullscreen,
			VSync:      a.config.Video.VSync,
		}, a.keymap())
	default:
		return fmt.Errorf("app: unknown video backend %q", backendName)
	}

	log.Printf("running with %s backend", backend.Name())
	return backend.Run(a)
}

// startAudio wires the mixer between the APU and an Ebitengine audio
// player. Audio failures are logged, not fatal.
func (a *Application) startAudio() {
	if !a.config.Audio.Enabled {
		return
	}
	a.mixer = NewMixer(a.config.Audio.SampleRate, a.config.Audio.Volume)
	a.system.SetAudioSink(a.mixer.Collect)

	context := audio.CurrentContext()
	if context == nil {
		context = audio.NewContext(a.config.Audio.SampleRate)
	}
	player, err := context.NewPlayer(a.mixer)
	if err != nil {
		log.Printf("audio disabled: %v", err)
		return
	}
	a.player = player
	a.player.Play()
}

// Update advances the console one frame. Part of graphics.Driver.
func (a *Application) Update(input graphics.InputState) error {
	a.system.SetButtons(1, input.Pad1)
	a.system.SetButtons(2, input.Pad2)
	a.system.RunFrame()
	return nil
}

// Frame exposes the current frame buffer. Part of graphics.Driver.
func (a *Application) Frame() *[ppu.FrameWidth * ppu.FrameHeight]uint32 {
	return a.system.FrameBuffer()
}

// keymap resolves the configured key names, falling back to the default
// layout for names that do not resolve.
func (a *Application) keymap() graphics.Keymap {
	keys := a.config.Input.Player1
	names := [8]string{
		keys.A, keys.B, keys.Select, keys.Start,
		keys.Up, keys.Down, keys.Left, keys.Right,
	}

	keymap := graphics.DefaultKeymap
	for i, name := range names {
		if key, ok := keyByName(name); ok {
			keymap[i] = key
		} else if name != "" {
			log.Printf("unknown key name %q, keeping default", name)
		}
	}
	return keymap
}

// keyByName maps config key names onto Ebitengine keys.
func keyByName(name string) (ebiten.Key, bool) {
	switch strings.ToLower(name) {
	case "up":
		return ebiten.KeyArrowUp, true
	case "down":
		return ebiten.KeyArrowDown, true
	case "left":
		return ebiten.KeyArrowLeft, true
	case "right":
		return ebiten.KeyArrowRight, true
	case "enter", "return":
		return ebiten.KeyEnter, true
	case "space":
		return ebiten.KeySpace, true
	case "rshift":
		return ebiten.KeyShiftRight, true
	case "lshift":
		return ebiten.KeyShiftLeft, true
	case "tab":
		return ebiten.KeyTab, true
	default:
		if len(name) == 1 && name[0] >= 'a' && name[0] <= 'z' {
			return ebiten.KeyA + ebiten.Key(name[0]-'a'), true
		}
		return 0, false
	}
}

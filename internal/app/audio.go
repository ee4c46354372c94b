package app

import (
	"sync"

	"github.com/minnowc/nes-2/internal/apu"
)

// cpuFrequency is the NTSC CPU clock the channel levels arrive at.
const cpuFrequency = 1789773.0

// Mixer is the audio sink: it receives the APU's momentary per-channel
// levels once per CPU cycle, downsamples to the output rate, applies the
// standard NES mixer formula and serves the result as a 16-bit stereo
// stream. The Read side runs on the audio goroutine, so the buffer is
// locked; underruns play silence.
type Mixer struct {
	mu     sync.Mutex
	buffer []byte

	step   float64 // output samples per CPU cycle
	acc    float64
	volume float64
}

// NewMixer creates a mixer producing sampleRate Hz stereo output.
func NewMixer(sampleRate int, volume float64) *Mixer {
	return &Mixer{
		step:   float64(sampleRate) / cpuFrequency,
		volume: volume,
	}
}

// Collect consumes one CPU cycle's worth of channel levels.
func (m *Mixer) Collect(levels [apu.NumChannels]int) {
	m.acc += m.step
	if m.acc < 1 {
		return
	}
	m.acc--

	sample := int16(mix(levels) * m.volume * 32767)

	m.mu.Lock()
	// Interleave the mono mix into both output channels.
	m.buffer = append(m.buffer,
		byte(sample), byte(sample>>8),
		byte(sample), byte(sample>>8))
	m.mu.Unlock()
}

// Read implements io.Reader for the audio player. It never blocks and
// never returns EOF; missing data comes out as silence.
func (m *Mixer) Read(p []byte) (int, error) {
	m.mu.Lock()
	n := copy(p, m.buffer)
	m.buffer = m.buffer[n:]
	m.mu.Unlock()

	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

// mix applies the NES nonlinear mixing formula to the five channel
// levels, producing a value in roughly [-0.5, 0.5].
func mix(levels [apu.NumChannels]int) float64 {
	pulses := float64(levels[apu.Pulse1] + levels[apu.Pulse2])
	var pulseOut float64
	if pulses != 0 {
		pulseOut = 95.88 / (8128.0/pulses + 100.0)
	}

	tnd := float64(levels[apu.Triangle])/8227.0 +
		float64(levels[apu.Noise])/12241.0 +
		float64(levels[apu.DMC])/22638.0
	var tndOut float64
	if tnd != 0 {
		tndOut = 159.79 / (1.0/tnd + 100.0)
	}

	return pulseOut + tndOut - 0.5
}

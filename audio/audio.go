// Package audio plays short synthesized cues when particles hit things.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/plus3/sparks/clock"
	"github.com/plus3/sparks/particle"
)

const (
	sampleRate = beep.SampleRate(44100)
	cueLength  = 80 * time.Millisecond
)

// pentatonic ratios used to vary successive cues.
var scale = []float64{1, 9.0 / 8, 5.0 / 4, 3.0 / 2, 5.0 / 3}

// Cues turns collision events into tones. Cues closer together than MinGap
// are dropped so dense showers do not saturate the mixer.
type Cues struct {
	mu          sync.Mutex
	clock       clock.Clock
	mixer       *beep.Mixer
	initialized bool

	BaseFreq float64
	Volume   float64 // in halvings, 0 is unchanged, -1 is half amplitude
	MinGap   time.Duration

	last   time.Time
	next   int
	played int
}

// NewCues creates a cue player reading time from c. Call Initialize to
// attach it to the speaker; until then cues are counted but silent.
func NewCues(c clock.Clock) *Cues {
	return &Cues{
		clock:    c,
		mixer:    &beep.Mixer{},
		BaseFreq: 660,
		Volume:   -2,
		MinGap:   40 * time.Millisecond,
	}
}

// Initialize opens the speaker and starts the mixer.
func (c *Cues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Close silences every pending cue.
func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// Listen plays a cue for every collision-enter the emitter relays.
func (c *Cues) Listen(e *particle.Emitter) particle.ListenerId {
	return e.AddCollisionEnterListener(c.Collision)
}

// Collision plays one cue unless the previous one was too recent.
func (c *Cues) Collision(particle.Contact) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.played > 0 && now.Sub(c.last) < c.MinGap {
		return
	}
	c.last = now
	c.played++

	freq := c.BaseFreq * scale[c.next]
	c.next = (c.next + 1) % len(scale)

	if !c.initialized {
		return
	}
	cue, err := Tone(freq, cueLength, c.Volume)
	if err != nil {
		return
	}
	speaker.Lock()
	c.mixer.Add(cue)
	speaker.Unlock()
}

// Played returns the number of cues accepted so far.
func (c *Cues) Played() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.played
}

// Tone is a sine cue of the given length with a linear fade out.
func Tone(freq float64, length time.Duration, volume float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}
	n := sampleRate.N(length)
	return &effects.Volume{
		Streamer: &fade{Streamer: beep.Take(n, sine), total: n},
		Base:     2,
		Volume:   volume,
	}, nil
}

// fade scales samples linearly from full amplitude down to silence.
type fade struct {
	beep.Streamer
	total int
	pos   int
}

func (f *fade) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := math.Max(0, 1-float64(f.pos)/float64(f.total))
		samples[i][0] *= gain
		samples[i][1] *= gain
		f.pos++
	}
	return n, ok
}

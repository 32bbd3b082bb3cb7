// Package audio plays the background melody and mode-change chimes.
// Playback starts on the first user interaction.
package audio

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Player owns the speaker. The zero value is not usable; call NewPlayer.
type Player struct {
	// Volume is the linear master volume in [0, 1].
	Volume float64

	once    sync.Once
	mu      sync.Mutex
	mixer   *beep.Mixer
	started bool
	failed  bool
}

// NewPlayer returns an idle player.
func NewPlayer(volume float64) *Player {
	return &Player{Volume: volume, mixer: &beep.Mixer{}}
}

// Start opens the speaker and begins the looping melody. Only the first
// call does anything, so it can be hooked to every tap.
func (p *Player) Start() {
	p.once.Do(func() {
		if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
			log.Printf("[glowtree] audio unavailable: %v", err)
			p.mu.Lock()
			p.failed = true
			p.mu.Unlock()
			return
		}
		p.mixer.Add(newVolume(Melody(), p.Volume*0.5))
		speaker.Play(p.mixer)
		p.mu.Lock()
		p.started = true
		p.mu.Unlock()
		log.Printf("[glowtree] audio started")
	})
}

// Started reports whether the speaker is playing.
func (p *Player) Started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Chime plays a short bell over the melody. It does nothing before Start.
func (p *Player) Chime(pitch float64) {
	if !p.Started() {
		return
	}
	speaker.Lock()
	p.mixer.Add(newVolume(Bell(pitch, 600*time.Millisecond), p.Volume))
	speaker.Unlock()
}

// Close stops playback.
func (p *Player) Close() {
	if !p.Started() {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.mu.Lock()
	p.started = false
	p.mu.Unlock()
}

// newVolume wraps s with a linear gain. Zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// sine is a fixed-length sine oscillator.
type sine struct {
	freq     float64
	phase    float64
	length   int
	position int
}

func newSine(freq float64, d time.Duration) *sine {
	return &sine{freq: freq, length: sampleRate.N(d)}
}

func (o *sine) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.length {
			return i, i > 0
		}
		v := math.Sin(2 * math.Pi * o.phase)
		samples[i][0] = v
		samples[i][1] = v
		o.phase += o.freq / float64(sampleRate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *sine) Err() error { return nil }

// decay shapes a stream with a linear attack then exponential fall-off,
// which reads as a struck bell.
type decay struct {
	streamer beep.Streamer
	position int
	attack   int
	// tau is the decay time constant in samples.
	tau float64
}

func newDecay(s beep.Streamer, attack, tau time.Duration) *decay {
	return &decay{
		streamer: s,
		attack:   sampleRate.N(attack),
		tau:      float64(sampleRate.N(tau)),
	}
}

func (e *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := 1.0
		if e.position < e.attack {
			g = float64(e.position) / float64(e.attack)
		} else if e.tau > 0 {
			g = math.Exp(-float64(e.position-e.attack) / e.tau)
		}
		samples[i][0] *= g
		samples[i][1] *= g
		e.position++
	}
	return n, ok
}

func (e *decay) Err() error { return e.streamer.Err() }

// Bell returns a struck bell at freq Hz lasting d: a fundamental plus a
// quieter octave that dies away faster.
func Bell(freq float64, d time.Duration) beep.Streamer {
	fund := newDecay(newSine(freq, d), 5*time.Millisecond, d/3)
	over := newDecay(newSine(freq*2, d), 5*time.Millisecond, d/6)
	return beep.Mix(
		newVolume(fund, 0.6),
		newVolume(over, 0.25),
	)
}

// Note frequencies in Hz.
const (
	noteC5 = 523.25
	noteD5 = 587.33
	noteE5 = 659.25
	noteF5 = 698.46
	noteG5 = 783.99
)

// note is one melody step; a zero freq is a rest.
type note struct {
	freq  float64
	beats float64
}

const beat = 280 * time.Millisecond

var jingle = []note{
	{noteE5, 1}, {noteE5, 1}, {noteE5, 2},
	{noteE5, 1}, {noteE5, 1}, {noteE5, 2},
	{noteE5, 1}, {noteG5, 1}, {noteC5, 1.5}, {noteD5, 0.5}, {noteE5, 4},
	{noteF5, 1}, {noteF5, 1}, {noteF5, 1.5}, {noteF5, 0.5},
	{noteF5, 1}, {noteE5, 1}, {noteE5, 1}, {noteE5, 0.5}, {noteE5, 0.5},
	{noteE5, 1}, {noteD5, 1}, {noteD5, 1}, {noteE5, 1},
	{noteD5, 2}, {noteG5, 2},
	{0, 4},
}

// melodyStreamers renders each note of the tune as a bell or silence.
func melodyStreamers(tune []note) []beep.Streamer {
	out := make([]beep.Streamer, 0, len(tune))
	for _, n := range tune {
		d := time.Duration(n.beats * float64(beat))
		if n.freq == 0 {
			out = append(out, beep.Silence(sampleRate.N(d)))
			continue
		}
		out = append(out, Bell(n.freq, d))
	}
	return out
}

// Melody returns the tune buffered and looped forever.
func Melody() beep.Streamer {
	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(beep.Seq(melodyStreamers(jingle)...))
	return beep.Loop(-1, buf.Streamer(0, buf.Len()))
}

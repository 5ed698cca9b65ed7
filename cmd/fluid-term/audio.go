package main

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// splashSound plays a short sine chirp per splash. A failed speaker init
// leaves it silent.
type splashSound struct {
	mu      sync.Mutex
	enabled bool
}

func newSplashSound() (*splashSound, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return &splashSound{}, err
	}
	return &splashSound{enabled: true}, nil
}

// Play sounds a tone whose pitch rises with the number of particles hit.
func (s *splashSound) Play(hit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || hit == 0 {
		return
	}
	freq := 220 + 20*math.Sqrt(float64(hit))
	tone := newTone(freq, 120*time.Millisecond, sampleRate)
	speaker.Play(&effects.Volume{Streamer: tone, Base: 2, Volume: -2})
}

func (s *splashSound) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		speaker.Close()
		s.enabled = false
	}
}

// tone is a sine oscillator with a linear decay.
type tone struct {
	freq     float64
	phase    float64
	position int
	total    int
	rate     beep.SampleRate
}

func newTone(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{freq: freq, total: rate.N(d), rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}
		decay := 1 - float64(t.position)/float64(t.total)
		val := math.Sin(2*math.Pi*t.phase) * decay
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

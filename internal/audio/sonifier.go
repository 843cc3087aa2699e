// Package audio maps the running simulation onto a quiet ambient pad: total
// system energy opens a low-pass filter over a detuned triangle-wave chord,
// so a collapsing cluster audibly brightens.
package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	sampleRate = 44100
	bufferSize = 1024
)

// Gm7 add9 voicing, low register.
var chordFreqs = []float64{98.00, 116.54, 146.83, 174.61, 220.00}

type Sonifier struct {
	stream *portaudio.Stream

	time        float64
	filterState [2]float64

	mu           sync.Mutex
	totalEnergy  float64
	energySmooth float64

	Active bool
}

func NewSonifier() *Sonifier {
	return &Sonifier{}
}

func (s *Sonifier) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, sampleRate, bufferSize, s.process)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}
	s.stream = stream
	s.Active = true
	return nil
}

func (s *Sonifier) Stop() {
	if s.stream != nil {
		s.stream.Stop()
		s.stream.Close()
	}
	portaudio.Terminate()
	s.Active = false
}

// UpdateEnergy feeds the latest total system energy; the synth side smooths
// it heavily so parameter jumps never click.
func (s *Sonifier) UpdateEnergy(energy float64) {
	s.mu.Lock()
	s.totalEnergy = math.Abs(energy)
	s.mu.Unlock()
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

func (s *Sonifier) process(out [][]float32) {
	s.mu.Lock()
	target := s.totalEnergy
	s.mu.Unlock()

	dt := 1.0 / float64(sampleRate)
	const vol = 0.25

	for i := 0; i < len(out[0]); i++ {
		s.energySmooth = s.energySmooth*0.9995 + target*0.0005
		cutoff := 300.0 + math.Min(s.energySmooth*200.0, 1200.0)

		sampleL, sampleR := 0.0, 0.0
		for j, f := range chordFreqs {
			g := 1.0 / float64(len(chordFreqs))
			lfo := math.Sin(s.time*0.2 + float64(j))
			sampleL += triangle(s.time*(f*0.999)) * g * (0.7 + 0.3*lfo)
			sampleR += triangle(s.time*(f*1.001)) * g * (0.7 + 0.3*lfo)
		}

		var outL, outR float64
		outL, s.filterState[0] = lpf(sampleL, cutoff, dt, s.filterState[0])
		outR, s.filterState[1] = lpf(sampleR, cutoff, dt, s.filterState[1])

		out[0][i] = float32(outL * vol)
		out[1][i] = float32(outR * vol)
		s.time += dt
	}
}

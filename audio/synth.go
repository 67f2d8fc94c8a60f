// Package audio synthesizes metronome clicks and guitar notes.
package audio

import (
	"math"

	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/model"
)

const (
	clickDuration   = 0.1
	clickAccentFreq = 880.0
	clickFreq       = 440.0
	clickAccentGain = 0.5
	clickGain       = 0.3
	silenceGain     = 0.001
	noteAttack      = 0.02
	noteDecay       = 0.15
	noteRelease     = 1.5
	noteStop        = 1.6
	notePeakGain    = 0.5
	noteSustainGain = 0.2
	noteLowpassFreq = 2000.0
	noteLowpassQ    = 1.0
)

// Frequency of the note at p in standard tuning, equal temperament,
// referenced to the low E string.
func Frequency(p model.Position) float64 {
	semitones := constants.StringSemitoneOffset[p.String] + p.Fret
	return constants.LowEFrequency * math.Pow(2, float64(semitones)/12)
}

// expRamp moves exponentially from v0 at t0 to v1 at t1.
func expRamp(v0, v1, t0, t1, t float64) float64 {
	return v0 * math.Pow(v1/v0, (t-t0)/(t1-t0))
}

func ClickGain(accent bool, t float64) float64 {
	start := clickGain
	if accent {
		start = clickAccentGain
	}
	if t < 0 || t >= clickDuration {
		return 0
	}
	return expRamp(start, silenceGain, 0, clickDuration, t)
}

// NoteGain is the note envelope at t seconds after onset: linear attack to the
// peak, exponential decay to the sustain level, exponential release to silence.
func NoteGain(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t < noteAttack:
		return notePeakGain * t / noteAttack
	case t < noteDecay:
		return expRamp(notePeakGain, noteSustainGain, noteAttack, noteDecay, t)
	case t < noteRelease:
		return expRamp(noteSustainGain, silenceGain, noteDecay, noteRelease, t)
	case t < noteStop:
		return silenceGain
	}
	return 0
}

// Click renders one metronome click as mono samples in [-1, 1].
func Click(accent bool, sampleRate int) []float64 {
	freq := clickFreq
	if accent {
		freq = clickAccentFreq
	}
	n := int(clickDuration * float64(sampleRate))
	res := make([]float64, n)
	for i := range res {
		t := float64(i) / float64(sampleRate)
		res[i] = math.Sin(2*math.Pi*freq*t) * ClickGain(accent, t)
	}
	return res
}

func triangle(phase float64) float64 {
	// phase in [0, 1)
	return 4*math.Abs(phase-math.Floor(phase+0.5)) - 1
}

// Note renders the note at p: a triangle wave through a low-pass filter,
// shaped by NoteGain.
func Note(p model.Position, sampleRate int) []float64 {
	freq := Frequency(p)
	n := int(noteStop * float64(sampleRate))
	res := make([]float64, n)
	lp := newLowpass(noteLowpassFreq, noteLowpassQ, float64(sampleRate))
	for i := range res {
		t := float64(i) / float64(sampleRate)
		v := lp.process(triangle(freq * t))
		res[i] = v * NoteGain(t)
	}
	return res
}

// biquad low-pass, RBJ cookbook coefficients
type lowpass struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func newLowpass(cutoff, q, sampleRate float64) *lowpass {
	w0 := 2 * math.Pi * cutoff / sampleRate
	alpha := math.Sin(w0) / (2 * q)
	cos := math.Cos(w0)
	a0 := 1 + alpha
	return &lowpass{
		b0: (1 - cos) / 2 / a0,
		b1: (1 - cos) / a0,
		b2: (1 - cos) / 2 / a0,
		a1: -2 * cos / a0,
		a2: (1 - alpha) / a0,
	}
}

func (f *lowpass) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}

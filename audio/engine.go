package audio

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/jsphweid/fretboard/model"
)

var ErrClosed = errors.New("audio engine closed")

// Output makes sound. Implementations are shared by the metronome, the
// practice sequencer and cell clicks.
type Output interface {
	PlayClick(accent bool) error
	PlayNote(p model.Position) error
	Close() error
}

// Player plays 16-bit stereo PCM at the player's sample rate.
type Player interface {
	Play(pcm []byte) error
	SampleRate() int
}

// Synth is an Output that renders waveforms and hands them to a Player.
type Synth struct {
	player Player
}

func NewSynth(p Player) *Synth {
	return &Synth{player: p}
}

func (s *Synth) PlayClick(accent bool) error {
	return s.player.Play(PCM(Click(accent, s.player.SampleRate())))
}

func (s *Synth) PlayNote(p model.Position) error {
	return s.player.Play(PCM(Note(p, s.player.SampleRate())))
}

// Close closes the player if it can be closed.
func (s *Synth) Close() error {
	if c, ok := s.player.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Engine opens its Output on first use and reuses it afterwards.
type Engine struct {
	open func() (Output, error)

	once sync.Once
	out  Output
	err  error
}

func NewEngine(open func() (Output, error)) *Engine {
	return &Engine{open: open}
}

func (e *Engine) output() (Output, error) {
	e.once.Do(func() {
		e.out, e.err = e.open()
		if e.err != nil {
			e.err = fmt.Errorf("open audio output: %w", e.err)
		}
	})
	if e.err == nil && e.out == nil {
		return nil, ErrClosed
	}
	return e.out, e.err
}

func (e *Engine) Click(accent bool) error {
	out, err := e.output()
	if err != nil {
		return err
	}
	return out.PlayClick(accent)
}

func (e *Engine) Note(p model.Position) error {
	out, err := e.output()
	if err != nil {
		return err
	}
	return out.PlayNote(p)
}

// Close releases the output if it was ever opened.
func (e *Engine) Close() error {
	opened := true
	e.once.Do(func() { opened = false })
	if !opened || e.out == nil {
		return nil
	}
	return e.out.Close()
}

// Silent discards everything; used when no sound device is wanted.
type Silent struct{}

func (Silent) PlayClick(bool) error { return nil }

func (Silent) PlayNote(model.Position) error { return nil }

func (Silent) Close() error { return nil }

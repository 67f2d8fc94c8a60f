package transport

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jsphweid/fretboard/constants"
)

type Beat struct {
	Index  int
	Accent bool
}

// Metronome is stopped or running. Start fires the first beat immediately;
// Stop resets the beat counter.
type Metronome struct {
	sound  Sound
	onBeat func(Beat)

	mu   sync.Mutex
	task *task
	beat int
}

// NewMetronome calls onBeat on every tick, sound or not.
func NewMetronome(sound Sound, onBeat func(Beat)) *Metronome {
	return &Metronome{sound: sound, onBeat: onBeat}
}

func (m *Metronome) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.task != nil
}

func (m *Metronome) Start(ctx context.Context, bpm int) error {
	if err := checkTempo(bpm); err != nil {
		return err
	}
	m.mu.Lock()
	if m.task != nil {
		m.mu.Unlock()
		return nil
	}
	m.beat = 0
	m.mu.Unlock()

	m.Tick()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.task != nil {
		return nil
	}
	m.task = startTask(ctx, Interval(bpm), m.Tick)
	slog.Debug("metronome: started", "bpm", bpm, "interval", Interval(bpm))
	return nil
}

func (m *Metronome) Stop() {
	m.mu.Lock()
	t := m.task
	m.task = nil
	m.mu.Unlock()
	if t == nil {
		return
	}

	t.stop()

	m.mu.Lock()
	m.beat = 0
	m.mu.Unlock()
	slog.Debug("metronome: stopped")
}

// Toggle starts a stopped metronome or stops a running one and reports
// whether it is running afterwards.
func (m *Metronome) Toggle(ctx context.Context, bpm int) (bool, error) {
	if m.Running() {
		m.Stop()
		return false, nil
	}
	if err := m.Start(ctx, bpm); err != nil {
		return false, err
	}
	return true, nil
}

// Tick plays one beat and advances the counter.
func (m *Metronome) Tick() {
	m.mu.Lock()
	b := Beat{Index: m.beat, Accent: m.beat == 0}
	m.beat = (m.beat + 1) % constants.BeatsPerBar
	m.mu.Unlock()

	if m.onBeat != nil {
		m.onBeat(b)
	}
	if m.sound != nil && m.sound.Enabled() {
		if err := m.sound.Click(b.Accent); err != nil {
			slog.Warn("metronome: click failed", "err", err)
		}
	}
}

package transport

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/jsphweid/fretboard/model"
)

// BuildSequence orders positions up by string then fret and appends the way
// back down without repeating the two turning points.
func BuildSequence(positions []model.Position) []model.Position {
	up := make([]model.Position, len(positions))
	copy(up, positions)
	sort.Slice(up, func(i, j int) bool {
		return up[i].Less(up[j])
	})

	seq := up
	for i := len(up) - 2; i >= 1; i-- {
		seq = append(seq, up[i])
	}
	return seq
}

// Practice walks a sequence of positions, one per tick, in a loop.
type Practice struct {
	sound  Sound
	onStep func(model.Position)
	onStop func()

	mu    sync.Mutex
	task  *task
	seq   []model.Position
	index int
}

// NewPractice calls onStep with the position of every step and onStop once
// the sequencer has stopped.
func NewPractice(sound Sound, onStep func(model.Position), onStop func()) *Practice {
	return &Practice{sound: sound, onStep: onStep, onStop: onStop}
}

func (p *Practice) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.task != nil
}

// Start builds the sequence from highlighted and plays its first step right
// away. With nothing highlighted it returns ErrNothingHighlighted and leaves
// the sequencer untouched.
func (p *Practice) Start(ctx context.Context, bpm int, highlighted []model.Position) error {
	if len(highlighted) == 0 {
		return ErrNothingHighlighted
	}
	if err := checkTempo(bpm); err != nil {
		return err
	}

	p.mu.Lock()
	if p.task != nil {
		p.mu.Unlock()
		return nil
	}
	p.seq = BuildSequence(highlighted)
	p.index = 0
	p.mu.Unlock()

	p.Tick()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.task != nil {
		return nil
	}
	p.task = startTask(ctx, Interval(bpm), p.Tick)
	slog.Debug("practice: started", "steps", len(p.seq), "bpm", bpm)
	return nil
}

func (p *Practice) Stop() {
	p.mu.Lock()
	t := p.task
	p.task = nil
	p.mu.Unlock()
	if t == nil {
		return
	}

	t.stop()
	if p.onStop != nil {
		p.onStop()
	}
	slog.Debug("practice: stopped")
}

// Tick plays the current step and moves to the next one, wrapping around.
func (p *Practice) Tick() {
	p.mu.Lock()
	if len(p.seq) == 0 {
		p.mu.Unlock()
		return
	}
	pos := p.seq[p.index]
	p.index = (p.index + 1) % len(p.seq)
	p.mu.Unlock()

	if p.onStep != nil {
		p.onStep(pos)
	}
	if p.sound != nil && p.sound.Enabled() {
		if err := p.sound.Note(pos); err != nil {
			slog.Warn("practice: note failed", "err", err)
		}
	}
}

// Package transport runs the metronome and the scale-practice sequencer.
package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/model"
)

var (
	ErrInvalidTempo       = errors.New("invalid tempo")
	ErrNothingHighlighted = errors.New("select a root and a scale before practicing")
)

// Sound is what the transport needs from the audio side. Enabled is read on
// every tick so the toggle applies to a running transport.
type Sound interface {
	Enabled() bool
	Click(accent bool) error
	Note(p model.Position) error
}

// Interval is the time between ticks at bpm: 60000/bpm milliseconds.
func Interval(bpm int) time.Duration {
	return time.Minute / time.Duration(bpm)
}

func checkTempo(bpm int) error {
	if bpm < constants.MinBPM || bpm > constants.MaxBPM {
		return fmt.Errorf("%w: %d bpm (want %d-%d)", ErrInvalidTempo, bpm, constants.MinBPM, constants.MaxBPM)
	}
	return nil
}

// task calls tick every interval until stopped. It owns its cancellation.
type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startTask(ctx context.Context, interval time.Duration, tick func()) *task {
	ctx, cancel := context.WithCancel(ctx)
	t := &task{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tick()
			}
		}
	}()
	return t
}

// stop cancels the task and waits for an in-flight tick to return.
func (t *task) stop() {
	t.cancel()
	<-t.done
}

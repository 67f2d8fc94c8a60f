package midi

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/jsphweid/fretboard/model"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// General MIDI percussion
const (
	clickChannel   = 9
	clickAccentKey = 76 // high wood block
	clickKey       = 77 // low wood block
	allNotesOff    = 123
)

const (
	noteLength  = 1500 * time.Millisecond
	clickLength = 100 * time.Millisecond
)

// Output sends notes and clicks to a MIDI port. Note-offs are scheduled, so
// PlayNote and PlayClick return right away.
type Output struct {
	send func(gomidi.Message) error

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	closed bool
}

func NewOutput(send func(gomidi.Message) error) *Output {
	return &Output{send: send, timers: make(map[*time.Timer]struct{})}
}

// Open connects to the output port called name. A number picks the port by
// index and an empty name picks the first port. A driver must be registered
// by the caller.
func Open(name string) (*Output, error) {
	var (
		out drivers.Out
		err error
	)
	if name == "" {
		out, err = gomidi.OutPort(0)
	} else if idx, convErr := strconv.Atoi(name); convErr == nil {
		out, err = gomidi.OutPort(idx)
	} else {
		out, err = gomidi.FindOutPort(name)
	}
	if err != nil {
		return nil, fmt.Errorf("find midi out port %q: %w", name, err)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open midi out port %q: %w", out.String(), err)
	}
	slog.Info("midi: output opened", "port", out.String())
	return NewOutput(send), nil
}

func (o *Output) play(ch, key, vel uint8, length time.Duration) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	if err := o.send(gomidi.NoteOn(ch, key, vel)); err != nil {
		return fmt.Errorf("midi note on: %w", err)
	}

	var t *time.Timer
	t = time.AfterFunc(length, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.timers, t)
		if o.closed {
			return
		}
		if err := o.send(gomidi.NoteOff(ch, key)); err != nil {
			slog.Warn("midi: note off failed", "key", key, "err", err)
		}
	})
	o.timers[t] = struct{}{}
	return nil
}

func (o *Output) PlayNote(p model.Position) error {
	return o.play(noteChannel, Key(p), noteVelocity, noteLength)
}

func (o *Output) PlayClick(accent bool) error {
	if accent {
		return o.play(clickChannel, clickAccentKey, 127, clickLength)
	}
	return o.play(clickChannel, clickKey, 90, clickLength)
}

// Close cancels pending note-offs and silences both channels.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	for t := range o.timers {
		t.Stop()
	}
	o.timers = nil

	for _, ch := range []uint8{noteChannel, clickChannel} {
		if err := o.send(gomidi.ControlChange(ch, allNotesOff, 0)); err != nil {
			return fmt.Errorf("midi all notes off: %w", err)
		}
	}
	return nil
}

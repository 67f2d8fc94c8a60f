// Package session owns everything one fretboard view needs: the selected key
// and shape, the board, the current scale result, the audio engine and both
// transport machines.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jsphweid/fretboard/board"
	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/pitch"
	"github.com/jsphweid/fretboard/scale"
	"github.com/jsphweid/fretboard/shape"
	"github.com/jsphweid/fretboard/transport"
)

// Audio plays the sounds of a session. audio.Engine satisfies it.
type Audio interface {
	Click(accent bool) error
	Note(p model.Position) error
}

type Config struct {
	Resolver scale.Resolver
	Audio    Audio
	Order    board.Order
	Root     string
	BPM      int
	Sound    bool
}

type Session struct {
	resolver  scale.Resolver
	audio     Audio
	metronome *transport.Metronome
	practice  *transport.Practice
	updates   chan struct{}
	now       func() time.Time

	mu      sync.Mutex
	root    string
	quality model.Quality
	shapeID string
	bpm     int
	sound   bool
	board   *board.Board
	result  scale.Result
	seq     uint64
	beat    transport.Beat
	beatAt  time.Time
}

func New(cfg Config) *Session {
	if cfg.Root == "" {
		cfg.Root = "C"
	}
	if cfg.BPM == 0 {
		cfg.BPM = constants.DefaultBPM
	}
	if cfg.Resolver == nil {
		cfg.Resolver = scale.NewLocal()
	}
	s := &Session{
		resolver: cfg.Resolver,
		audio:    cfg.Audio,
		updates:  make(chan struct{}, 1),
		now:      time.Now,
		root:     cfg.Root,
		shapeID:  shape.AllID,
		bpm:      cfg.BPM,
		sound:    cfg.Sound,
		board:    board.New(cfg.Order),
	}
	s.board.Relabel(s.root, s.quality)
	s.metronome = transport.NewMetronome(s, s.onBeat)
	s.practice = transport.NewPractice(s, s.onStep, s.onPracticeStop)
	return s
}

// Updates receives a value whenever visible state changed. Sends never block;
// a pending notification covers any number of changes.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

func (s *Session) Query() scale.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query()
}

func (s *Session) query() scale.Query {
	return scale.Query{Root: s.root, Quality: s.quality, ShapeID: s.shapeID}
}

// SetRoot changes the selected root. It does not resolve; call Refresh.
func (s *Session) SetRoot(root string) error {
	if _, ok := pitch.NoteToPitchClass(root); !ok {
		return fmt.Errorf("%w: %q", scale.ErrUnknownRoot, root)
	}
	s.mu.Lock()
	s.root = root
	s.board.Relabel(s.root, s.quality)
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Session) SetQuality(q model.Quality) error {
	if _, ok := model.ParseQuality(string(q)); !ok {
		return fmt.Errorf("%w: %q", scale.ErrUnknownQuality, q)
	}
	s.mu.Lock()
	s.quality = q
	s.board.Relabel(s.root, s.quality)
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Session) SetShape(id string) error {
	sh, err := shape.Lookup(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.shapeID = sh.ID
	s.mu.Unlock()
	s.notify()
	return nil
}

// Refresh resolves the current selection and applies the result to the
// board. A resolution started before a newer one is dropped when it returns.
// On failure the highlight is cleared and the error is logged and returned;
// it is diagnostic only.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	id := s.seq
	q := s.query()
	s.mu.Unlock()

	res, err := s.resolver.Resolve(ctx, q)

	s.mu.Lock()
	defer s.notify()
	defer s.mu.Unlock()
	if id != s.seq {
		slog.Debug("session: dropping stale resolution", "seq", id, "latest", s.seq)
		return nil
	}
	if err != nil {
		slog.Warn("session: scale lookup failed", "root", q.Root, "scale", q.Quality, "shape", q.ShapeID, "err", err)
		res = scale.Result{}
	}
	s.result = res
	s.board.Relabel(q.Root, q.Quality)
	s.board.Apply(res, q.Selected() && err == nil)
	return err
}

// Clear drops the scale selection, the scale result and every cell marker.
// The root and shape selectors keep their values.
func (s *Session) Clear() {
	s.mu.Lock()
	s.seq++
	s.quality = model.QualityNone
	s.result = scale.Result{}
	s.board.Clear()
	s.board.Relabel(s.root, s.quality)
	s.mu.Unlock()
	s.notify()
}

func (s *Session) Result() scale.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// ToggleCell flips the manual marker on p and plays its note. Clicked cells
// always sound, whatever the sound toggle says.
func (s *Session) ToggleCell(p model.Position) (bool, error) {
	s.mu.Lock()
	if _, ok := s.board.Cell(p); !ok {
		s.mu.Unlock()
		return false, fmt.Errorf("no cell at string %d fret %d", p.String, p.Fret)
	}
	on := s.board.Toggle(p)
	s.mu.Unlock()

	err := s.playNote(p)
	s.notify()
	return on, err
}

func (s *Session) playNote(p model.Position) error {
	s.mu.Lock()
	s.board.Pulse(p, s.now())
	s.mu.Unlock()
	if s.audio == nil {
		return nil
	}
	return s.audio.Note(p)
}

func (s *Session) BPM() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bpm
}

// SetBPM changes the tempo. Running transports pick it up on their next
// start.
func (s *Session) SetBPM(bpm int) error {
	if bpm < constants.MinBPM || bpm > constants.MaxBPM {
		return fmt.Errorf("%w: %d bpm", transport.ErrInvalidTempo, bpm)
	}
	s.mu.Lock()
	s.bpm = bpm
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Session) ToggleSound() bool {
	s.mu.Lock()
	s.sound = !s.sound
	on := s.sound
	s.mu.Unlock()
	s.notify()
	return on
}

// ToggleMetronome starts or stops the metronome and reports whether it runs.
func (s *Session) ToggleMetronome(ctx context.Context) (bool, error) {
	running, err := s.metronome.Toggle(ctx, s.BPM())
	s.notify()
	return running, err
}

// TogglePractice starts the sequencer over the highlighted cells or stops it.
// Starting with nothing highlighted returns transport.ErrNothingHighlighted.
func (s *Session) TogglePractice(ctx context.Context) (bool, error) {
	if s.practice.Running() {
		s.practice.Stop()
		return false, nil
	}

	s.mu.Lock()
	highlighted := s.board.Highlighted()
	bpm := s.bpm
	s.mu.Unlock()

	if err := s.practice.Start(ctx, bpm, highlighted); err != nil {
		return false, err
	}
	s.notify()
	return true, nil
}

// Close stops both transports.
func (s *Session) Close() {
	s.metronome.Stop()
	s.practice.Stop()
}

// Enabled, Click and Note make the session the transports' sound source.

func (s *Session) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sound
}

func (s *Session) Click(accent bool) error {
	if s.audio == nil {
		return nil
	}
	return s.audio.Click(accent)
}

func (s *Session) Note(p model.Position) error {
	return s.playNote(p)
}

func (s *Session) onBeat(b transport.Beat) {
	s.mu.Lock()
	s.beat = b
	s.beatAt = s.now()
	s.mu.Unlock()
	s.notify()
}

func (s *Session) onStep(p model.Position) {
	s.mu.Lock()
	s.board.SetActive(p)
	s.mu.Unlock()
	s.notify()
}

func (s *Session) onPracticeStop() {
	s.mu.Lock()
	s.board.ClearActive()
	s.mu.Unlock()
	s.notify()
}

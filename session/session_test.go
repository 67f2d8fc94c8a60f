package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/scale"
	"github.com/jsphweid/fretboard/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	clicks int
	notes  []model.Position
}

func (r *recorder) Click(bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clicks++
	return nil
}

func (r *recorder) Note(p model.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, p)
	return nil
}

type failing struct{}

func (failing) Resolve(context.Context, scale.Query) (scale.Result, error) {
	return scale.Result{}, errors.New("connection refused")
}

// gated blocks the first resolution until release is closed.
type gated struct {
	local   *scale.Local
	release chan struct{}
	started chan struct{}
	calls   int
	mu      sync.Mutex
}

func (g *gated) Resolve(ctx context.Context, q scale.Query) (scale.Result, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()
	if first {
		close(g.started)
		<-g.release
	}
	return g.local.Resolve(ctx, q)
}

func countFlags(snap Snapshot) (on, scaleCells, roots, active int) {
	for _, row := range snap.Rows {
		for _, c := range row.Cells {
			if c.On {
				on++
			}
			if c.Scale {
				scaleCells++
			}
			if c.Root {
				roots++
			}
			if c.Active {
				active++
			}
		}
	}
	return
}

func TestRefreshHighlightsKey(t *testing.T) {
	s := New(Config{})
	require.NoError(t, s.SetQuality(model.QualityMajor))
	require.NoError(t, s.Refresh(context.Background()))

	res := s.Result()
	assert.True(t, res.InScale(model.Position{String: 0, Fret: 0}))
	assert.False(t, res.IsRoot(model.Position{String: 0, Fret: 0}))
	assert.True(t, res.IsRoot(model.Position{String: 1, Fret: 3}))

	_, scaleCells, roots, _ := countFlags(s.Snapshot())
	assert.Equal(t, len(res.Positions), scaleCells)
	assert.Greater(t, roots, 0)
}

func TestRefreshWithoutScaleClears(t *testing.T) {
	s := New(Config{})
	require.NoError(t, s.SetQuality(model.QualityMinor))
	require.NoError(t, s.Refresh(context.Background()))
	require.NoError(t, s.SetQuality(model.QualityNone))
	require.NoError(t, s.Refresh(context.Background()))

	assert.True(t, s.Result().Empty())
	_, scaleCells, roots, _ := countFlags(s.Snapshot())
	assert.Zero(t, scaleCells)
	assert.Zero(t, roots)
}

func TestRefreshFailureClearsHighlight(t *testing.T) {
	s := New(Config{})
	require.NoError(t, s.SetQuality(model.QualityMajor))
	require.NoError(t, s.Refresh(context.Background()))

	s.resolver = failing{}
	assert.Error(t, s.Refresh(context.Background()))

	assert.True(t, s.Result().Empty())
	_, scaleCells, roots, _ := countFlags(s.Snapshot())
	assert.Zero(t, scaleCells)
	assert.Zero(t, roots)
}

func TestStaleResolutionIsDropped(t *testing.T) {
	g := &gated{local: scale.NewLocal(), release: make(chan struct{}), started: make(chan struct{})}
	s := New(Config{Resolver: g})
	require.NoError(t, s.SetQuality(model.QualityMajor))

	done := make(chan error)
	go func() { done <- s.Refresh(context.Background()) }()
	<-g.started

	require.NoError(t, s.SetRoot("E"))
	require.NoError(t, s.SetQuality(model.QualityMinor))
	require.NoError(t, s.Refresh(context.Background()))

	close(g.release)
	require.NoError(t, <-done)

	// E minor, not C major: open low E is the root and F is out
	res := s.Result()
	assert.True(t, res.IsRoot(model.Position{String: 0, Fret: 0}))
	assert.False(t, res.InScale(model.Position{String: 0, Fret: 1}))
}

func TestClearResetsEverything(t *testing.T) {
	s := New(Config{Audio: &recorder{}})
	require.NoError(t, s.SetRoot("F#"))
	require.NoError(t, s.SetQuality(model.QualityMajor))
	require.NoError(t, s.Refresh(context.Background()))
	_, err := s.ToggleCell(model.Position{String: 2, Fret: 7})
	require.NoError(t, err)

	s.Clear()

	res := s.Result()
	assert.Empty(t, res.Positions)
	assert.Empty(t, res.Roots)
	assert.Empty(t, res.Names)
	snap := s.Snapshot()
	assert.Equal(t, model.QualityNone, snap.Quality)
	assert.Equal(t, "F#", snap.Root)
	on, scaleCells, roots, active := countFlags(snap)
	assert.Zero(t, on+scaleCells+roots+active)
}

func TestToggleCellPlaysNote(t *testing.T) {
	rec := &recorder{}
	s := New(Config{Audio: rec, Sound: false})
	p := model.Position{String: 3, Fret: 5}

	on, err := s.ToggleCell(p)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = s.ToggleCell(p)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, []model.Position{p, p}, rec.notes)

	_, err = s.ToggleCell(model.Position{String: 6, Fret: 0})
	assert.Error(t, err)
}

func TestPracticeNeedsHighlight(t *testing.T) {
	s := New(Config{})
	running, err := s.TogglePractice(context.Background())
	assert.True(t, errors.Is(err, transport.ErrNothingHighlighted))
	assert.False(t, running)
	assert.False(t, s.Snapshot().Practice)
}

func TestPracticeMarksActiveCell(t *testing.T) {
	rec := &recorder{}
	s := New(Config{Audio: rec, Sound: true, BPM: 20})
	defer s.Close()
	require.NoError(t, s.SetQuality(model.QualityMajor))
	require.NoError(t, s.SetShape("open"))
	require.NoError(t, s.Refresh(context.Background()))

	running, err := s.TogglePractice(context.Background())
	require.NoError(t, err)
	assert.True(t, running)

	_, _, _, active := countFlags(s.Snapshot())
	assert.Equal(t, 1, active)
	assert.Equal(t, []model.Position{{String: 0, Fret: 0}}, rec.notes)

	running, err = s.TogglePractice(context.Background())
	require.NoError(t, err)
	assert.False(t, running)
	_, _, _, active = countFlags(s.Snapshot())
	assert.Zero(t, active)
}

func TestMetronomeUpdatesBeat(t *testing.T) {
	rec := &recorder{}
	s := New(Config{Audio: rec})
	defer s.Close()

	running, err := s.ToggleMetronome(context.Background())
	require.NoError(t, err)
	assert.True(t, running)

	snap := s.Snapshot()
	assert.True(t, snap.Metronome)
	assert.Equal(t, transport.Beat{Index: 0, Accent: true}, snap.Beat)
	// sound is off by default
	assert.Zero(t, rec.clicks)

	running, err = s.ToggleMetronome(context.Background())
	require.NoError(t, err)
	assert.False(t, running)
}

func TestSetters(t *testing.T) {
	s := New(Config{})
	assert.Error(t, s.SetRoot("H"))
	assert.Error(t, s.SetQuality("dorian"))
	assert.Error(t, s.SetShape("s9"))
	assert.Error(t, s.SetBPM(5))
	require.NoError(t, s.SetBPM(90))
	assert.Equal(t, 90, s.BPM())
	assert.True(t, s.ToggleSound())

	select {
	case <-s.Updates():
	default:
		t.Fatal("expected an update notification")
	}
}

package session

import (
	"time"

	"github.com/jsphweid/fretboard/board"
	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/transport"
)

type RowView struct {
	String int
	Label  string
	Cells  []CellView
}

type CellView struct {
	board.Cell
	Pulsing bool
}

// Snapshot is a copy of everything a view draws, taken under the session
// lock.
type Snapshot struct {
	Root       string
	Quality    model.Quality
	ShapeID    string
	BPM        int
	Sound      bool
	Metronome  bool
	Practice   bool
	Beat       transport.Beat
	BeatAt     time.Time
	FretLabels []string
	Rows       []RowView
	Inlays     []board.Inlay
}

func (s *Session) Snapshot() Snapshot {
	metronome := s.metronome.Running()
	practice := s.practice.Running()

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	snap := Snapshot{
		Root:       s.root,
		Quality:    s.quality,
		ShapeID:    s.shapeID,
		BPM:        s.bpm,
		Sound:      s.sound,
		Metronome:  metronome,
		Practice:   practice,
		Beat:       s.beat,
		BeatAt:     s.beatAt,
		FretLabels: append([]string(nil), s.board.FretLabels...),
		Inlays:     append([]board.Inlay(nil), s.board.Inlays...),
	}
	for _, row := range s.board.Rows {
		rv := RowView{String: row.String, Label: row.Label, Cells: make([]CellView, 0, len(row.Cells))}
		for _, c := range row.Cells {
			rv.Cells = append(rv.Cells, CellView{Cell: *c, Pulsing: c.Playing(now)})
		}
		snap.Rows = append(snap.Rows, rv)
	}
	return snap
}

package scale

import (
	"context"
	"fmt"

	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/pitch"
	"github.com/jsphweid/fretboard/shape"
)

// Local resolves scales with interval arithmetic, no network involved.
type Local struct{}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Resolve(ctx context.Context, q Query) (Result, error) {
	if !q.Selected() {
		return newResult(), nil
	}

	rootPC, ok := pitch.NoteToPitchClass(q.Root)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownRoot, q.Root)
	}
	set, ok := intervals[q.Quality]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownQuality, q.Quality)
	}
	s, err := shape.Lookup(q.ShapeID)
	if err != nil {
		return Result{}, err
	}
	inShape := s.Positions(rootPC, q.Quality)

	res := newResult()
	for str := 0; str < constants.NumStrings; str++ {
		for fret := 0; fret <= constants.MaxFret; fret++ {
			if !s.ContainsFret(fret) {
				continue
			}
			p := model.Position{String: str, Fret: fret}
			if inShape != nil && !inShape[p] {
				continue
			}
			pc := pitch.PositionPitchClass(p)
			if !set[pitch.Interval(pc, rootPC)] {
				continue
			}
			res.add(model.ScalePosition{
				String:   str,
				Fret:     fret,
				IsRoot:   pc == rootPC,
				NoteName: pitch.PitchClassToName(pc, q.Root, q.Quality),
			})
		}
	}
	return res, nil
}

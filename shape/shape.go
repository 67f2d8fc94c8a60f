// Package shape holds the catalog of fretboard regions ("drawings") that can
// narrow a scale to one area of the neck.
package shape

import (
	"errors"
	"fmt"

	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/util"
)

var ErrUnknownShape = errors.New("unknown shape")

const AllID = "all"

type Kind string

const (
	KindRange   Kind = "range"
	KindPattern Kind = "pattern"
)

type Offset struct {
	String int
	Fret   int
}

type Shape struct {
	ID   string
	Name string
	Kind Kind

	// range shapes, inclusive
	From int
	To   int

	// pattern shapes
	RootString int
	Offsets    map[model.Quality][]Offset
}

// IsAll reports whether the shape imposes no restriction.
func (s Shape) IsAll() bool {
	return s.ID == AllID
}

func (s Shape) ContainsFret(fret int) bool {
	if s.Kind != KindRange {
		return true
	}
	return fret >= s.From && fret <= s.To
}

// Positions returns the positions covered by a pattern shape for the key
// rooted at rootPC. Offsets are anchored on the lowest fret of RootString that
// sounds the root. Minor keys without their own offsets borrow the major
// pattern of the relative major. Range shapes return nil.
func (s Shape) Positions(rootPC int, quality model.Quality) map[model.Position]bool {
	if s.Kind != KindPattern {
		return nil
	}

	offsets, ok := s.Offsets[quality]
	if !ok && quality == model.QualityMinor {
		offsets = s.Offsets[model.QualityMajor]
		rootPC += 3
	}

	open := constants.OpenStringPitchClass[s.RootString]
	anchor := util.Mod(rootPC-open, 12)

	res := make(map[model.Position]bool, len(offsets))
	for _, o := range offsets {
		fret := anchor + o.Fret
		if fret > constants.MaxFret {
			continue
		}
		res[model.Position{String: o.String, Fret: fret}] = true
	}
	return res
}

func Lookup(id string) (Shape, error) {
	if id == "" {
		id = AllID
	}
	for _, s := range catalog {
		if s.ID == id {
			return s, nil
		}
	}
	return Shape{}, fmt.Errorf("%w: %q", ErrUnknownShape, id)
}

func Catalog() []Shape {
	res := make([]Shape, len(catalog))
	copy(res, catalog)
	return res
}

func Summaries() []model.ShapeSummary {
	res := make([]model.ShapeSummary, 0, len(catalog))
	for _, s := range catalog {
		res = append(res, model.ShapeSummary{ID: s.ID, Name: s.Name, Kind: string(s.Kind)})
	}
	return res
}

// Package scale decides which fretboard positions belong to a key.
package scale

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/pitch"
	"github.com/jsphweid/fretboard/util"
)

var (
	ErrUnknownRoot    = errors.New("unknown root")
	ErrUnknownQuality = errors.New("unknown scale type")
)

var intervals = map[model.Quality]map[int]bool{
	model.QualityMajor: {0: true, 2: true, 4: true, 5: true, 7: true, 9: true, 11: true},
	model.QualityMinor: {0: true, 2: true, 3: true, 5: true, 7: true, 8: true, 10: true},
}

// Intervals returns the semitone offsets from the root that belong to the
// scale quality, ascending.
func Intervals(q model.Quality) []int {
	return util.GetSortedKeys(intervals[q])
}

// Notes spells the scale upward from root, one name per degree.
func Notes(root string, q model.Quality) ([]string, error) {
	rootPC, ok := pitch.NoteToPitchClass(root)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoot, root)
	}
	degrees := Intervals(q)
	if len(degrees) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuality, q)
	}
	names := make([]string, len(degrees))
	for i, d := range degrees {
		names[i] = pitch.PitchClassToName(rootPC+d, root, q)
	}
	return names, nil
}

type Query struct {
	Root    string
	Quality model.Quality
	ShapeID string
}

// Selected reports whether a scale is selected at all.
func (q Query) Selected() bool {
	return q.Quality != model.QualityNone
}

type Resolver interface {
	Resolve(ctx context.Context, q Query) (Result, error)
}

// Result is one complete resolution. It is never patched: every resolution
// produces a new Result that replaces the previous one.
type Result struct {
	Positions []model.Position
	Roots     map[model.Position]bool
	Names     map[model.Position]string
}

func (r Result) Empty() bool {
	return len(r.Positions) == 0
}

func (r Result) InScale(p model.Position) bool {
	for _, q := range r.Positions {
		if q == p {
			return true
		}
	}
	return false
}

func (r Result) IsRoot(p model.Position) bool {
	return r.Roots[p]
}

func (r Result) Name(p model.Position) (string, bool) {
	name, ok := r.Names[p]
	return name, ok
}

func newResult() Result {
	return Result{
		Roots: make(map[model.Position]bool),
		Names: make(map[model.Position]string),
	}
}

func (r *Result) add(p model.ScalePosition) {
	pos := model.Position{String: p.String, Fret: p.Fret}
	r.Positions = append(r.Positions, pos)
	if p.IsRoot {
		r.Roots[pos] = true
	}
	if p.NoteName != "" {
		r.Names[pos] = p.NoteName
	}
}

func (r *Result) sort() {
	sort.Slice(r.Positions, func(i, j int) bool {
		return r.Positions[i].Less(r.Positions[j])
	})
}

// Response converts the result to its wire form.
func (r Result) Response() model.ScaleResponse {
	res := model.ScaleResponse{Positions: make([]model.ScalePosition, 0, len(r.Positions))}
	for _, p := range r.Positions {
		res.Positions = append(res.Positions, model.ScalePosition{
			String:   p.String,
			Fret:     p.Fret,
			IsRoot:   r.Roots[p],
			NoteName: r.Names[p],
		})
	}
	return res
}

func FromResponse(resp model.ScaleResponse) Result {
	res := newResult()
	for _, p := range resp.Positions {
		res.add(p)
	}
	res.sort()
	return res
}

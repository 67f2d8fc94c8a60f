// Package board models the rendered fretboard grid: label rows, one cell per
// (string, fret), inlay markers and the visual flags set on each cell.
package board

import (
	"sort"
	"strconv"
	"time"

	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/pitch"
	"github.com/jsphweid/fretboard/scale"
)

// PulseDuration is how long a cell shows as playing after its note sounds.
const PulseDuration = 400 * time.Millisecond

type Order int

const (
	// HighToLow draws the high e string on top, like looking down at the neck.
	HighToLow Order = iota
	LowToHigh
)

type Cell struct {
	Position model.Position
	Open     bool
	Label    string

	On     bool // manual marker, independent of the scale
	Scale  bool
	Root   bool
	Active bool // current practice step

	pulseUntil time.Time
}

// Playing reports whether the cell is inside its pulse window at now.
func (c *Cell) Playing(now time.Time) bool {
	return now.Before(c.pulseUntil)
}

type Row struct {
	String int
	Label  string
	Cells  []*Cell
}

type Inlay struct {
	Fret   int
	Double bool
}

type Board struct {
	Order      Order
	FretLabels []string
	Rows       []Row
	Inlays     []Inlay
	cells      map[model.Position]*Cell
	activeCell *Cell
}

func New(order Order) *Board {
	b := &Board{Order: order}
	b.Render()
	b.Relabel("", model.QualityNone)
	return b
}

func stringOrder(order Order) []int {
	res := make([]int, constants.NumStrings)
	for i := range res {
		if order == HighToLow {
			res[i] = constants.NumStrings - 1 - i
		} else {
			res[i] = i
		}
	}
	return res
}

// Render rebuilds the whole grid from scratch. Any flags set on the previous
// grid are dropped.
func (b *Board) Render() {
	b.FretLabels = make([]string, 0, constants.NumFrets)
	for f := 0; f <= constants.MaxFret; f++ {
		b.FretLabels = append(b.FretLabels, strconv.Itoa(f))
	}

	b.cells = make(map[model.Position]*Cell, constants.NumStrings*constants.NumFrets)
	b.Rows = b.Rows[:0]
	b.activeCell = nil
	for _, s := range stringOrder(b.Order) {
		row := Row{String: s, Label: constants.StringNames[s]}
		for f := 0; f <= constants.MaxFret; f++ {
			c := &Cell{Position: model.Position{String: s, Fret: f}, Open: f == 0}
			b.cells[c.Position] = c
			row.Cells = append(row.Cells, c)
		}
		b.Rows = append(b.Rows, row)
	}

	b.Inlays = b.Inlays[:0]
	for _, f := range constants.InlayFrets {
		b.Inlays = append(b.Inlays, Inlay{Fret: f, Double: f == constants.DoubleInlayFret})
	}
}

func (b *Board) Cell(p model.Position) (*Cell, bool) {
	c, ok := b.cells[p]
	return c, ok
}

// InlayAt returns the inlay at fret, if any.
func (b *Board) InlayAt(fret int) (Inlay, bool) {
	for _, in := range b.Inlays {
		if in.Fret == fret {
			return in, true
		}
	}
	return Inlay{}, false
}

// Toggle flips the manual marker and returns its new state.
func (b *Board) Toggle(p model.Position) bool {
	c, ok := b.cells[p]
	if !ok {
		return false
	}
	c.On = !c.On
	return c.On
}

// Relabel writes the default pitch-model spelling on every cell. Without a
// selected root the board is spelled as C major.
func (b *Board) Relabel(root string, quality model.Quality) {
	if root == "" {
		root = "C"
	}
	if quality == model.QualityNone {
		quality = model.QualityMajor
	}
	for p, c := range b.cells {
		c.Label = pitch.PitchClassToName(pitch.PositionPitchClass(p), root, quality)
	}
}

// Apply clears the previous scale and root flags and marks the positions in
// res. Names in res override the default labels. With nothing selected only
// the clearing happens.
func (b *Board) Apply(res scale.Result, selected bool) {
	for _, c := range b.cells {
		c.Scale = false
		c.Root = false
	}
	if !selected {
		return
	}
	for _, p := range res.Positions {
		c, ok := b.cells[p]
		if !ok {
			continue
		}
		c.Scale = true
		c.Root = res.IsRoot(p)
		if name, ok := res.Name(p); ok {
			c.Label = name
		}
	}
}

// Clear removes every visual flag: manual markers, scale, root and the
// practice marker.
func (b *Board) Clear() {
	for _, c := range b.cells {
		c.On = false
		c.Scale = false
		c.Root = false
		c.Active = false
	}
	b.activeCell = nil
}

// Highlighted returns the positions flagged as scale or root, ordered by
// string then fret.
func (b *Board) Highlighted() []model.Position {
	var res []model.Position
	for p, c := range b.cells {
		if c.Scale || c.Root {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Less(res[j])
	})
	return res
}

// SetActive moves the practice marker to p.
func (b *Board) SetActive(p model.Position) {
	b.ClearActive()
	if c, ok := b.cells[p]; ok {
		c.Active = true
		b.activeCell = c
	}
}

func (b *Board) ClearActive() {
	if b.activeCell != nil {
		b.activeCell.Active = false
		b.activeCell = nil
	}
}

// Pulse starts the playing window for p at now. A pulse on a cell that is
// still playing restarts the window.
func (b *Board) Pulse(p model.Position, now time.Time) {
	if c, ok := b.cells[p]; ok {
		c.pulseUntil = now.Add(PulseDuration)
	}
}

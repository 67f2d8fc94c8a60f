// Package pitch maps pitch classes to note spellings and back.
package pitch

import (
	"strings"

	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/util"
)

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
var flatNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

var noteToPitchClass = map[string]int{
	"C": 0, "C#": 1, "Db": 1, "D": 2, "D#": 3, "Eb": 3, "E": 4, "F": 5,
	"F#": 6, "Gb": 6, "G": 7, "G#": 8, "Ab": 8, "A": 9, "A#": 10, "Bb": 10, "B": 11,
	"E#": 5, "Cb": 11,
}

// selectable roots, circle of fifths
var roots = []string{"C", "G", "D", "A", "E", "B", "Gb", "Db", "Ab", "Eb", "Bb", "F"}

var flatKeys = map[string]bool{
	"F": true, "Bb": true, "Eb": true, "Ab": true, "Db": true, "Gb": true,
	"Dm": true, "Gm": true, "Cm": true, "Fm": true, "Bbm": true, "Ebm": true,
}

// Spellings that keep one letter per degree where the plain tables cannot
// (E# in F#, Cb in Gb).
var keyNameOverrides = map[string][]string{
	"F#": {"F#", "G#", "A#", "B", "C#", "D#", "E#"},
	"Gb": {"Gb", "Ab", "Bb", "Cb", "Db", "Eb", "F"},
	"B":  {"B", "C#", "D#", "E", "F#", "G#", "A#"},
	"Db": {"Db", "Eb", "F", "Gb", "Ab", "Bb", "C"},
	"Ab": {"Ab", "Bb", "C", "Db", "Eb", "F", "G"},
	"Eb": {"Eb", "F", "G", "Ab", "Bb", "C", "D"},
	"Bb": {"Bb", "C", "D", "Eb", "F", "G", "A"},
	"F":  {"F", "G", "A", "Bb", "C", "D", "E"},
}

func Roots() []string {
	res := make([]string, len(roots))
	copy(res, roots)
	return res
}

func NoteToPitchClass(name string) (int, bool) {
	pc, ok := noteToPitchClass[name]
	return pc, ok
}

func UseFlats(root string, quality model.Quality) bool {
	key := root
	if quality == model.QualityMinor {
		key = root + "m"
	}
	return flatKeys[key] || strings.Contains(root, "b")
}

// PitchClassToName spells pc for the key given by root and quality. It never
// fails; unknown roots fall back to sharps.
func PitchClassToName(pc int, root string, quality model.Quality) string {
	pc = util.Mod(pc, 12)
	if names, ok := keyNameOverrides[root]; ok {
		for _, name := range names {
			if noteToPitchClass[name] == pc {
				return name
			}
		}
	}
	if UseFlats(root, quality) {
		return flatNames[pc]
	}
	return sharpNames[pc]
}

func PositionPitchClass(p model.Position) int {
	return util.Mod(constants.OpenStringPitchClass[p.String]+p.Fret, 12)
}

// Interval is the distance in semitones from the root up to pc.
func Interval(pc, rootPC int) int {
	return util.Mod(pc-rootPC+12, 12)
}

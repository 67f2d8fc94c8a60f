package model

import "fmt"

// Position identifies one fret on one string. String 0 is the low E string,
// fret 0 is the open string.
type Position struct {
	String int
	Fret   int
}

func (p Position) Key() string {
	return fmt.Sprintf("%d:%d", p.String, p.Fret)
}

// Less orders positions by string, then fret.
func (p Position) Less(o Position) bool {
	if p.String != o.String {
		return p.String < o.String
	}
	return p.Fret < o.Fret
}

type Quality string

const (
	QualityNone  Quality = ""
	QualityMajor Quality = "major"
	QualityMinor Quality = "minor"
)

var Qualities = []Quality{QualityMajor, QualityMinor}

func ParseQuality(s string) (Quality, bool) {
	switch Quality(s) {
	case QualityMajor, QualityMinor, QualityNone:
		return Quality(s), true
	}
	return QualityNone, false
}

package shape

import "github.com/jsphweid/fretboard/model"

func row(s int, frets ...int) []Offset {
	res := make([]Offset, 0, len(frets))
	for _, f := range frets {
		res = append(res, Offset{String: s, Fret: f})
	}
	return res
}

func pattern(rows ...[]Offset) map[model.Quality][]Offset {
	var major []Offset
	for _, r := range rows {
		major = append(major, r...)
	}
	return map[model.Quality][]Offset{model.QualityMajor: major}
}

var catalog = []Shape{
	{ID: AllID, Name: "All", Kind: KindRange, From: 0, To: 20},
	{ID: "open", Name: "Open position", Kind: KindRange, From: 0, To: 4},
	{ID: "upper", Name: "Upper register", Kind: KindRange, From: 12, To: 20},
	{
		ID: "s1", Name: "Shape 1", Kind: KindPattern, RootString: 0,
		Offsets: pattern(
			row(0, 0, 2, 4),
			row(1, 0, 2, 4),
			row(2, 1, 2, 4),
			row(3, 1, 2, 4),
			row(4, 0, 2, 4),
			row(5, 0, 2, 4),
		),
	},
	{
		ID: "s2", Name: "Shape 2", Kind: KindPattern, RootString: 2,
		Offsets: pattern(
			row(2, 0, 2, 4),
			row(3, 0, 2, 4),
			row(4, 1, 2, 4),
			row(5, 0, 2, 4),
			row(0, 0, 2, 4),
			row(1, 0, 2, 4),
		),
	},
	{
		ID: "s3", Name: "Shape 3", Kind: KindPattern, RootString: 1,
		Offsets: pattern(
			row(1, 0, 2, 3),
			row(2, 0, 2, 3),
			row(3, 0, 2),
			row(4, 0, 1, 3),
			row(5, 0, 2, 3),
			row(0, 0, 2, 3),
		),
	},
	{
		ID: "s4", Name: "Shape 4", Kind: KindPattern, RootString: 1,
		Offsets: pattern(
			row(1, 0, 2, 4),
			row(2, 0, 2, 4),
			row(3, 0, 2),
			row(4, 0, 2, 3),
			row(5, 0, 2, 4),
			row(0, 0, 2, 4),
		),
	},
	{
		ID: "s5", Name: "Shape 5", Kind: KindPattern, RootString: 1,
		Offsets: pattern(
			row(1, 0, 2, 4),
			row(2, 0, 2, 4),
			row(3, 1, 2, 4),
			row(4, 2, 3, 5),
			row(5, 2, 4, 5),
			row(0, 0, 2, 4),
		),
	},
}

package model

type ScalePosition struct {
	String   int    `json:"string"`
	Fret     int    `json:"fret"`
	IsRoot   bool   `json:"is_root"`
	NoteName string `json:"note_name,omitempty"`
}

type ScaleResponse struct {
	Positions []ScalePosition `json:"positions"`
}

type ShapeSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type ShapesResponse struct {
	Shapes []ShapeSummary `json:"shapes"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

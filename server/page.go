package server

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jsphweid/fretboard/board"
	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/pitch"
	"github.com/jsphweid/fretboard/scale"
	"github.com/jsphweid/fretboard/shape"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("board.html").Funcs(template.FuncMap{
	"cellClass": cellClass,
	"inlay":     inlayMarker,
}).ParseFS(templateFS, "templates/board.html"))

type option struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Roots     []option
	Qualities []option
	Shapes    []option
	Board     *board.Board
}

func cellClass(c *board.Cell) string {
	classes := []string{"cell"}
	if c.Open {
		classes = append(classes, "open")
	}
	if c.On {
		classes = append(classes, "on")
	}
	if c.Scale {
		classes = append(classes, "scale")
	}
	if c.Root {
		classes = append(classes, "root")
	}
	return strings.Join(classes, " ")
}

func inlayMarker(b *board.Board, fret int) string {
	in, ok := b.InlayAt(fret)
	switch {
	case !ok:
		return ""
	case in.Double:
		return "●●"
	default:
		return "●"
	}
}

// HandleBoard renders the board for ?root=&scale=&shape=. Missing parameters
// fall back to C, no scale and all shapes.
func (s *Server) HandleBoard(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	vars := map[string]string{
		"root":      params.Get("root"),
		"scaleType": params.Get("scale"),
		"shapeId":   params.Get("shape"),
	}
	if vars["root"] == "" {
		vars["root"] = "C"
	}

	b := board.New(board.HighToLow)
	data := pageData{Board: b}

	selected := vars["scaleType"] != ""
	if selected {
		q, err := parseQuery(vars)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		b.Relabel(q.Root, q.Quality)
		res, err := s.resolver.Resolve(r.Context(), q)
		if err != nil {
			slog.Warn("server: resolve scale for page", "err", err)
		}
		b.Apply(res, err == nil)
	} else {
		b.Relabel(scaleRoot(vars["root"]), model.QualityNone)
	}

	root := scaleRoot(vars["root"])
	for _, name := range pitch.Roots() {
		data.Roots = append(data.Roots, option{Value: name, Label: name, Selected: name == root})
	}
	data.Qualities = append(data.Qualities, option{Value: "", Label: "none", Selected: !selected})
	for _, q := range model.Qualities {
		data.Qualities = append(data.Qualities, option{Value: string(q), Label: string(q), Selected: string(q) == vars["scaleType"]})
	}
	for _, sh := range shape.Catalog() {
		id := vars["shapeId"]
		if id == "" {
			id = shape.AllID
		}
		data.Shapes = append(data.Shapes, option{Value: sh.ID, Label: sh.Name, Selected: sh.ID == id})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		slog.Warn("server: render board", "err", err)
	}
}

func scaleRoot(raw string) string {
	root := scale.DecodeRoot(raw)
	if _, ok := pitch.NoteToPitchClass(root); !ok {
		return "C"
	}
	return root
}

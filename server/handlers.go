package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/fretboard/audio"
	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/pitch"
	"github.com/jsphweid/fretboard/scale"
	"github.com/jsphweid/fretboard/shape"
)

// parseQuery validates the path parameters of a scale request. Roots may use
// the sharp substitute ("Fs") or an escaped '#'.
func parseQuery(vars map[string]string) (scale.Query, error) {
	root := scale.DecodeRoot(vars["root"])
	if _, ok := pitch.NoteToPitchClass(root); !ok {
		return scale.Query{}, fmt.Errorf("%w: %q", scale.ErrUnknownRoot, root)
	}
	q, ok := model.ParseQuality(vars["scaleType"])
	if !ok || q == model.QualityNone {
		return scale.Query{}, fmt.Errorf("%w: %q", scale.ErrUnknownQuality, vars["scaleType"])
	}
	s, err := shape.Lookup(vars["shapeId"])
	if err != nil {
		return scale.Query{}, err
	}
	return scale.Query{Root: root, Quality: q, ShapeID: s.ID}, nil
}

func isBadInput(err error) bool {
	return errors.Is(err, scale.ErrUnknownRoot) ||
		errors.Is(err, scale.ErrUnknownQuality) ||
		errors.Is(err, shape.ErrUnknownShape)
}

func (s *Server) HandleScale(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(mux.Vars(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.resolver.Resolve(r.Context(), q)
	if err != nil {
		if isBadInput(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("server: resolve scale", "root", q.Root, "scale", q.Quality, "shape", q.ShapeID, "err", err)
		writeError(w, http.StatusBadGateway, "scale lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, res.Response())
}

func (s *Server) HandleShapes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.ShapesResponse{Shapes: shape.Summaries()})
}

func parsePosition(vars map[string]string) (model.Position, error) {
	str, err := strconv.Atoi(vars["string"])
	if err != nil || str < 0 || str >= constants.NumStrings {
		return model.Position{}, fmt.Errorf("string must be 0-%d", constants.NumStrings-1)
	}
	fret, err := strconv.Atoi(vars["fret"])
	if err != nil || fret < 0 || fret > constants.MaxFret {
		return model.Position{}, fmt.Errorf("fret must be 0-%d", constants.MaxFret)
	}
	return model.Position{String: str, Fret: fret}, nil
}

func (s *Server) HandleNoteAudio(w http.ResponseWriter, r *http.Request) {
	p, err := parsePosition(mux.Vars(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeWAV(w, audio.Note(p, s.sampleRate))
}

func (s *Server) HandleClickAudio(w http.ResponseWriter, r *http.Request) {
	accent := false
	if raw := r.URL.Query().Get("accent"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "accent must be a boolean")
			return
		}
		accent = v
	}
	s.writeWAV(w, audio.Click(accent, s.sampleRate))
}

func (s *Server) writeWAV(w http.ResponseWriter, samples []float64) {
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if err := audio.WriteWAV(w, samples, s.sampleRate); err != nil {
		slog.Warn("server: write wav", "err", err)
	}
}

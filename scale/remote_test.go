package scale

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsphweid/fretboard/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteEncodesSharpRoot(t *testing.T) {
	r := NewRemote("http://example.test/")
	assert.Equal(t, "http://example.test/api/scale/Fs/major", r.URL(Query{Root: "F#", Quality: model.QualityMajor}))
	assert.Equal(t, "http://example.test/api/scale/Bb/minor/shape/s2", r.URL(Query{Root: "Bb", Quality: model.QualityMinor, ShapeID: "s2"}))
	assert.Equal(t, "http://example.test/api/scale/C/major", r.URL(Query{Root: "C", Quality: model.QualityMajor, ShapeID: "all"}))
	assert.Equal(t, "F#", DecodeRoot("Fs"))
}

func TestRemoteDecodesPositions(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(model.ScaleResponse{Positions: []model.ScalePosition{
			{String: 1, Fret: 3, IsRoot: true, NoteName: "C"},
			{String: 0, Fret: 0},
		}})
	}))
	defer ts.Close()

	res, err := NewRemote(ts.URL).Resolve(context.Background(), Query{Root: "C#", Quality: model.QualityMajor})
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("/api/scale/Cs/major", gotPath)
	assert.Equal([]model.Position{{String: 0, Fret: 0}, {String: 1, Fret: 3}}, res.Positions)
	assert.True(res.IsRoot(model.Position{String: 1, Fret: 3}))
	assert.False(res.IsRoot(model.Position{String: 0, Fret: 0}))

	name, ok := res.Name(model.Position{String: 1, Fret: 3})
	assert.True(ok)
	assert.Equal("C", name)
	_, ok = res.Name(model.Position{String: 0, Fret: 0})
	assert.False(ok)
}

func TestRemoteFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		},
		"no positions": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(handler)
			defer ts.Close()

			_, err := NewRemote(ts.URL).Resolve(context.Background(), Query{Root: "C", Quality: model.QualityMajor})
			assert.Error(t, err)
		})
	}
}

func TestRemoteNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := NewRemote(url).Resolve(context.Background(), Query{Root: "C", Quality: model.QualityMajor})
	assert.Error(t, err)
}

func TestRemoteSkipsRequestWithoutScale(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	res, err := NewRemote(ts.URL).Resolve(context.Background(), Query{Root: "C"})
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.False(t, called)
}

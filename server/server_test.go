package server

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, path string) *http.Response {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Result()
}

func decodeScale(t *testing.T, resp *http.Response) model.ScaleResponse {
	var body model.ScaleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestScaleEndpoint(t *testing.T) {
	h := New(nil, constants.SampleRate).Handler()

	resp := do(t, h, "/api/scale/C/major")
	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.Equal("application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(resp.Header.Get(RequestIDHeader))

	body := decodeScale(t, resp)
	assert.NotEmpty(body.Positions)
	for _, p := range body.Positions {
		assert.NotEmpty(p.NoteName)
		if p.String == 1 && p.Fret == 3 {
			assert.True(p.IsRoot)
			assert.Equal("C", p.NoteName)
		}
	}
}

func TestSharpRoots(t *testing.T) {
	h := New(nil, constants.SampleRate).Handler()

	for _, path := range []string{"/api/scale/Fs/major", "/api/scale/F%23/major"} {
		t.Run(path, func(t *testing.T) {
			resp := do(t, h, path)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			names := map[string]bool{}
			for _, p := range decodeScale(t, resp).Positions {
				names[p.NoteName] = true
			}
			assert.True(t, names["E#"])
			assert.False(t, names["F"])
		})
	}
}

func TestLegacyRoutesMatch(t *testing.T) {
	h := New(nil, constants.SampleRate).Handler()

	cases := [][2]string{
		{"/api/scale/A/minor", "/api/escala/A/minor"},
		{"/api/scale/G/major/shape/s1", "/api/escala/G/major/dibujo/s1"},
		{"/api/scale/D/minor/shape/open", "/api/escala/D/minor/dibujo/open"},
	}
	for _, c := range cases {
		a := decodeScale(t, do(t, h, c[0]))
		b := decodeScale(t, do(t, h, c[1]))
		assert.Equal(t, a, b, c[1])
	}
}

func TestShapeNarrowsScale(t *testing.T) {
	h := New(nil, constants.SampleRate).Handler()

	all := decodeScale(t, do(t, h, "/api/scale/C/major"))
	open := decodeScale(t, do(t, h, "/api/scale/C/major/shape/open"))
	assert.Less(t, len(open.Positions), len(all.Positions))
	for _, p := range open.Positions {
		assert.LessOrEqual(t, p.Fret, 4)
	}
}

func TestBadInput(t *testing.T) {
	h := New(nil, constants.SampleRate).Handler()

	for _, path := range []string{
		"/api/scale/H/major",
		"/api/scale/C/dorian",
		"/api/scale/C/major/shape/s9",
		"/api/audio/note/6/0",
		"/api/audio/note/0/21",
		"/api/audio/note/x/1",
		"/api/audio/click?accent=loud",
	} {
		t.Run(path, func(t *testing.T) {
			resp := do(t, h, path)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body model.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

type broken struct{}

func (broken) Resolve(context.Context, scale.Query) (scale.Result, error) {
	return scale.Result{}, errors.New("upstream down")
}

func TestResolverFailure(t *testing.T) {
	h := New(broken{}, constants.SampleRate).Handler()
	resp := do(t, h, "/api/scale/C/major")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestShapesEndpoint(t *testing.T) {
	h := New(nil, constants.SampleRate).Handler()
	resp := do(t, h, "/api/shapes")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body model.ShapesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	ids := []string{}
	for _, s := range body.Shapes {
		ids = append(ids, s.ID)
	}
	assert.Contains(t, ids, "all")
	assert.Contains(t, ids, "s5")
}

func TestAudioEndpoints(t *testing.T) {
	h := New(nil, constants.SampleRate).Handler()

	for _, path := range []string{"/api/audio/note/0/0", "/api/audio/click?accent=true", "/api/audio/click"} {
		t.Run(path, func(t *testing.T) {
			resp := do(t, h, path)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "audio/wav", resp.Header.Get("Content-Type"))

			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.Greater(t, len(data), 44)
			assert.Equal(t, "RIFF", string(data[0:4]))
			assert.Equal(t, "WAVE", string(data[8:12]))
			assert.Equal(t, uint32(constants.SampleRate), binary.LittleEndian.Uint32(data[24:28]))
		})
	}
}

func TestRequestIDIsKept(t *testing.T) {
	h := New(nil, constants.SampleRate).Handler()
	req := httptest.NewRequest(http.MethodGet, "/api/shapes", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Result().Header.Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	h := New(nil, constants.SampleRate).Handler()
	req := httptest.NewRequest(http.MethodGet, "/api/shapes", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Result().Header.Get("Access-Control-Allow-Origin"))
}

func TestBoardPage(t *testing.T) {
	h := New(nil, constants.SampleRate).Handler()

	resp := do(t, h, "/?root=A&scale=minor&shape=all")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(data)

	assert := assert.New(t)
	assert.Contains(page, `data-string-index="0" data-fret="5"`)
	assert.Contains(page, `class="cell scale root" data-string-index="0" data-fret="5"`)
	assert.Contains(page, `data-fret="20"`)
	assert.Equal(constants.NumStrings*constants.NumFrets, strings.Count(page, "data-string-index="))
	assert.Contains(page, `<option value="A" selected>`)
}

func TestBoardPageWithoutScale(t *testing.T) {
	h := New(nil, constants.SampleRate).Handler()
	resp := do(t, h, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "cell scale")

	resp = do(t, h, "/?scale=lydian")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBoardPageLookupFailure(t *testing.T) {
	h := New(broken{}, constants.SampleRate).Handler()

	resp := do(t, h, "/?root=C&scale=major")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(data)

	assert.NotContains(t, page, "cell scale")
	assert.NotContains(t, page, "failed")
	assert.NotContains(t, page, "upstream down")
	assert.Equal(t, constants.NumStrings*constants.NumFrets, strings.Count(page, "data-string-index="))
}

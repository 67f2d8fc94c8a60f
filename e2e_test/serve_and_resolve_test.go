//go:build e2e
// +build e2e

package e2e_test

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/pitch"
	"github.com/jsphweid/fretboard/scale"
	"github.com/jsphweid/fretboard/server"
	"github.com/jsphweid/fretboard/session"
	"github.com/jsphweid/fretboard/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ts *httptest.Server

func TestMain(m *testing.M) {
	ts = httptest.NewServer(server.New(nil, constants.SampleRate).Handler())

	exitVal := m.Run()

	ts.Close()
	os.Exit(exitVal)
}

func TestRemoteMatchesLocalE2E(t *testing.T) {
	remote := scale.NewRemote(ts.URL + "/")
	local := scale.NewLocal()
	ctx := context.Background()

	for _, root := range append(pitch.Roots(), "F#", "C#") {
		for _, q := range model.Qualities {
			for _, s := range shape.Catalog() {
				query := scale.Query{Root: root, Quality: q, ShapeID: s.ID}
				want, err := local.Resolve(ctx, query)
				require.NoError(t, err)
				got, err := remote.Resolve(ctx, query)
				require.NoError(t, err, query)
				assert.Equal(t, want.Response(), got.Response(), query)
			}
		}
	}
}

func TestSessionOverRemoteE2E(t *testing.T) {
	sess := session.New(session.Config{Resolver: scale.NewRemote(ts.URL)})
	defer sess.Close()

	assert := assert.New(t)
	require.NoError(t, sess.SetRoot("F#"))
	require.NoError(t, sess.SetQuality(model.QualityMajor))
	require.NoError(t, sess.Refresh(context.Background()))

	snap := sess.Snapshot()
	names := map[string]bool{}
	for _, row := range snap.Rows {
		for _, c := range row.Cells {
			if c.Scale {
				names[c.Label] = true
			}
		}
	}
	assert.True(names["E#"])
	assert.False(names["F"])
	assert.Len(names, 7)
}

func TestUnreachableServiceClearsE2E(t *testing.T) {
	dead := httptest.NewServer(nil)
	url := dead.URL
	dead.Close()

	sess := session.New(session.Config{Resolver: scale.NewRemote(url)})
	defer sess.Close()
	require.NoError(t, sess.SetQuality(model.QualityMajor))
	assert.Error(t, sess.Refresh(context.Background()))
	assert.True(t, sess.Result().Empty())
}

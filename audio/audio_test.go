package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/jsphweid/fretboard/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peak(samples []float64) float64 {
	var m float64
	for _, s := range samples {
		m = math.Max(m, math.Abs(s))
	}
	return m
}

func TestFrequency(t *testing.T) {
	assert := assert.New(t)
	assert.InDelta(82.41, Frequency(model.Position{String: 0, Fret: 0}), 1e-9)
	assert.InDelta(164.82, Frequency(model.Position{String: 0, Fret: 12}), 1e-9)
	assert.InDelta(110.0, Frequency(model.Position{String: 1, Fret: 0}), 0.01)
	assert.InDelta(329.64, Frequency(model.Position{String: 5, Fret: 0}), 1e-9)
	// same pitch on two strings
	assert.InDelta(Frequency(model.Position{String: 3, Fret: 4}), Frequency(model.Position{String: 4, Fret: 0}), 1e-9)
}

func TestClickEnvelope(t *testing.T) {
	assert := assert.New(t)
	assert.InDelta(0.5, ClickGain(true, 0), 1e-9)
	assert.InDelta(0.3, ClickGain(false, 0), 1e-9)
	assert.Less(ClickGain(true, 0.099), 0.002)
	assert.Equal(0.0, ClickGain(true, 0.1))

	accent := Click(true, 44100)
	plain := Click(false, 44100)
	assert.InDelta(4410, len(accent), 1)
	assert.Greater(peak(accent), peak(plain))
}

func TestNoteEnvelope(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0.0, NoteGain(0))
	assert.InDelta(0.25, NoteGain(0.01), 1e-9)
	assert.InDelta(0.5, NoteGain(0.02), 1e-9)
	assert.InDelta(0.2, NoteGain(0.15), 1e-9)
	assert.Less(NoteGain(1.49), 0.01)
	assert.Equal(0.0, NoteGain(1.6))

	samples := Note(model.Position{String: 0, Fret: 5}, 44100)
	assert.InDelta(70560, len(samples), 1)
	assert.LessOrEqual(peak(samples), 0.6)
	assert.Greater(peak(samples), 0.1)
}

func TestWriteWAV(t *testing.T) {
	buf := new(bytes.Buffer)
	samples := Click(false, 8000)
	require.NoError(t, WriteWAV(buf, samples, 8000))

	data := buf.Bytes()
	assert := assert.New(t)
	assert.Equal("RIFF", string(data[0:4]))
	assert.Equal("WAVE", string(data[8:12]))
	assert.Equal("data", string(data[36:40]))
	assert.Equal(uint32(8000), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(uint32(len(samples)*4), binary.LittleEndian.Uint32(data[40:44]))
	assert.Len(data, 44+len(samples)*4)
}

func TestPCMClips(t *testing.T) {
	pcm := PCM([]float64{2, -2})
	assert.Len(t, pcm, 8)
	assert.Equal(t, int16(math.MaxInt16), int16(binary.LittleEndian.Uint16(pcm[0:2])))
	assert.Equal(t, int16(-math.MaxInt16), int16(binary.LittleEndian.Uint16(pcm[4:6])))
}

type recordingPlayer struct {
	mu     sync.Mutex
	played [][]byte
}

func (p *recordingPlayer) Play(pcm []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, pcm)
	return nil
}

func (p *recordingPlayer) SampleRate() int {
	return 8000
}

func TestEngineOpensOutputOnce(t *testing.T) {
	player := &recordingPlayer{}
	opens := 0
	e := NewEngine(func() (Output, error) {
		opens++
		return NewSynth(player), nil
	})
	assert.Equal(t, 0, opens)

	require.NoError(t, e.Click(true))
	require.NoError(t, e.Note(model.Position{String: 2, Fret: 2}))
	require.NoError(t, e.Click(false))

	assert.Equal(t, 1, opens)
	assert.Len(t, player.played, 3)
	require.NoError(t, e.Close())
}

func TestEngineOpenFailure(t *testing.T) {
	boom := errors.New("no device")
	e := NewEngine(func() (Output, error) { return nil, boom })

	err := e.Click(false)
	assert.True(t, errors.Is(err, boom))
	assert.True(t, errors.Is(e.Note(model.Position{}), boom))
}

func TestEngineClosedBeforeUse(t *testing.T) {
	e := NewEngine(func() (Output, error) { return Silent{}, nil })
	require.NoError(t, e.Close())
	assert.True(t, errors.Is(e.Click(true), ErrClosed))
}

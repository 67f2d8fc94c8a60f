package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/model"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ticksPerQuarter = 960
	noteVelocity    = 100
	noteChannel     = 0
)

// Key is the MIDI key number sounding at p in standard tuning.
func Key(p model.Position) uint8 {
	return uint8(constants.OpenStringMidi[p.String] + p.Fret)
}

// WritePractice writes seq as a format 0 Standard MIDI File, one quarter note
// per step at bpm.
func WritePractice(w io.Writer, seq []model.Position, bpm int) error {
	if len(seq) == 0 {
		return errors.New("empty practice sequence")
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("practice"))
	tr.Add(0, smf.MetaTempo(float64(bpm)))
	tr.Add(0, smf.MetaMeter(constants.BeatsPerBar, 4))
	for _, p := range seq {
		key := Key(p)
		tr.Add(0, gomidi.NoteOn(noteChannel, key, noteVelocity))
		tr.Add(ticksPerQuarter, gomidi.NoteOff(noteChannel, key))
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return fmt.Errorf("add practice track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("write practice file: %w", err)
	}
	return nil
}

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// smf can panic on malformed input
	defer func() {
		if r := recover(); r != nil {
			s, e = &blank, fmt.Errorf("Error parsing midi file... %v", r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, fmt.Errorf("Error reading midi file... %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("Error parsing midi file... %w", err)
	}
	return res, nil
}

// NoteKeys returns the key of every note-on in file order.
func NoteKeys(s *smf.SMF) []uint8 {
	var keys []uint8
	for _, track := range s.Tracks {
		for _, evt := range track {
			var ch, key, vel uint8
			if evt.Message.GetNoteStart(&ch, &key, &vel) {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

package constants

import (
	"os"
	"strconv"
)

func GetListenAddr() string {
	addr := os.Getenv("FRETBOARD_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

// GetAPIURL returns the base URL of a remote scale service. Empty means the
// local resolver is used.
func GetAPIURL() string {
	return os.Getenv("FRETBOARD_API_URL")
}

func GetMidiPort() string {
	return os.Getenv("FRETBOARD_MIDI_PORT")
}

func GetDefaultBPM() int {
	raw := os.Getenv("FRETBOARD_BPM")
	if raw == "" {
		return DefaultBPM
	}
	bpm, err := strconv.Atoi(raw)
	if err != nil || bpm < MinBPM || bpm > MaxBPM {
		return DefaultBPM
	}
	return bpm
}

const NumStrings = 6

// MaxFret is the highest fret on the board; fret 0 is the open string.
const MaxFret = 20

const NumFrets = MaxFret + 1

// Indexed low E to high e.
var StringNames = [NumStrings]string{"E", "A", "D", "G", "B", "e"}

var OpenStringPitchClass = [NumStrings]int{4, 9, 2, 7, 11, 4}

// E2 A2 D3 G3 B3 E4
var OpenStringMidi = [NumStrings]int{40, 45, 50, 55, 59, 64}

// Semitones above the low E string.
var StringSemitoneOffset = [NumStrings]int{0, 5, 10, 15, 19, 24}

var InlayFrets = []int{3, 5, 7, 9, 12, 15, 17, 19}

const DoubleInlayFret = 12

const LowEFrequency = 82.41

const (
	DefaultBPM  = 120
	MinBPM      = 20
	MaxBPM      = 300
	BeatsPerBar = 4
)

const SampleRate = 44100

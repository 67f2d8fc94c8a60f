package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

const (
	channels      = 2
	bitsPerSample = 16
)

func toInt16(v float64) int16 {
	v = math.Max(-1, math.Min(1, v))
	return int16(v * math.MaxInt16)
}

// PCM converts mono samples to 16-bit little-endian interleaved stereo.
func PCM(samples []float64) []byte {
	buf := make([]byte, 0, len(samples)*channels*2)
	for _, s := range samples {
		v := uint16(toInt16(s))
		for c := 0; c < channels; c++ {
			buf = append(buf, byte(v), byte(v>>8))
		}
	}
	return buf
}

// WriteWAV writes samples as a canonical 44-byte-header PCM WAV file.
func WriteWAV(w io.Writer, samples []float64, sampleRate int) error {
	data := PCM(samples)
	blockAlign := channels * bitsPerSample / 8

	buf := new(bytes.Buffer)
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)

	_, err := w.Write(buf.Bytes())
	return err
}

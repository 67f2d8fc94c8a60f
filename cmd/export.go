package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/midi"
	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/transport"
	"github.com/spf13/cobra"
)

var exportOpts struct {
	api     string
	shapeID string
	bpm     int
	out     string
}

func init() {
	f := exportCmd.Flags()
	addAPIFlag(exportCmd, &exportOpts.api)
	f.StringVar(&exportOpts.shapeID, "shape", "all", "shape id")
	f.IntVar(&exportOpts.bpm, "bpm", constants.GetDefaultBPM(), "tempo written to the file")
	f.StringVarP(&exportOpts.out, "out", "o", "practice.mid", "output file")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <root> <major|minor>",
	Short: "Writes the practice sequence of a key as a MIDI file",
	Long: `Writes the practice sequence of a key (up the highlighted positions by
string and fret, then back down) as a format 0 Standard MIDI File, one
quarter note per step.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := parseScaleArgs(args, exportOpts.shapeID)
		if err != nil {
			return err
		}
		res, err := newResolver(exportOpts.api).Resolve(cmd.Context(), q)
		if err != nil {
			return err
		}
		if res.Empty() {
			return transport.ErrNothingHighlighted
		}
		seq := transport.BuildSequence(res.Positions)
		if err := writePracticeFile(exportOpts.out, seq, exportOpts.bpm); err != nil {
			return err
		}
		slog.Info("export: wrote practice sequence", "file", exportOpts.out, "steps", len(seq))
		fmt.Printf("%s: %d steps at %d bpm\n", exportOpts.out, len(seq), exportOpts.bpm)
		return nil
	},
}

// writePracticeFile writes seq to path and reads it back to check that every
// step made it into the file.
func writePracticeFile(path string, seq []model.Position, bpm int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := midi.WritePractice(f, seq, bpm); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	written, err := midi.ReadMidiFile(path)
	if err != nil {
		return err
	}
	if n := len(midi.NoteKeys(written)); n != len(seq) {
		return fmt.Errorf("export: %s holds %d notes, want %d", path, n, len(seq))
	}
	return nil
}

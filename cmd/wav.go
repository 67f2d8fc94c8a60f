package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jsphweid/fretboard/audio"
	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/model"
	"github.com/spf13/cobra"
)

var wavOpts struct {
	out    string
	accent bool
}

func init() {
	wavCmd.PersistentFlags().StringVarP(&wavOpts.out, "out", "o", "out.wav", "output file")
	wavClickCmd.Flags().BoolVar(&wavOpts.accent, "accent", false, "render the accented first beat")
	wavCmd.AddCommand(wavClickCmd, wavNoteCmd)
	rootCmd.AddCommand(wavCmd)
}

var wavCmd = &cobra.Command{
	Use:   "wav",
	Short: "Renders a metronome click or a note to a WAV file",
}

var wavClickCmd = &cobra.Command{
	Use:   "click",
	Short: "Renders a metronome click",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeWAVFile(wavOpts.out, audio.Click(wavOpts.accent, constants.SampleRate))
	},
}

var wavNoteCmd = &cobra.Command{
	Use:     "note <string> <fret>",
	Short:   "Renders the note at a position; string 0 is low E",
	Example: "  fretboard wav note 1 3 -o c3.wav",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		str, err := strconv.Atoi(args[0])
		if err != nil || str < 0 || str >= constants.NumStrings {
			return fmt.Errorf("string must be 0-%d", constants.NumStrings-1)
		}
		fret, err := strconv.Atoi(args[1])
		if err != nil || fret < 0 || fret > constants.MaxFret {
			return fmt.Errorf("fret must be 0-%d", constants.MaxFret)
		}
		return writeWAVFile(wavOpts.out, audio.Note(model.Position{String: str, Fret: fret}, constants.SampleRate))
	},
}

func writeWAVFile(path string, samples []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := audio.WriteWAV(f, samples, constants.SampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

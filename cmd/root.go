package cmd

import (
	"os"

	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/logging"
	"github.com/jsphweid/fretboard/scale"
	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "fretboard",
	Short: "Guitar fretboard trainer",
	Long: `Guitar fretboard trainer: highlights the notes of a key on a 6 string,
20 fret board, optionally narrowed to one shape, with a metronome and a
scale practice sequencer.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(os.Stderr, debug)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// newResolver asks the scale service at apiURL, or resolves locally when
// apiURL is empty.
func newResolver(apiURL string) scale.Resolver {
	if apiURL == "" {
		return scale.NewLocal()
	}
	return scale.NewRemote(apiURL)
}

func addAPIFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "api", constants.GetAPIURL(), "base URL of a scale service (env FRETBOARD_API_URL); local resolution when empty")
}

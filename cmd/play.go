package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jsphweid/fretboard/audio"
	"github.com/jsphweid/fretboard/board"
	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/logging"
	"github.com/jsphweid/fretboard/midi"
	"github.com/jsphweid/fretboard/session"
	"github.com/jsphweid/fretboard/speaker"
	"github.com/jsphweid/fretboard/tui"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var playOpts struct {
	api      string
	bpm      int
	midiPort string
	silent   bool
	sound    bool
	lowHigh  bool
	logFile  string
}

func init() {
	f := playCmd.Flags()
	addAPIFlag(playCmd, &playOpts.api)
	f.IntVar(&playOpts.bpm, "bpm", constants.GetDefaultBPM(), "tempo for the metronome and practice (env FRETBOARD_BPM)")
	f.StringVar(&playOpts.midiPort, "midi-port", constants.GetMidiPort(), "send sound to this MIDI output port instead of the speaker (env FRETBOARD_MIDI_PORT); \"0\" picks the first port")
	f.BoolVar(&playOpts.silent, "silent", false, "no sound device at all")
	f.BoolVar(&playOpts.sound, "sound", true, "start with metronome and practice sound enabled")
	f.BoolVar(&playOpts.lowHigh, "low-on-top", false, "draw the low E string on top")
	f.StringVar(&playOpts.logFile, "log-file", logging.DefaultFile(), "log file; the terminal belongs to the board")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Interactive fretboard in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := logging.InitFile(playOpts.logFile, debug)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return play(ctx)
	},
}

// openOutput picks the sound device for a play session. It runs on the
// first sound, not at startup.
func openOutput() (audio.Output, error) {
	switch {
	case playOpts.silent:
		return audio.Silent{}, nil
	case playOpts.midiPort != "":
		return midi.Open(playOpts.midiPort)
	default:
		return audio.NewSynth(speaker.New(constants.SampleRate)), nil
	}
}

func play(ctx context.Context) error {
	defer gomidi.CloseDriver()

	engine := audio.NewEngine(openOutput)
	defer func() {
		if err := engine.Close(); err != nil {
			slog.Warn("play: close audio", "err", err)
		}
	}()

	order := board.HighToLow
	if playOpts.lowHigh {
		order = board.LowToHigh
	}
	sess := session.New(session.Config{
		Resolver: newResolver(playOpts.api),
		Audio:    engine,
		Order:    order,
		BPM:      playOpts.bpm,
		Sound:    playOpts.sound,
	})
	defer sess.Close()

	slog.Info("play: starting", "api", playOpts.api, "bpm", playOpts.bpm, "midi_port", playOpts.midiPort)
	p := tea.NewProgram(tui.New(ctx, sess), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

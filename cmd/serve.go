package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/server"
	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", constants.GetListenAddr(), "listen address (env FRETBOARD_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the scale API, audio and the board page",
	Long: `Serves the scale lookup API (/api/scale, and the older /api/escala routes),
the shape catalog, synthesized WAV audio and a rendered board at /.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, serveAddr)
	},
}

func serve(ctx context.Context, addr string) error {
	s := server.New(nil, constants.SampleRate)
	return s.ListenAndServe(ctx, addr)
}

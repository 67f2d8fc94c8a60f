package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/scale"
	"github.com/spf13/cobra"
)

var scaleOpts struct {
	api     string
	shapeID string
	json    bool
}

func init() {
	addAPIFlag(scaleCmd, &scaleOpts.api)
	scaleCmd.Flags().StringVar(&scaleOpts.shapeID, "shape", "all", "shape id, see /api/shapes")
	scaleCmd.Flags().BoolVar(&scaleOpts.json, "json", false, "print the API payload instead of a table")
	rootCmd.AddCommand(scaleCmd)
}

var scaleCmd = &cobra.Command{
	Use:     "scale <root> <major|minor>",
	Short:   "Prints the positions of a key",
	Example: "  fretboard scale F# major --shape s2",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := parseScaleArgs(args, scaleOpts.shapeID)
		if err != nil {
			return err
		}
		res, err := newResolver(scaleOpts.api).Resolve(cmd.Context(), q)
		if err != nil {
			return err
		}
		if scaleOpts.json {
			return json.NewEncoder(os.Stdout).Encode(res.Response())
		}
		notes, err := scale.Notes(q.Root, q.Quality)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s: %s\n\n", q.Root, q.Quality, strings.Join(notes, " "))
		return printScale(os.Stdout, res)
	},
}

func parseScaleArgs(args []string, shapeID string) (scale.Query, error) {
	q, ok := model.ParseQuality(args[1])
	if !ok || q == model.QualityNone {
		return scale.Query{}, fmt.Errorf("%w: %q (want major or minor)", scale.ErrUnknownQuality, args[1])
	}
	return scale.Query{Root: scale.DecodeRoot(args[0]), Quality: q, ShapeID: shapeID}, nil
}

// printScale draws one line per string, high e on top, with the note name at
// every in-scale fret and roots in brackets.
func printScale(w io.Writer, res scale.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	header := []string{""}
	for f := 0; f <= constants.MaxFret; f++ {
		header = append(header, fmt.Sprint(f))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for s := constants.NumStrings - 1; s >= 0; s-- {
		cols := []string{constants.StringNames[s]}
		for f := 0; f <= constants.MaxFret; f++ {
			p := model.Position{String: s, Fret: f}
			cell := "."
			if res.InScale(p) {
				cell, _ = res.Name(p)
				if cell == "" {
					cell = "*"
				}
				if res.IsRoot(p) {
					cell = "[" + cell + "]"
				}
			}
			cols = append(cols, cell)
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t")+"\t")
	}
	return tw.Flush()
}

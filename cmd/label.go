package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/cartoview/polylabel/internal/ingest"
	"github.com/cartoview/polylabel/pkg/polylabel"
)

var (
	labelTolerance float64
	labelGeoJSON   bool
	labelSave      bool
)

var labelCmd = &cobra.Command{
	Use:   "label [file]",
	Short: "Compute poles of inaccessibility for GeoJSON polygons",
	Long:  "Reads a GeoJSON Polygon, Feature, or FeatureCollection from a file or stdin and prints the optimal label point for each polygon.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, source, err := readInput(args)
		if err != nil {
			return err
		}

		features, err := ingest.DecodeGeoJSON(data)
		if err != nil {
			return err
		}
		if len(features) == 0 {
			return eris.New("no polygon features in input")
		}

		tolerance := labelTolerance
		if tolerance == 0 {
			tolerance = cfg.Label.Tolerance
		}

		labels := make([]polylabel.Label, 0, len(features))
		for _, f := range features {
			label, err := polylabel.FindPole(f.Polygon, tolerance)
			if err != nil {
				return eris.Wrapf(err, "feature %s", f.Name)
			}
			labels = append(labels, label)
		}

		if labelSave {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			if err := saveLabels(cmd, st, source, features, labels, tolerance); err != nil {
				return err
			}
		}

		if labelGeoJSON {
			out, err := ingest.PointCollection(features, labels, tolerance)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		for i, l := range labels {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%g %g\t%g\n", features[i].Name, l.X, l.Y, l.Distance)
		}
		return nil
	},
}

func init() {
	labelCmd.Flags().Float64Var(&labelTolerance, "tolerance", 0, "search tolerance (0 = configured default)")
	labelCmd.Flags().BoolVar(&labelGeoJSON, "geojson", false, "emit a GeoJSON FeatureCollection of points")
	labelCmd.Flags().BoolVar(&labelSave, "save", false, "persist results to the label store")
	rootCmd.AddCommand(labelCmd)
}

// readInput returns the input bytes and a source name: the file argument
// if given, otherwise stdin.
func readInput(args []string) ([]byte, string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", eris.Wrap(err, "read stdin")
		}
		return data, "stdin", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", eris.Wrapf(err, "read %s", args[0])
	}
	return data, args[0], nil
}

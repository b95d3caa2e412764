package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cartoview/polylabel/internal/ingest"
	"github.com/cartoview/polylabel/pkg/polylabel"
)

var (
	batchTolerance  float64
	batchNameField  string
	batchOut        string
	batchSave       bool
	batchReplace    bool
	batchConcurrent int
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Compute poles for every polygon in a shapefile or GeoJSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		features, err := loadFeatures(args[0], batchNameField)
		if err != nil {
			return err
		}
		if len(features) == 0 {
			return eris.Errorf("no polygon features in %s", args[0])
		}

		tolerance := batchTolerance
		if tolerance == 0 {
			tolerance = cfg.Label.Tolerance
		}
		concurrency := batchConcurrent
		if concurrency <= 0 {
			concurrency = cfg.Batch.MaxConcurrent
		}

		labels, ok, err := computeLabels(ctx, features, tolerance, concurrency)
		if err != nil {
			return err
		}

		var outFeats []ingest.Feature
		var outLabels []polylabel.Label
		for i := range features {
			if ok[i] {
				outFeats = append(outFeats, features[i])
				outLabels = append(outLabels, labels[i])
			}
		}

		zap.L().Info("batch complete",
			zap.String("input", args[0]),
			zap.Int("labeled", len(outFeats)),
			zap.Int("skipped", len(features)-len(outFeats)),
		)

		if batchSave {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			if batchReplace {
				n, err := st.DeleteBySource(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if n > 0 {
					zap.L().Info("replaced stored labels", zap.String("source", args[0]), zap.Int("deleted", n))
				}
			}
			if err := saveLabels(cmd, st, args[0], outFeats, outLabels, tolerance); err != nil {
				return err
			}
		}

		if batchOut != "" {
			data, err := ingest.PointCollection(outFeats, outLabels, tolerance)
			if err != nil {
				return err
			}
			if err := os.WriteFile(batchOut, data, 0o644); err != nil {
				return eris.Wrapf(err, "write %s", batchOut)
			}
			return nil
		}

		for i, l := range outLabels {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%g %g\t%g\n", outFeats[i].Name, l.X, l.Y, l.Distance)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().Float64Var(&batchTolerance, "tolerance", 0, "search tolerance (0 = configured default)")
	batchCmd.Flags().StringVar(&batchNameField, "name-field", "NAME", "shapefile attribute used as the feature name")
	batchCmd.Flags().StringVar(&batchOut, "out", "", "write results to a GeoJSON file instead of stdout")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist results to the label store")
	batchCmd.Flags().BoolVar(&batchReplace, "replace", false, "drop previously stored labels from this source before saving")
	batchCmd.Flags().IntVar(&batchConcurrent, "concurrency", 0, "max concurrent searches (0 = configured default)")
	rootCmd.AddCommand(batchCmd)
}

// loadFeatures picks the reader by file extension: .shp goes through the
// shapefile reader, everything else is treated as GeoJSON.
func loadFeatures(path, nameField string) ([]ingest.Feature, error) {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return ingest.ReadShapefile(path, nameField)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	return ingest.DecodeGeoJSON(data)
}

// computeLabels runs the searches concurrently. Each search owns its own
// state and the distance computation is pure, so no coordination beyond
// the group limit is needed. Features the core rejects are logged and
// marked not-ok rather than failing the batch.
func computeLabels(ctx context.Context, features []ingest.Feature, tolerance float64, concurrency int) ([]polylabel.Label, []bool, error) {
	labels := make([]polylabel.Label, len(features))
	ok := make([]bool, len(features))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, f := range features {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			label, err := polylabel.FindPole(f.Polygon, tolerance)
			if err != nil {
				zap.L().Warn("skipping feature",
					zap.String("name", f.Name),
					zap.Error(err),
				)
				return nil
			}
			labels[i] = label
			ok[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, eris.Wrap(err, "batch interrupted")
	}
	return labels, ok, nil
}

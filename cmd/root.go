package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cartoview/polylabel/internal/config"
	"github.com/cartoview/polylabel/internal/ingest"
	"github.com/cartoview/polylabel/internal/store"
	"github.com/cartoview/polylabel/pkg/polylabel"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "polylabel",
	Short: "Pole-of-inaccessibility label placement",
	Long:  "Computes the interior point of a polygon farthest from every boundary edge, for placing labels and markers clear of boundary-hugging features.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// openStore opens and migrates the configured label store.
func openStore(cmd *cobra.Command) (*store.SQLiteStore, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// saveLabels persists one record per computed label, tagged with the
// input source.
func saveLabels(cmd *cobra.Command, st *store.SQLiteStore, source string, features []ingest.Feature, labels []polylabel.Label, tolerance float64) error {
	for i, l := range labels {
		_, err := st.SaveLabel(cmd.Context(), store.LabelRecord{
			Name:      features[i].Name,
			Source:    source,
			X:         l.X,
			Y:         l.Y,
			Distance:  l.Distance,
			Tolerance: tolerance,
		})
		if err != nil {
			return err
		}
	}
	zap.L().Info("saved labels", zap.String("source", source), zap.Int("count", len(labels)))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

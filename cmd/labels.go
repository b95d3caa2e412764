package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cartoview/polylabel/internal/store"
)

var (
	labelsSource string
	labelsLimit  int
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List stored label results",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		recs, err := st.ListLabels(cmd.Context(), labelsSource, labelsLimit)
		if err != nil {
			return err
		}

		if len(recs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no labels stored")
			return nil
		}
		for _, rec := range recs {
			printLabel(cmd, rec)
		}
		return nil
	},
}

func printLabel(cmd *cobra.Command, rec store.LabelRecord) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%g %g\t%g\t%s\n",
		rec.Name, rec.Source, rec.X, rec.Y, rec.Distance,
		rec.CreatedAt.Format("2006-01-02 15:04:05"),
	)
}

func init() {
	labelsCmd.Flags().StringVar(&labelsSource, "source", "", "filter by input source")
	labelsCmd.Flags().IntVar(&labelsLimit, "limit", 50, "max results to list")
	rootCmd.AddCommand(labelsCmd)
}

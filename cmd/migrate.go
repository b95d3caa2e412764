package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the label store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		zap.L().Info("store migrated", zap.String("path", cfg.Store.Path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ysiton/shekelwise/internal/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fmt.Printf("database at %s is up to date\n", cfg.DatabasePath)
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func retrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retrain",
		Short: "Rebuild the learning signatures from transaction history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer svc.close()

			processed, err := svc.learner.Learn(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("learned from %d transactions: %d categories, %d keywords\n",
				processed, svc.learner.CategoriesLearned(), svc.learner.KeywordCount())
			return nil
		},
	}
}

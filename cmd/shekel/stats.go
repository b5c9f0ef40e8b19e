package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals and confidence distribution",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer svc.close()

			stats, err := svc.store.Stats(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "transactions\t%d\n", stats.TotalTransactions)
			fmt.Fprintf(w, "total amount\t%.2f ILS\n", stats.TotalAmount)
			fmt.Fprintf(w, "categories\t%d\n", stats.TotalCategories)
			fmt.Fprintf(w, "known businesses\t%d\n", stats.KnownBusinesses)
			fmt.Fprintf(w, "processed files\t%d\n", stats.ProcessedFiles)
			fmt.Fprintf(w, "high confidence\t%d\n", stats.HighConfidence)
			fmt.Fprintf(w, "medium confidence\t%d\n", stats.MediumConfidence)
			fmt.Fprintf(w, "low confidence\t%d\n", stats.LowConfidence)
			return w.Flush()
		},
	}
}

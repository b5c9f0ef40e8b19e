package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func businessesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "businesses",
		Short: "Manage known business categorizations",
	}

	cmd.AddCommand(approveBusinessCmd())
	cmd.AddCommand(similarBusinessesCmd())

	return cmd
}

func approveBusinessCmd() *cobra.Command {
	var noPropagate bool

	cmd := &cobra.Command{
		Use:   "approve <business> <category>",
		Short: "Pin a business to a category",
		Long: `Record a manual category assignment for a business. All historical
transactions with that business are recategorized, the learning engine is
retrained on the correction, and similar business names receive the same
category unless --no-propagate is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			business, categoryName := args[0], args[1]

			svc, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer svc.close()

			categoryID, ok := svc.pipeline.Catalog().CategoryID(categoryName)
			if !ok {
				return fmt.Errorf("unknown category: %s", categoryName)
			}

			updated, err := svc.pipeline.Approve(ctx, business, categoryID)
			if err != nil {
				return fmt.Errorf("failed to approve business: %w", err)
			}
			svc.learner.RetrainOnCorrection(business, "", categoryName)

			propagated := 0
			if !noPropagate {
				propagated, err = svc.propagator.Propagate(ctx, business, categoryID, svc.cfg.AI.SimilarityThreshold)
				if err != nil {
					return fmt.Errorf("failed to propagate category: %w", err)
				}
			}

			fmt.Printf("%q pinned to %q: %d transactions updated, %d similar businesses propagated\n",
				business, categoryName, updated, propagated)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noPropagate, "no-propagate", false, "do not spread the category to similar business names")
	return cmd
}

func similarBusinessesCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "similar <business>",
		Short: "Find known businesses with similar names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer svc.close()

			if threshold == 0 {
				threshold = svc.cfg.AI.SimilarityThreshold
			}
			matches, err := svc.propagator.FindSimilar(ctx, args[0], threshold)
			if err != nil {
				return err
			}

			if len(matches) == 0 {
				fmt.Println("no similar businesses found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "BUSINESS\tCATEGORY\tSIMILARITY")
			for _, m := range matches {
				fmt.Fprintf(w, "%s\t%s\t%.2f\n",
					m.Name, svc.pipeline.Catalog().CategoryName(m.CategoryID), m.Similarity)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0, "similarity threshold (default: ai.similarity_threshold from config)")
	return cmd
}

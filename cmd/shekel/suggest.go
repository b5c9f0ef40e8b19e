package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func suggestCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest better categories for low-confidence transactions",
		Long: `Rebuild the learning signatures from history, then re-score transactions
that were categorized with low confidence and list the ones the learner
would place elsewhere.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer svc.close()

			if _, err := svc.learner.Learn(ctx); err != nil {
				return err
			}

			if limit == 0 {
				limit = svc.cfg.AI.SuggestionLimit
			}
			suggestions, err := svc.learner.ImprovementSuggestions(ctx, limit)
			if err != nil {
				return err
			}

			if len(suggestions) == 0 {
				fmt.Println("no improvement suggestions")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tBUSINESS\tAMOUNT\tCURRENT\tSUGGESTED\tCONFIDENCE")
			for _, s := range suggestions {
				fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\t%.2f\n",
					s.TransactionID, s.Business, s.Amount,
					s.CurrentCategory, s.SuggestedCategory, s.Confidence)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum suggestions (default: ai.suggestion_limit from config)")
	return cmd
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ysiton/shekelwise/internal/config"
	"github.com/ysiton/shekelwise/internal/engine"
	"github.com/ysiton/shekelwise/internal/statement"
)

func importCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import credit-card statement spreadsheets",
		Long: `Parse statement xlsx files, categorize their transactions and save them.
Files already imported (by content hash) are skipped. With --dir, every
statement in the directory is imported instead of explicit files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer svc.close()

			paths := args
			if len(paths) == 0 {
				statementsDir := svc.cfg.StatementsDir
				if dir != "" {
					statementsDir = config.ExpandPath(dir)
				}
				paths, err = engine.DiscoverStatements(statementsDir)
				if err != nil {
					return err
				}
			}

			e := engine.New(svc.store, statement.NewParser(), svc.pipeline)
			summary, err := e.ProcessFiles(ctx, paths)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tSAVED\tSKIPPED ROWS\tSTATUS")
			for _, report := range summary.Files {
				status := "imported"
				switch {
				case report.Error != nil:
					status = "failed: " + report.Error.Error()
				case report.AlreadyProcessed:
					status = "already imported"
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", report.Filename, report.Saved, report.Skipped, status)
			}
			_ = w.Flush()

			fmt.Printf("\n%d/%d files imported, %d transactions saved\n",
				summary.SucceededFiles, summary.TotalFiles, summary.TotalTransactions)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory of statements (default: statements.dir from config)")
	return cmd
}

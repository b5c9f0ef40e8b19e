package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ysiton/shekelwise/internal/api"
)

func serveCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the categorization API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer svc.close()

			// Warm the learner so the first suggestion request has signatures.
			if _, err := svc.learner.Learn(ctx); err != nil {
				slog.Warn("initial learning pass failed", "error", err)
			}

			server := api.NewServer(svc.store, svc.pipeline, svc.learner, svc.propagator, api.Config{
				SimilarityThreshold: svc.cfg.AI.SimilarityThreshold,
				SuggestionLimit:     svc.cfg.AI.SuggestionLimit,
			})

			addr := listen
			if addr == "" {
				addr = svc.cfg.ListenAddr
			}

			go func() {
				<-ctx.Done()
				if err := server.Shutdown(); err != nil {
					slog.Error("failed to shut down API server", "error", err)
				}
			}()

			return server.Listen(addr)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default: api.listen from config)")
	return cmd
}

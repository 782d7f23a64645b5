package cli

import (
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API server is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			var health HealthResult
			if err := client.Get("/api/v1/health", &health); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(health)
			return nil
		},
	}
}

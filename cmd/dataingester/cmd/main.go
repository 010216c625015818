package cmd

import (
	"github.com/spf13/cobra"

	"github.com/langeval/data-ingestion/internal/ingester"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the ingester",
		RunE:  runIngester,
	}
	return cmd
}

func runIngester(_ *cobra.Command, _ []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	return ingester.Run(config)
}

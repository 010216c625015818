package cmd

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
	"github.com/langeval/data-ingestion/internal/ingester"
)

func migrateDbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrateDatabase",
		Short: "creates or updates the traces table in the configured store",
		RunE:  migrateDatabase,
	}
	return cmd
}

func migrateDatabase(_ *cobra.Command, _ []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	start := time.Now()
	log.Infof("Beginning %s migration", config.Store)
	ctx, cancel := appcontext.WithTimeout(appcontext.Background(), 5*time.Minute)
	defer cancel()
	if err := ingester.MigrateDatabase(ctx, config); err != nil {
		return errors.WithMessagef(err, "failed to migrate %s", config.Store)
	}
	taken := time.Since(start)
	log.Infof("%s migrated in %s", config.Store, taken)
	return nil
}

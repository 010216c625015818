package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	commonconfig "github.com/langeval/data-ingestion/internal/common/config"
	"github.com/langeval/data-ingestion/internal/common/logging"
	"github.com/langeval/data-ingestion/internal/ingester/configuration"
)

const (
	CustomConfigLocation string = "config"
	defaultConfigPath    string = "./config/dataingester"
)

// envBindings lets the environment variables understood by earlier deployments of the service override the
// corresponding config keys.
var envBindings = map[string]string{
	"kafka.brokers":       "KAFKA_BOOTSTRAP_SERVERS",
	"kafka.groupId":       "KAFKA_GROUP_INGESTION",
	"kafka.topic":         "KAFKA_TOPIC_TRACES",
	"deadLetter.path":     "DLQ_PATH",
	"clickhouse.addr":     "CLICKHOUSE_URL",
	"clickhouse.username": "CLICKHOUSE_USER",
	"clickhouse.password": "CLICKHOUSE_PASSWORD",
	"clickhouse.database": "CLICKHOUSE_DB",
}

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "dataingester",
		SilenceUsage: true,
		Short:        "Moves trace records from the message queue into the analytical store",
	}

	cmd.PersistentFlags().StringSlice(
		CustomConfigLocation,
		[]string{},
		"Fully qualified path to application configuration file (for multiple config files repeat this arg or separate paths with commas)")
	commonconfig.BindCommandlineArguments(cmd.PersistentFlags())

	cmd.AddCommand(
		runCmd(),
		migrateDbCmd(),
	)

	return cmd
}

func loadConfig() (*configuration.IngesterConfiguration, error) {
	var config configuration.IngesterConfiguration
	userSpecifiedConfigs := viper.GetStringSlice(CustomConfigLocation)

	if err := commonconfig.LoadConfig(&config, defaultConfigPath, userSpecifiedConfigs, envBindings); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		commonconfig.LogValidationErrors(err)
		return nil, err
	}

	if err := logging.ConfigureFromConfig(config.Logging); err != nil {
		return nil, err
	}
	return &config, nil
}

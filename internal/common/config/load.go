package config

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BindCommandlineArguments makes the supplied flags visible through the global viper instance.
func BindCommandlineArguments(flags *pflag.FlagSet) {
	err := viper.BindPFlags(flags)
	if err != nil {
		log.Error(err)
	}
}

// LoadConfig populates config from, in increasing order of precedence:
//   - config.yaml under defaultPath
//   - each of the user specified config files, merged in order
//   - environment variables: every key can be overridden by its upper-cased path with dots replaced by
//     underscores (e.g. BATCHSIZE, KAFKA_TOPIC), and envBindings maps further config keys to
//     additional variable names.
func LoadConfig(config interface{}, defaultPath string, overrideConfigs []string, envBindings map[string]string) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(defaultPath)
	if err := v.ReadInConfig(); err != nil {
		return errors.WithMessagef(err, "could not read default config from %s", defaultPath)
	}
	log.Infof("Read base config from %s", v.ConfigFileUsed())

	for _, overrideConfig := range overrideConfigs {
		v.SetConfigFile(overrideConfig)
		if err := v.MergeInConfig(); err != nil {
			return errors.WithMessagef(err, "could not merge config from %s", overrideConfig)
		}
		log.Infof("Merged config from %s", overrideConfig)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envVar := range envBindings {
		if err := v.BindEnv(key, envVar); err != nil {
			return errors.WithMessagef(err, "could not bind %s to %s", envVar, key)
		}
	}

	if err := v.Unmarshal(config, CustomHooks...); err != nil {
		return errors.WithMessage(err, "could not decode config")
	}
	return nil
}

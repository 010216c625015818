package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/weaveworks/promrus"
)

const (
	FormatText = "text"
	FormatJson = "json"
)

// Config defines logging configuration.
type Config struct {
	// Log level, e.g. info, error etc
	Level string `validate:"required"`
	// Logging format, either text or json
	Format string `validate:"required,oneof=text json"`
	// Whether to count log lines by level in prometheus
	CountLogLines bool
}

// ConfigureLogging sets up logrus with sensible defaults so that anything logged before the
// configuration has been loaded is still readable.
func ConfigureLogging() {
	log.SetFormatter(&log.TextFormatter{ForceColors: true, FullTimestamp: true})
	log.SetOutput(os.Stdout)
}

// ConfigureFromConfig applies the supplied logging configuration to the standard logger.
func ConfigureFromConfig(config Config) error {
	return configure(log.StandardLogger(), os.Stdout, config)
}

func configure(logger *log.Logger, out io.Writer, config Config) error {
	level, err := log.ParseLevel(config.Level)
	if err != nil {
		return errors.WithMessagef(err, "invalid log level %q", config.Level)
	}
	switch strings.ToLower(config.Format) {
	case FormatText:
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case FormatJson:
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return errors.Errorf("unknown log format: %s.  Valid formats are %s and %s", config.Format, FormatText, FormatJson)
	}
	logger.SetLevel(level)
	logger.SetOutput(out)

	if config.CountLogLines {
		hook, err := promrus.NewPrometheusHook()
		if err != nil {
			return errors.WithMessage(err, "could not register prometheus log hook")
		}
		logger.AddHook(hook)
	}
	return nil
}

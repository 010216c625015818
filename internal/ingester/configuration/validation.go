package configuration

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// identifierRegex matches table and schema.table names that are safe to interpolate into an insert statement.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func newValidator() *validator.Validate {
	validate := validator.New()
	// registering a static regex can't fail
	_ = validate.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return identifierRegex.MatchString(fl.Field().String())
	})
	return validate
}

// Validate checks the top level settings and the settings of the selected broker, store and dead-letter
// sink. Settings of components that are not selected are ignored.
func (c IngesterConfiguration) Validate() error {
	validate := newValidator()
	if err := validate.Struct(c); err != nil {
		return err
	}

	switch c.Broker {
	case BrokerKafka:
		if err := validate.Struct(c.Kafka); err != nil {
			return err
		}
	case BrokerPulsar:
		if err := validate.Struct(c.Pulsar); err != nil {
			return err
		}
	}

	switch c.Store {
	case StoreClickHouse:
		if err := validate.Struct(c.ClickHouse); err != nil {
			return err
		}
	case StorePostgres:
		if err := validate.Struct(c.Postgres); err != nil {
			return err
		}
	}

	switch c.DeadLetter.Type {
	case DeadLetterFile:
		if c.DeadLetter.Path == "" {
			return errors.New("deadLetter.path is required when deadLetter.type is file")
		}
	case DeadLetterRedis:
		if c.DeadLetter.Key == "" {
			return errors.New("deadLetter.key is required when deadLetter.type is redis")
		}
		if err := validate.Struct(c.DeadLetter.Redis); err != nil {
			return err
		}
	}
	return nil
}

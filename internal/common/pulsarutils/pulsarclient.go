package pulsarutils

import (
	"strings"

	"github.com/apache/pulsar-client-go/pulsar"
	pulsarlog "github.com/apache/pulsar-client-go/pulsar/log"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	commonconfig "github.com/langeval/data-ingestion/internal/common/config"
	"github.com/langeval/data-ingestion/internal/common/ingesterrors"
)

// NewPulsarClient creates a client for the configured broker. The client logs through logrus.
func NewPulsarClient(config *commonconfig.PulsarConfig) (pulsar.Client, error) {
	auth, err := authentication(config)
	if err != nil {
		return nil, err
	}
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL:                        config.URL,
		TLSTrustCertsFilePath:      config.TLSTrustCertsFilePath,
		TLSValidateHostname:        config.TLSValidateHostname,
		TLSAllowInsecureConnection: config.TLSAllowInsecureConnection,
		MaxConnectionsPerBroker:    config.MaxConnectionsPerBroker,
		OperationTimeout:           config.OperationTimeout,
		Authentication:             auth,
		Logger:                     pulsarlog.NewLoggerWithLogrus(log.StandardLogger()),
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "could not create pulsar client for %s", config.URL)
	}
	return client, nil
}

// authentication returns nil when authentication is disabled. Only JWT read from a file is supported.
func authentication(config *commonconfig.PulsarConfig) (pulsar.Authentication, error) {
	if !config.AuthenticationEnabled {
		return nil, nil
	}
	if !strings.EqualFold(config.AuthenticationType, "jwt") {
		return nil, errors.WithStack(&ingesterrors.ErrInvalidArgument{
			Name:    "pulsar.AuthenticationType",
			Value:   config.AuthenticationType,
			Message: "only jwt is supported",
		})
	}
	if strings.TrimSpace(config.JwtTokenPath) == "" {
		return nil, errors.WithStack(&ingesterrors.ErrInvalidArgument{
			Name:    "pulsar.JwtTokenPath",
			Value:   config.JwtTokenPath,
			Message: "a token path is required when jwt authentication is enabled",
		})
	}
	return pulsar.NewAuthenticationTokenFromFile(config.JwtTokenPath), nil
}

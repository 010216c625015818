package config

import (
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
)

type PulsarConfig struct {
	// Pulsar URL
	URL string `validate:"required"`
	// Path to the trusted TLS certificate file (must exist)
	TLSTrustCertsFilePath string
	// Whether Pulsar client accept untrusted TLS certificate from broker
	TLSAllowInsecureConnection bool
	// Whether the Pulsar client will validate the hostname in the broker's TLS Cert matches the actual hostname.
	TLSValidateHostname bool
	// Max number of connections to a single broker that will be kept in the pool. (Default: 1 connection)
	MaxConnectionsPerBroker int
	// Whether Pulsar authentication is enabled
	AuthenticationEnabled bool
	// Authentication type. For now only "JWT" auth is valid
	AuthenticationType string
	// Path to the JWT token (must exist). This must be set if AuthenticationType is "JWT"
	JwtTokenPath string
	// Topic carrying the records to ingest
	Topic string `validate:"required"`
	// Name of the subscription used by the ingester
	SubscriptionName string `validate:"required"`
	// Subscription type, one of failover, exclusive, shared or keyShared
	SubscriptionType pulsar.SubscriptionType
	// Size of the pulsar consumer's receive queue
	ReceiverQueueSize int
	// Timeout applied when creating the client connection
	OperationTimeout time.Duration
	// Where a new subscription starts, earliest or latest. Defaults to latest
	StartOffset string `validate:"omitempty,oneof=earliest latest"`
}

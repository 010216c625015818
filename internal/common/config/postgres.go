package config

import "time"

type PostgresConfig struct {
	MaxOpenConns    int32
	MinIdleConns    int32
	ConnMaxLifetime time.Duration
	// libpq connection parameters, e.g. host, port, user, password, dbname, sslmode
	Connection map[string]string `validate:"required"`
}

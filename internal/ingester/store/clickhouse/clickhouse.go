package clickhouse

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/pkg/errors"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
)

type Config struct {
	// host:port of the native interface, or an http(s):// url to use the http interface
	Addr        string `validate:"required"`
	Database    string `validate:"required"`
	Username    string
	Password    string
	DialTimeout time.Duration
}

func options(config Config) (*clickhouse.Options, error) {
	addr, protocol, err := parseAddr(config.Addr)
	if err != nil {
		return nil, err
	}
	dialTimeout := config.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	return &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: protocol,
		Auth: clickhouse.Auth{
			Database: config.Database,
			Username: config.Username,
			Password: config.Password,
		},
		DialTimeout: dialTimeout,
		Compression: &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
	}, nil
}

func parseAddr(addr string) (string, clickhouse.Protocol, error) {
	if !strings.Contains(addr, "://") {
		return addr, clickhouse.Native, nil
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", clickhouse.Native, errors.WithMessagef(err, "invalid clickhouse address %s", addr)
	}
	switch u.Scheme {
	case "http", "https":
		return u.Host, clickhouse.HTTP, nil
	case "clickhouse", "tcp":
		return u.Host, clickhouse.Native, nil
	default:
		return "", clickhouse.Native, errors.Errorf("unsupported clickhouse scheme %s in %s", u.Scheme, addr)
	}
}

// OpenClickHouse creates a connection pool. clickhouse-go dials on first use, so nothing here blocks on the
// server being up.
func OpenClickHouse(ctx *appcontext.Context, config Config) (clickhouse.Conn, error) {
	opts, err := options(config)
	if err != nil {
		return nil, err
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, errors.WithMessagef(err, "could not create clickhouse client for %s", config.Addr)
	}
	ctx.Log.Infof("Writing to clickhouse at %s, database %s", config.Addr, config.Database)
	return conn, nil
}

// OpenDB returns a database/sql handle, which is what schema migrations need.
func OpenDB(config Config) (*sql.DB, error) {
	opts, err := options(config)
	if err != nil {
		return nil, err
	}
	return clickhouse.OpenDB(opts), nil
}

func insertQuery(table string, columns []string) string {
	return fmt.Sprintf("INSERT INTO %s (%s)", table, strings.Join(columns, ", "))
}

package ingester

import (
	"database/sql"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pkg/errors"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
	"github.com/langeval/data-ingestion/internal/common/database"
	"github.com/langeval/data-ingestion/internal/common/util"
	"github.com/langeval/data-ingestion/internal/ingester/configuration"
	"github.com/langeval/data-ingestion/internal/ingester/store/clickhouse"
	"github.com/langeval/data-ingestion/internal/ingester/store/migrate"
)

// MigrateDatabase creates or updates the schema of the configured store.
func MigrateDatabase(ctx *appcontext.Context, config *configuration.IngesterConfiguration) error {
	var (
		db      *sql.DB
		dialect string
		err     error
	)
	switch config.Store {
	case configuration.StoreClickHouse:
		dialect = migrate.DialectClickHouse
		db, err = clickhouse.OpenDB(config.ClickHouse)
	case configuration.StorePostgres:
		dialect = migrate.DialectPostgres
		db, err = sql.Open("pgx", database.CreateConnectionString(config.Postgres.Connection))
	default:
		return errors.Errorf("unknown store %s", config.Store)
	}
	if err != nil {
		return errors.WithMessagef(err, "could not open %s", config.Store)
	}
	defer util.CloseResource(config.Store, db)

	if err := db.PingContext(ctx); err != nil {
		return errors.WithMessagef(err, "could not reach %s", config.Store)
	}
	return migrate.Migrate(ctx, db, dialect)
}

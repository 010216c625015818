package migrate

import (
	"database/sql"
	"embed"
	"io/fs"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
)

//go:embed migrations/clickhouse/*.sql migrations/postgres/*.sql
var embeddedMigrations embed.FS

const (
	DialectClickHouse = "clickhouse"
	DialectPostgres   = "postgres"
)

func migrationDir(dialect string) (string, error) {
	switch dialect {
	case DialectClickHouse:
		return "migrations/clickhouse", nil
	case DialectPostgres:
		return "migrations/postgres", nil
	default:
		return "", errors.Errorf("no migrations for dialect %s", dialect)
	}
}

// Migrations lists the embedded migration files for dialect, in the order they are applied.
func Migrations(dialect string) ([]string, error) {
	dir, err := migrationDir(dialect)
	if err != nil {
		return nil, err
	}
	return fs.Glob(embeddedMigrations, dir+"/*.sql")
}

// Migrate brings the schema of db up to the latest embedded version.
func Migrate(ctx *appcontext.Context, db *sql.DB, dialect string) error {
	dir, err := migrationDir(dialect)
	if err != nil {
		return err
	}

	goose.SetBaseFS(embeddedMigrations)
	goose.SetLogger(ctx.Log)
	if err := goose.SetDialect(dialect); err != nil {
		return errors.WithMessage(err, "failed to set goose dialect")
	}

	if err := goose.UpContext(ctx, db, dir); err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
		return errors.WithMessagef(err, "failed to run %s migrations", dialect)
	}

	ctx.Log.Infof("%s migrations completed successfully", dialect)
	return nil
}

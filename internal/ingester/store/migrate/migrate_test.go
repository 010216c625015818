package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
)

func TestMigrations(t *testing.T) {
	for _, dialect := range []string{DialectClickHouse, DialectPostgres} {
		t.Run(dialect, func(t *testing.T) {
			files, err := Migrations(dialect)
			require.NoError(t, err)
			require.NotEmpty(t, files)

			contents, err := embeddedMigrations.ReadFile(files[0])
			require.NoError(t, err)
			assert.Contains(t, string(contents), "-- +goose Up")
			assert.Contains(t, string(contents), "CREATE TABLE IF NOT EXISTS traces")
		})
	}
}

func TestMigrate_UnknownDialect(t *testing.T) {
	err := Migrate(appcontext.Background(), nil, "mysql")
	assert.Error(t, err)

	_, err = Migrations("mysql")
	assert.Error(t, err)
}

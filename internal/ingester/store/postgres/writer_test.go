package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
	"github.com/langeval/data-ingestion/internal/ingester/model"
)

var testRecords = []model.Record{
	{Id: "1", CampaignId: "unknown", Service: "ingestion", Event: "trace", Timestamp: 1709305445, Payload: "a"},
	{Id: "2", CampaignId: "unknown", Service: "ingestion", Event: "trace", Timestamp: 1709305446, Payload: "b"},
}

type mockCopier struct {
	table   pgx.Identifier
	columns []string
	rows    [][]interface{}
	// if set, only this many rows are reported as copied
	copied *int64
	err    error
	calls  int
}

func (c *mockCopier) CopyFrom(_ context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	c.calls++
	c.table = tableName
	c.columns = columnNames
	if c.err != nil {
		return 0, c.err
	}
	for rowSrc.Next() {
		values, err := rowSrc.Values()
		if err != nil {
			return 0, err
		}
		c.rows = append(c.rows, values)
	}
	if c.copied != nil {
		return *c.copied, nil
	}
	return int64(len(c.rows)), nil
}

func TestWriteBatch(t *testing.T) {
	db := &mockCopier{}
	err := NewWriter(db).WriteBatch(appcontext.Background(), "public.traces", testRecords)
	require.NoError(t, err)

	assert.Equal(t, pgx.Identifier{"public", "traces"}, db.table)
	assert.Equal(t, model.Columns, db.columns)
	assert.Equal(t, [][]interface{}{
		{"1", "unknown", "ingestion", "trace", int64(1709305445), "a"},
		{"2", "unknown", "ingestion", "trace", int64(1709305446), "b"},
	}, db.rows)
}

func TestWriteBatch_Empty(t *testing.T) {
	db := &mockCopier{}
	require.NoError(t, NewWriter(db).WriteBatch(appcontext.Background(), "traces", nil))
	assert.Equal(t, 0, db.calls)
}

func TestWriteBatch_CopyFails(t *testing.T) {
	expected := errors.New("relation does not exist")
	db := &mockCopier{err: expected}
	err := NewWriter(db).WriteBatch(appcontext.Background(), "traces", testRecords)
	assert.ErrorIs(t, err, expected)
}

func TestWriteBatch_PartialCopy(t *testing.T) {
	copied := int64(1)
	db := &mockCopier{copied: &copied}
	err := NewWriter(db).WriteBatch(appcontext.Background(), "traces", testRecords)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only 1 out of 2 rows")
}

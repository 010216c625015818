package clickhouse

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/pkg/errors"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
	"github.com/langeval/data-ingestion/internal/ingester/model"
)

// batchPreparer is the part of clickhouse.Conn the writer uses.
type batchPreparer interface {
	PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error)
}

// Writer sends each batch of records as a single native insert.
type Writer struct {
	conn batchPreparer
}

func NewWriter(conn batchPreparer) *Writer {
	return &Writer{conn: conn}
}

func (w *Writer) WriteBatch(ctx *appcontext.Context, table string, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := w.conn.PrepareBatch(ctx, insertQuery(table, model.Columns))
	if err != nil {
		return errors.WithMessagef(err, "prepare batch for %s failed", table)
	}

	for i := range records {
		if err := batch.AppendStruct(&records[i]); err != nil {
			if abortErr := batch.Abort(); abortErr != nil {
				ctx.Log.WithError(abortErr).Warnf("Failed to abort batch for %s", table)
			}
			return errors.WithMessagef(err, "appending record %s to %s failed", records[i].Id, table)
		}
	}

	if err := batch.Send(); err != nil {
		return errors.WithMessagef(err, "sending batch of %d records to %s failed", len(records), table)
	}
	return nil
}

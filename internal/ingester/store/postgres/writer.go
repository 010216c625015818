package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/pkg/errors"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
	"github.com/langeval/data-ingestion/internal/ingester/model"
)

// copier is the part of *pgxpool.Pool the writer uses.
type copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Writer loads each batch with the postgres COPY protocol, which is a single statement regardless of batch size.
type Writer struct {
	db copier
}

func NewWriter(db copier) *Writer {
	return &Writer{db: db}
}

func (w *Writer) WriteBatch(ctx *appcontext.Context, table string, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}
	n, err := w.db.CopyFrom(ctx,
		pgx.Identifier(strings.Split(table, ".")),
		model.Columns,
		pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
			return records[i].Values(), nil
		}),
	)
	if err != nil {
		return errors.WithMessagef(err, "copying %d records into %s failed", len(records), table)
	}
	if n != int64(len(records)) {
		return errors.Errorf("only %d out of %d rows were inserted into %s", n, len(records), table)
	}
	return nil
}

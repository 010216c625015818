package store

import (
	"github.com/langeval/data-ingestion/internal/common/appcontext"
	"github.com/langeval/data-ingestion/internal/ingester/model"
)

// Writer persists a batch of records as one bulk write. Implementations do not retry, and a failed write may
// have been partially applied.
type Writer interface {
	WriteBatch(ctx *appcontext.Context, table string, records []model.Record) error
}

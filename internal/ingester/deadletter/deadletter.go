package deadletter

import (
	"time"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
	"github.com/langeval/data-ingestion/internal/ingester/model"
)

// Batch is a batch of records that could not be written to the store.
type Batch struct {
	Id       string
	Table    string
	Records  []model.Record
	Cause    error
	FailedAt time.Time
}

// Sink takes ownership of batches the store rejected. An error means the records are lost.
type Sink interface {
	Name() string
	Accept(ctx *appcontext.Context, batch Batch) error
}

// entry is how a single dead-lettered record is serialised.
type entry struct {
	BatchId  string       `json:"batch_id"`
	Table    string       `json:"table"`
	Error    string       `json:"error"`
	FailedAt time.Time    `json:"failed_at"`
	Record   model.Record `json:"record"`
}

func entries(batch Batch) []entry {
	cause := ""
	if batch.Cause != nil {
		cause = batch.Cause.Error()
	}
	result := make([]entry, len(batch.Records))
	for i, record := range batch.Records {
		result[i] = entry{
			BatchId:  batch.Id,
			Table:    batch.Table,
			Error:    cause,
			FailedAt: batch.FailedAt,
			Record:   record,
		}
	}
	return result
}

// Discard logs and drops the batch.
type Discard struct{}

func (Discard) Name() string {
	return "discard"
}

func (Discard) Accept(ctx *appcontext.Context, batch Batch) error {
	ctx.Log.
		WithField("batchId", batch.Id).
		WithField("table", batch.Table).
		Warnf("Dropping %d records that could not be written", len(batch.Records))
	return nil
}

package convert

import (
	"bytes"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/utils/clock"

	"github.com/langeval/data-ingestion/internal/ingester/model"
	"github.com/langeval/data-ingestion/internal/ingester/queue"
)

// Converter turns a message received from the broker into a record that can be stored.
type Converter interface {
	Convert(msg *queue.Message) (model.Record, error)
}

type Config struct {
	CampaignId string `validate:"required"`
	Service    string `validate:"required"`
	Event      string `validate:"required"`
	// Reject payloads containing NUL bytes. Always set when writing to postgres, whose text type cannot hold them
	RejectNul bool
}

// RecordConverter stores the payload untouched and fills every other column with fixed tags, a fresh uuid and
// the time of ingestion. The payload is never parsed.
type RecordConverter struct {
	config Config
	clock  clock.PassiveClock
	newId  func() string
}

func NewRecordConverter(config Config, clock clock.PassiveClock) *RecordConverter {
	return &RecordConverter{
		config: config,
		clock:  clock,
		newId:  uuid.NewString,
	}
}

func (rc *RecordConverter) Convert(msg *queue.Message) (model.Record, error) {
	if msg == nil {
		return model.Record{}, errors.New("cannot convert nil message")
	}
	if !utf8.Valid(msg.Payload) {
		return model.Record{}, errors.Errorf("payload of %d bytes from topic %s is not valid utf-8", len(msg.Payload), msg.Topic)
	}
	if rc.config.RejectNul && bytes.IndexByte(msg.Payload, 0) >= 0 {
		return model.Record{}, errors.Errorf("payload of %d bytes from topic %s contains a NUL byte", len(msg.Payload), msg.Topic)
	}
	return model.Record{
		Id:         rc.newId(),
		CampaignId: rc.config.CampaignId,
		Service:    rc.config.Service,
		Event:      rc.config.Event,
		Timestamp:  rc.clock.Now().Unix(),
		Payload:    string(msg.Payload),
	}, nil
}

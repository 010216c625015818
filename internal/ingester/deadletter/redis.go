package deadletter

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
	"github.com/langeval/data-ingestion/internal/common/util"
)

const redisPushChunkSize = 500

// RedisSink pushes one JSON document per record onto a redis list. The list is trimmed to its newest
// maxEntries elements after every batch; zero means unbounded.
type RedisSink struct {
	db         redis.UniversalClient
	key        string
	maxEntries int64
}

func NewRedisSink(db redis.UniversalClient, key string, maxEntries int64) *RedisSink {
	return &RedisSink{
		db:         db,
		key:        key,
		maxEntries: maxEntries,
	}
}

func (s *RedisSink) Name() string {
	return "redis"
}

func (s *RedisSink) Accept(ctx *appcontext.Context, batch Batch) error {
	values := make([]interface{}, 0, len(batch.Records))
	for _, e := range entries(batch) {
		data, err := json.Marshal(e)
		if err != nil {
			return errors.WithMessagef(err, "failed to encode record %s", e.Record.Id)
		}
		values = append(values, data)
	}

	_, err := s.db.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, chunk := range util.Batch(values, redisPushChunkSize) {
			pipe.RPush(ctx, s.key, chunk...)
		}
		if s.maxEntries > 0 {
			pipe.LTrim(ctx, s.key, -s.maxEntries, -1)
		}
		return nil
	})
	if err != nil {
		return errors.WithMessagef(err, "failed to push %d records to %s", len(values), s.key)
	}
	return nil
}

package deadletter

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
)

// FileSink appends one JSON line per record to a file.
type FileSink struct {
	path string
	mu   sync.Mutex
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Name() string {
	return "file"
}

func (s *FileSink) Accept(ctx *appcontext.Context, batch Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.WithStack(err)
	}
	w := bufio.NewWriter(f)
	encoder := json.NewEncoder(w)
	for _, e := range entries(batch) {
		if err := encoder.Encode(e); err != nil {
			_ = f.Close()
			return errors.WithMessagef(err, "failed to encode record %s", e.Record.Id)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return errors.WithMessagef(err, "failed to write to %s", s.path)
	}
	if err := f.Close(); err != nil {
		return errors.WithStack(err)
	}
	ctx.Log.Infof("Wrote %d records of batch %s to %s", len(batch.Records), batch.Id, s.path)
	return nil
}

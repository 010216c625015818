package util

import (
	"github.com/langeval/data-ingestion/internal/common/appcontext"
)

// RetryUntilSuccess calls performAction until it returns nil or ctx is done. onError is invoked after every
// failure and is responsible for any backoff.
func RetryUntilSuccess(ctx *appcontext.Context, performAction func() error, onError func(error)) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := performAction()
			if err == nil {
				return
			} else {
				onError(err)
			}
		}
	}
}

package logging

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// StackField is the log field holding the stack trace of a logged error.
const StackField = "stacktrace"

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// WithStacktrace adds err to the entry, along with the stack trace recorded where err originated if any
// error in its chain was created by pkg/errors.
func WithStacktrace(entry *logrus.Entry, err error) *logrus.Entry {
	entry = entry.WithError(err)
	if stack := OriginStack(err); stack != nil {
		entry = entry.WithField(StackField, stack)
	}
	return entry
}

// OriginStack follows the Unwrap chain of err and returns the innermost stack trace, or nil.
func OriginStack(err error) errors.StackTrace {
	var stack errors.StackTrace
	for ; err != nil; err = errors.Unwrap(err) {
		if st, ok := err.(stackTracer); ok {
			stack = st.StackTrace()
		}
	}
	return stack
}

// Package ingesterrors contains the error types returned by the ingestion pipeline.
// None of these errors is fatal to the process: the ingestion loop uses them to decide how to
// log, count and recover, and to attach context (topic, table, batch) to the log line.
//
// If multiple errors occur in some function (e.g., if every configured broker is unreachable), that
// function should return an error of type multierror.Error from package
// github.com/hashicorp/go-multierror that encapsulates those individual errors.
package ingesterrors

import (
	"fmt"
)

// ErrInvalidArgument is returned when a configuration value cannot be used.
type ErrInvalidArgument struct {
	// Name of the field or parameter that was invalid
	Name string
	// String representation of the invalid value
	Value interface{}
	// Optional message included with the error message
	Message string
}

func (err *ErrInvalidArgument) Error() (s string) {
	s = fmt.Sprintf("value %v is invalid for %s", err.Value, err.Name)
	if err.Message != "" {
		s = s + fmt.Sprintf("; %s", err.Message)
	}
	return
}

// ErrSubscription is returned when a subscription to the queue cannot be established.
// It is always retried with a fixed backoff.
type ErrSubscription struct {
	// Topic we attempted to subscribe to
	Topic string
	// 1-based number of the attempt that failed
	Attempt int
	// Underlying error
	Err error
}

func (err *ErrSubscription) Error() string {
	return fmt.Sprintf("could not subscribe to topic %q (attempt %d): %v", err.Topic, err.Attempt, err.Err)
}

func (err *ErrSubscription) Unwrap() error { return err.Err }

func (err *ErrSubscription) Cause() error { return err.Err }

// ErrConsume is returned when polling an established subscription fails. It is treated as transient.
type ErrConsume struct {
	Topic string
	// Number of consume errors seen back to back, including this one
	Consecutive int
	Err         error
}

func (err *ErrConsume) Error() string {
	return fmt.Sprintf("error consuming from topic %q (%d consecutive): %v", err.Topic, err.Consecutive, err.Err)
}

func (err *ErrConsume) Unwrap() error { return err.Err }

func (err *ErrConsume) Cause() error { return err.Err }

// ErrWrite is returned when a batch could not be written to the store. The batch is not retried.
type ErrWrite struct {
	Table   string
	BatchId string
	Records int
	Err     error
}

func (err *ErrWrite) Error() string {
	return fmt.Sprintf("could not write batch %s of %d records to table %s: %v", err.BatchId, err.Records, err.Table, err.Err)
}

func (err *ErrWrite) Unwrap() error { return err.Err }

func (err *ErrWrite) Cause() error { return err.Err }

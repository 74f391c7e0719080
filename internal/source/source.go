// Package source loads event and metadata datasets from their external
// homes: the BigQuery warehouse, flat XLSX/CSV exports and the importer
// mapping file. All sources normalize into the shared domain types before
// anything downstream sees them.
package source

import (
	"context"
	"errors"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/normalize"
)

// EventSource fetches the raw event stream.
type EventSource interface {
	FetchEvents(ctx context.Context) ([]model.Event, normalize.Stats, error)
}

// MetadataSource fetches the posting metadata snapshot.
type MetadataSource interface {
	FetchMetadata(ctx context.Context) ([]model.Metadata, normalize.Stats, error)
}

// FetchError marks a source as unreachable or rejecting. Per-record issues
// recover inside normalization; only this class of failure escalates to the
// caller, which may then fall back to cached or snapshotted data.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return "fetch " + e.Source + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps an error as a fetch failure of the named source.
func NewFetchError(source string, err error) *FetchError {
	return &FetchError{Source: source, Err: err}
}

// IsFetch reports whether any error in the chain is a FetchError.
func IsFetch(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"fmt"

	"github.com/Laisky/errors/v2"

	"github.com/pdiddy/pubmed-papers/internal/httputil"
)

// ErrEmptyResult is returned by Search when the query matched no papers.
// It is not fatal: callers still produce header-only output.
var ErrEmptyResult = errors.New("no papers matched the query")

// NetworkError reports a request that failed on every attempt, either on
// the transport or with a non-2xx status.
type NetworkError struct {
	// Op is the E-utility that failed ("esearch" or "efetch").
	Op string

	Attempts int

	// StatusCode is the last HTTP status, or 0 for transport failures.
	StatusCode int

	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func newNetworkError(op string, attempts int, err error) *NetworkError {
	ne := &NetworkError{Op: op, Attempts: attempts, Err: err}
	var se *httputil.StatusError
	if errors.As(err, &se) {
		ne.StatusCode = se.StatusCode
	}
	return ne
}

// ParseError reports a single efetch record that could not be turned into
// a PaperRecord. The record is skipped; the rest of the batch continues.
type ParseError struct {
	// ID is the PMID when it could be read, empty otherwise.
	ID  string
	Err error
}

func (e *ParseError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("parsing record: %v", e.Err)
	}
	return fmt.Sprintf("parsing PMID %s: %v", e.ID, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

package fetch

import (
	"errors"
	"fmt"
)

// ErrMissingTotal is the cause attached to a schema failure when the
// configured total-count field is absent from the response document.
// A silent zero here would corrupt the harvest page-count computation,
// so the page fails instead.
var ErrMissingTotal = errors.New("missing total count field")

// ErrorKind classifies page fetch failures.
type ErrorKind string

const (
	// ErrorKindTransport represents connection, DNS or timeout failures.
	ErrorKindTransport ErrorKind = "transport"

	// ErrorKindHTTPStatus represents non-2xx responses.
	ErrorKindHTTPStatus ErrorKind = "http_status"

	// ErrorKindParse represents bodies that are not valid JSON.
	ErrorKindParse ErrorKind = "parse"

	// ErrorKindSchema represents structurally valid JSON missing the
	// configured total-count field.
	ErrorKindSchema ErrorKind = "schema"
)

// Error is a classified page fetch failure.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("fetch %s error: %s", e.Kind, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

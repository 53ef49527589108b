// Package source implements the network-bound adapters the resolver queries
// for assessment and comparable-sales data. Every adapter returns (nil, nil)
// when the source has no match and an error wrapping ErrUnavailable when the
// source could not be reached or answered with something unreadable.
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnavailable is wrapped by every transport, status and decoding failure.
var ErrUnavailable = errors.New("source unavailable")

// UnavailableError carries the failing source and the underlying cause.
type UnavailableError struct {
	Source string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("source: %s unavailable: %v", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() []error { return []error{ErrUnavailable, e.Err} }

// Unavailable wraps err for source.
func Unavailable(source string, err error) error {
	return &UnavailableError{Source: source, Err: err}
}

// Text decodes a JSON string, number, boolean or null into a string so that
// feeds that disagree on types can share one document shape.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null" || raw == "":
		*t = ""
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			*t = Text(strconv.FormatFloat(f, 'f', -1, 64))
			return nil
		}
		*t = Text(raw)
	}
	return nil
}

// String returns the trimmed value.
func (t Text) String() string { return strings.TrimSpace(string(t)) }

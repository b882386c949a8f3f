package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingColumns is wrapped by a ParseError when required header columns are absent
	ErrMissingColumns = errors.New("missing required columns")
	// ErrInvalidRows is wrapped by a ParseError when one or more rows fail coercion
	ErrInvalidRows = errors.New("invalid rows")
	// ErrUnsupportedFormat is wrapped by a LoadError for unknown file extensions
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	// ErrDuplicateID marks a row whose CustomerId was already seen
	ErrDuplicateID = errors.New("duplicate customer id")
	// ErrEmptyValue marks a required cell that is blank
	ErrEmptyValue = errors.New("empty value")
)

// LoadError reports a dataset file that could not be opened or read
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RowError describes one row that failed coercion
type RowError struct {
	Line       int
	CustomerID string
	Column     string
	Value      string
	Err        error
}

func (e RowError) Error() string {
	id := e.CustomerID
	if id == "" {
		id = "?"
	}
	return fmt.Sprintf("line %d (CustomerId %s): column %s value %q: %v", e.Line, id, e.Column, e.Value, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// ParseError rejects a dataset whose header or rows could not be coerced.
// Rows holds at most the configured number of reported errors; Total counts all of them.
type ParseError struct {
	Path    string
	Missing []string
	Rows    []RowError
	Total   int
	Err     error
}

func (e *ParseError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("parse dataset %s: %v: %s", e.Path, e.Err, strings.Join(e.Missing, ", "))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "parse dataset %s: %d %v", e.Path, e.Total, e.Err)
	for _, row := range e.Rows {
		b.WriteString("\n  ")
		b.WriteString(row.Error())
	}
	if hidden := e.Total - len(e.Rows); hidden > 0 {
		fmt.Fprintf(&b, "\n  ... and %d more", hidden)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

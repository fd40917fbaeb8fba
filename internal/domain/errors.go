package domain

import (
	"errors"
	"fmt"
)

// Upstream errors. The fetch layer wraps transport failures and non-2xx
// responses with one of these so callers can answer "not found".
var (
	ErrNoReport         = errors.New("no report was found for this station")
	ErrNoForecast       = errors.New("no forecast was found for this station")
	ErrNoStationListing = errors.New("no station listing was found")

	// ErrInternal marks a decode that could not complete for reasons unrelated
	// to the document, e.g. the caller abandoned the request.
	ErrInternal = errors.New("internal error")
)

// ErrorKind classifies a structural decode failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNoHeaderRow
	KindNoUnitRow
	KindUnitMismatch
	KindBadCSVLine
	KindBadZipFile
	KindNoZipEntry
	KindInvalidDocument
	KindInvalidIssueTime
)

var kindNames = map[ErrorKind]string{
	KindUnknown:          "unknown",
	KindNoHeaderRow:      "no_header_row",
	KindNoUnitRow:        "no_unit_row",
	KindUnitMismatch:     "unit_mismatch",
	KindBadCSVLine:       "bad_csv_line",
	KindBadZipFile:       "bad_zip_file",
	KindNoZipEntry:       "no_zip_entry",
	KindInvalidDocument:  "invalid_document",
	KindInvalidIssueTime: "invalid_issue_time",
}

var kindMessages = map[ErrorKind]string{
	KindUnknown:          "internal error",
	KindNoHeaderRow:      "the report's CSV file didn't have a header row",
	KindNoUnitRow:        "the report's CSV file didn't have a unit row",
	KindUnitMismatch:     "the report's CSV didn't declare the exact units for each property or too many",
	KindBadCSVLine:       "the report's CSV file contained an invalid row",
	KindBadZipFile:       "the forecast's zip file was invalid",
	KindNoZipEntry:       "the forecast's zip file didn't contain a forecast",
	KindInvalidDocument:  "couldn't read KML file",
	KindInvalidIssueTime: "couldn't parse issue-time",
}

// String returns the snake_case label used for metrics and logs.
func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// Message returns the client-facing description of the kind.
func (k ErrorKind) Message() string {
	if s, ok := kindMessages[k]; ok {
		return s
	}
	return kindMessages[KindUnknown]
}

// DecodeError is a structural failure: the input does not have the shape the
// decoder needs to proceed at all.
type DecodeError struct {
	Kind ErrorKind
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return e.Kind.Message()
	}
	return fmt.Sprintf("%s: %v", e.Kind.Message(), e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is matches any DecodeError of the same kind, so errors.Is(err, ErrNoUnitRow)
// holds regardless of the wrapped cause.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	return ok && t.Kind == e.Kind
}

// Kind sentinels for use with errors.Is.
var (
	ErrNoHeaderRow      = &DecodeError{Kind: KindNoHeaderRow}
	ErrNoUnitRow        = &DecodeError{Kind: KindNoUnitRow}
	ErrUnitMismatch     = &DecodeError{Kind: KindUnitMismatch}
	ErrBadCSVLine       = &DecodeError{Kind: KindBadCSVLine}
	ErrBadZipFile       = &DecodeError{Kind: KindBadZipFile}
	ErrNoZipEntry       = &DecodeError{Kind: KindNoZipEntry}
	ErrInvalidDocument  = &DecodeError{Kind: KindInvalidDocument}
	ErrInvalidIssueTime = &DecodeError{Kind: KindInvalidIssueTime}
)

func newDecodeError(kind ErrorKind, err error) *DecodeError {
	return &DecodeError{Kind: kind, Err: err}
}

// KindOf returns the kind of the first DecodeError in err's chain, or
// KindUnknown.
func KindOf(err error) ErrorKind {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err means the upstream had nothing to serve.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoReport) ||
		errors.Is(err, ErrNoForecast) ||
		errors.Is(err, ErrNoStationListing)
}

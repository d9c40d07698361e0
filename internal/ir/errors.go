package ir

import (
	"errors"
	"fmt"
)

// QueryError is the error type shared by every stage of the query pipeline.
//
// Query errors are deterministic functions of their input. Callers surface
// them to the user; retrying is meaningless.
type QueryError struct {
	// Code identifies the error category.
	Code QueryErrorCode

	// Message is a human-readable description.
	Message string

	// Candidates lists the conflicting query types for keyword conflicts.
	Candidates []string

	// Err is the underlying error, if any.
	Err error
}

// QueryErrorCode categorizes query errors.
type QueryErrorCode string

const (
	// ErrCodeQueryParsing covers keyword conflicts, missing keywords, text the
	// pattern grammar rejects and variables missing from a result row.
	ErrCodeQueryParsing QueryErrorCode = "QUERY_PARSING"

	// ErrCodeArgument covers malformed user input to the shell: session,
	// transaction and connection selectors. The core pipeline never raises it.
	ErrCodeArgument QueryErrorCode = "ARGUMENT"

	// ErrCodeInconsistent indicates result rows that do not match the query
	// graph, e.g. an attribute bound where an owner was expected.
	ErrCodeInconsistent QueryErrorCode = "INCONSISTENT"
)

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewParsingError creates a QUERY_PARSING error.
func NewParsingError(format string, args ...any) *QueryError {
	return &QueryError{Code: ErrCodeQueryParsing, Message: fmt.Sprintf(format, args...)}
}

// WrapParsingError creates a QUERY_PARSING error around err.
func WrapParsingError(err error, format string, args ...any) *QueryError {
	return &QueryError{Code: ErrCodeQueryParsing, Message: fmt.Sprintf(format, args...), Err: err}
}

// NewArgumentError creates an ARGUMENT error.
func NewArgumentError(format string, args ...any) *QueryError {
	return &QueryError{Code: ErrCodeArgument, Message: fmt.Sprintf(format, args...)}
}

// NewInconsistencyError creates an INCONSISTENT error.
func NewInconsistencyError(format string, args ...any) *QueryError {
	return &QueryError{Code: ErrCodeInconsistent, Message: fmt.Sprintf(format, args...)}
}

// IsQueryParsingError returns true if err is a QUERY_PARSING error.
// Uses errors.As to handle wrapped errors.
func IsQueryParsingError(err error) bool {
	return hasCode(err, ErrCodeQueryParsing)
}

// IsArgumentError returns true if err is an ARGUMENT error.
func IsArgumentError(err error) bool {
	return hasCode(err, ErrCodeArgument)
}

// IsInconsistencyError returns true if err is an INCONSISTENT error.
func IsInconsistencyError(err error) bool {
	return hasCode(err, ErrCodeInconsistent)
}

func hasCode(err error, code QueryErrorCode) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code == code
	}
	return false
}

package types

import (
	"errors"
	"fmt"
)

// ErrNoRows signals an empty result set from a single-row fetch. It is a
// typed not-found outcome, distinct from storage failures.
var ErrNoRows = errors.New("no data found")

type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// QueryError is the failure variant returned by service operations. Message
// is user-facing; Details carries a redacted summary of the underlying
// engine error (never the raw error text); Status is the HTTP-mappable
// status, 0 meaning "let the boundary decide".
type QueryError struct {
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *QueryError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Details)
	}
	return e.Message
}

// StatusOr returns the error's status, or fallback if none was set.
func (e *QueryError) StatusOr(fallback int) int {
	if e.Status != 0 {
		return e.Status
	}
	return fallback
}

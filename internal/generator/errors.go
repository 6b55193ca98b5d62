package generator

import (
	"errors"
	"fmt"
)

// ErrTimeout indicates no provider response arrived within the attempt's
// allotted duration. The orchestrator moves to the next strategy.
var ErrTimeout = errors.New("generation attempt timed out")

// ErrEmptyResponse indicates the provider responded with no usable
// payload. Retried the same way as a timeout.
var ErrEmptyResponse = errors.New("generation attempt returned an empty response")

// ErrCancelled indicates the caller cancelled the operation. Not retried.
var ErrCancelled = errors.New("generation cancelled")

// ExhaustedMessage is the single consolidated, non-technical message
// surfaced to the user after every strategy has failed. Internal attempt
// details are logged, never surfaced.
const ExhaustedMessage = "We couldn't create a game from this material. Try shortening or summarizing your content and generating again."

// ExhaustionError is the terminal failure after all strategies fail.
type ExhaustionError struct {
	Attempts int
}

func (e *ExhaustionError) Error() string {
	return ExhaustedMessage
}

// FormatError indicates a payload could not be cleaned or parsed into a
// valid game. Retried: a different strategy's temperature and content
// size may avoid the same malformation.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid format: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid format: %s", e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErr(reason string, err error) *FormatError {
	return &FormatError{Reason: reason, Err: err}
}

package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies failures by how the pipeline reacts to them
type ErrorType string

const (
	// ErrorTypeExtraction is a structural failure on one feed item; the item is skipped
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeEngagement is an unreadable engagement counter; it degrades to zero
	ErrorTypeEngagement ErrorType = "engagement"
	// ErrorTypeTimeout is a bounded browser wait that expired
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeBrowser is any other fault reported by the browser
	ErrorTypeBrowser ErrorType = "browser"
	// ErrorTypeSession covers a missing, unreadable or undecryptable session blob
	ErrorTypeSession ErrorType = "session"
	// ErrorTypeNoData means the analysis stage found nothing to analyse
	ErrorTypeNoData ErrorType = "no_data"
	// ErrorTypeProcessing is a failure while transforming one data file
	ErrorTypeProcessing ErrorType = "processing"
	// ErrorTypeConfig is an invalid configuration
	ErrorTypeConfig ErrorType = "config"
)

// Error carries a type, the failing operation and an optional cause
type Error struct {
	Type    ErrorType
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op == "" {
		return fmt.Sprintf("%s error: %s", e.Type, msg)
	}
	return fmt.Sprintf("%s error in %s: %s", e.Type, e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error without a cause
func New(t ErrorType, op, message string) *Error {
	return &Error{Type: t, Op: op, Message: message}
}

// Wrap creates a typed error around cause
func Wrap(t ErrorType, op string, cause error) *Error {
	return &Error{Type: t, Op: op, Err: cause}
}

// TypeOf returns the type of the first *Error in the chain, or "" if none
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ""
}

// IsType reports whether err carries the given type
func IsType(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// AbortsHashtag reports whether err ends the current hashtag crawl while
// leaving the rest of the campaign running
func AbortsHashtag(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeTimeout, ErrorTypeBrowser, ErrorTypeSession:
		return true
	default:
		return false
	}
}

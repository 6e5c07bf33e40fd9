// Package errors defines common error types used throughout the comment
// fetcher.
package errors

import "fmt"

// ConfigError indicates a problem with the fetcher configuration.
type ConfigError struct {
	// Field contains the name of the configuration field that caused the error
	Field string
	// Message contains the detailed error message
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// ExpandError indicates that placeholder expansion failed after the retry
// budget was exhausted. It is fatal for the fetch that triggered it.
type ExpandError struct {
	// SubmissionID is the submission whose forest was being expanded
	SubmissionID string
	// Attempts is the number of times the provider's expansion operation was invoked
	Attempts int
	// Err contains the provider's final error
	Err error
}

func (e *ExpandError) Error() string {
	if e.SubmissionID != "" {
		return fmt.Sprintf("expand error for submission %s after %d attempts: %v", e.SubmissionID, e.Attempts, e.Err)
	}
	return fmt.Sprintf("expand error after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExpandError) Unwrap() error {
	return e.Err
}

// NormalizeError indicates that a single raw comment node could not be
// turned into a record. Depending on fetch options it either aborts the
// traversal or is logged and skipped.
type NormalizeError struct {
	// CommentID is the ID of the offending node, if it could be read
	CommentID string
	// Message contains the detailed error message
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *NormalizeError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if e.CommentID != "" {
		return fmt.Sprintf("normalize error for comment %s: %s", e.CommentID, msg)
	}
	return fmt.Sprintf("normalize error: %s", msg)
}

func (e *NormalizeError) Unwrap() error {
	return e.Err
}

package domain

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies every caller-visible failure. Messages are plain
// language; internal causes travel wrapped and are only logged.
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryGeneration ErrorCategory = "generation_failed"
	CategoryStorage    ErrorCategory = "storage_failed"
	CategoryTimeout    ErrorCategory = "query_timeout"
	CategoryNotFound   ErrorCategory = "not_found"
)

// ValidationKind narrows CategoryValidation failures.
type ValidationKind string

const (
	KindSizeExceeded      ValidationKind = "size_exceeded"
	KindUnsupportedFormat ValidationKind = "unsupported_format"
	KindUnsafeFilename    ValidationKind = "unsafe_filename"
	KindBadInput          ValidationKind = "bad_input"
)

type Error struct {
	Category ErrorCategory
	Kind     ValidationKind
	Message  string
	cause    error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// ErrorCategoryOf returns the category of err, or "" if err is not a
// categorized domain error.
func ErrorCategoryOf(err error) ErrorCategory {
	var de *Error
	if errors.As(err, &de) {
		return de.Category
	}
	return ""
}

// ValidationKindOf returns the validation kind of err, or "".
func ValidationKindOf(err error) ValidationKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func ErrSizeExceeded(maxBytes, actualBytes int64) *Error {
	return &Error{
		Category: CategoryValidation,
		Kind:     KindSizeExceeded,
		Message: fmt.Sprintf("File is too large: maximum size is %dMB, this file is %.1fMB",
			maxBytes/(1024*1024), float64(actualBytes)/(1024*1024)),
	}
}

func ErrUnsupportedFormat(detected string) *Error {
	return &Error{
		Category: CategoryValidation,
		Kind:     KindUnsupportedFormat,
		Message:  fmt.Sprintf("Unsupported image format %q: please upload a JPEG, PNG or TIFF file", detected),
	}
}

func ErrUnsafeFilename(name string) *Error {
	return &Error{
		Category: CategoryValidation,
		Kind:     KindUnsafeFilename,
		Message:  fmt.Sprintf("File name %q is not allowed: it must not contain path separators", name),
	}
}

func ErrBadInput(message string) *Error {
	return &Error{
		Category: CategoryValidation,
		Kind:     KindBadInput,
		Message:  message,
	}
}

func ErrGenerationFailed(cause error) *Error {
	return &Error{
		Category: CategoryGeneration,
		Message:  "The image could not be processed: the file appears to be corrupt",
		cause:    cause,
	}
}

func ErrStorageFailed(cause error) *Error {
	return &Error{
		Category: CategoryStorage,
		Message:  "The photo could not be saved, please try again",
		cause:    cause,
	}
}

func ErrQueryTimeout() *Error {
	return &Error{
		Category: CategoryTimeout,
		Message:  "The search took too long and was cancelled, please try again",
	}
}

func ErrNotFound(what string) *Error {
	return &Error{
		Category: CategoryNotFound,
		Message:  fmt.Sprintf("%s not found", what),
	}
}

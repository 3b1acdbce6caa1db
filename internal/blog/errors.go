package blog

import "fmt"

// ErrorKind categorizes an operation failure for the transport layer.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindAuthorization ErrorKind = "authorization"
	KindNotFound      ErrorKind = "not_found"
	KindPrecondition  ErrorKind = "precondition_failed"
	KindInternal      ErrorKind = "internal"
)

// Error is the categorized error every blog operation returns on failure.
// Fields carries per-field detail for validation errors only.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// ErrValidation builds a field-level validation error.
func ErrValidation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// ErrAuthorization signals a role or ownership mismatch.
func ErrAuthorization(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

// ErrNotFound covers absent ids and present-but-hidden ids alike, so callers
// cannot distinguish hidden content from missing content.
func ErrNotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// ErrPrecondition signals an operation that is not valid for the blog's
// current lifecycle state.
func ErrPrecondition(msg string) *Error {
	return &Error{Kind: KindPrecondition, Message: msg}
}

// ErrInternal wraps an unexpected store failure. The cause is logged by the
// caller, never surfaced.
func ErrInternal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", cause: cause}
}

// KindOf extracts the kind of err; unrecognized errors map to KindInternal.
func KindOf(err error) ErrorKind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindInternal
}

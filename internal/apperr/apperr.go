package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies a failure stage of the generation pipeline. The HTTP
// layer maps kinds to status codes and returns the kind string to clients.
type Kind string

const (
	KindFetch              Kind = "fetch_error"
	KindExtraction         Kind = "extraction_error"
	KindMissingVariable    Kind = "missing_variable_error"
	KindLLMTransport       Kind = "llm_transport_error"
	KindLLMQuota           Kind = "llm_quota_error"
	KindMalformedResponse  Kind = "malformed_response_error"
	KindSchemaValidation   Kind = "schema_validation_error"
	KindAssemblyValidation Kind = "assembly_validation_error"
	KindDuplicateURL       Kind = "duplicate_url_error"
	KindInvalidURL         Kind = "invalid_url_error"
	KindNotFound           Kind = "not_found"
)

// Error carries a pipeline failure kind together with a human-readable
// message. Wrapped causes stay reachable through errors.Is / errors.As.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from anywhere in err's chain, or "" if err
// was not produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Package failure classifies the errors returned by the catalog, recommendation,
// sentiment and assistant components so the HTTP layer can map them without
// inspecting messages.
package failure

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind names a class of failure.
type Kind string

const (
	// KindValidation is a missing or malformed request field.
	KindValidation Kind = "validation_error"
	// KindNotFound is an unknown movie id.
	KindNotFound Kind = "not_found"
	// KindUnknownMood is a mood label absent from the policy table.
	KindUnknownMood Kind = "unknown_mood"
	// KindEmptyInput is blank text handed to the sentiment analyzer.
	KindEmptyInput Kind = "empty_input"
	// KindUpstream is any assistant failure that is not credential or throttling related.
	KindUpstream Kind = "upstream_error"
	// KindInvalidCredential is an assistant failure caused by the API key.
	KindInvalidCredential Kind = "invalid_credential"
	// KindRateLimited is an assistant failure caused by upstream throttling.
	KindRateLimited Kind = "rate_limited"
	// KindInternal is anything unclassified.
	KindInternal Kind = "internal"
)

// Status returns the HTTP status a failure of this kind is surfaced with.
func (k Kind) Status() (status int) {
	switch k {
	case KindNotFound:
		status = http.StatusNotFound
	case KindValidation, KindUnknownMood, KindEmptyInput, KindUpstream, KindInvalidCredential, KindRateLimited:
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	return status
}

// Error is a classified failure.
type Error struct {
	Kind    Kind
	Message string
	// Options lists valid alternatives the caller may present, e.g. mood keys.
	Options []string
	Err     error
}

func (e *Error) Error() (msg string) {
	if e == nil {
		return msg
	}
	msg = e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = string(e.Kind)
	}
	return msg
}

func (e *Error) Unwrap() (err error) {
	err = e.Err
	return err
}

// New creates a failure of the given kind.
func New(kind Kind, message string) (err *Error) {
	err = &Error{Kind: kind, Message: message}
	return err
}

// Newf creates a failure of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) (err *Error) {
	err = &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
	return err
}

// Wrap classifies cause under kind, keeping it reachable through errors.Unwrap.
func Wrap(kind Kind, cause error, message string) (err *Error) {
	err = &Error{Kind: kind, Message: message, Err: cause}
	return err
}

// WithOptions returns a copy of e carrying the given alternatives.
func (e *Error) WithOptions(options []string) (out *Error) {
	copied := *e
	copied.Options = append([]string(nil), options...)
	out = &copied
	return out
}

// As extracts the first *Error in err's chain.
func As(err error) (fe *Error, ok bool) {
	ok = errors.As(err, &fe)
	return fe, ok
}

// KindOf reports the kind of err. Unclassified errors are KindInternal and nil is "".
func KindOf(err error) (kind Kind) {
	if err == nil {
		return kind
	}
	fe, ok := As(err)
	if !ok {
		kind = KindInternal
		return kind
	}
	kind = fe.Kind
	return kind
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) (ok bool) {
	ok = err != nil && KindOf(err) == kind
	return ok
}

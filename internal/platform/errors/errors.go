// Package errors is the error model shared by the scrape pipeline and the
// read API: one structured type, stable machine codes, and the wire shape
// the HTTP envelope embeds.
//
// Import it as perr to stay clear of the stdlib errors package.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies errors for machine consumption. The numeric values
// ride the wire in API envelopes, so existing entries never move and new
// ones append at the end.
type ErrorCode uint16

const (
	// ErrorCodeUnknown covers anything not classified below
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic marks a panic recovered by middleware
	ErrorCodePanic

	// ErrorCodeUnavailable marks transient faults where a retry may succeed
	ErrorCodeUnavailable

	// ErrorCodeTooManyRequests marks rate limiting
	ErrorCodeTooManyRequests

	// ErrorCodeConflict marks editing conflicts other than duplicate keys
	ErrorCodeConflict

	// ErrorCodeUnauthorized marks missing or bad credentials
	ErrorCodeUnauthorized

	// ErrorCodeForbidden marks access control rejections
	ErrorCodeForbidden

	// ErrorCodeInvalidArgument marks bad input parameters
	ErrorCodeInvalidArgument

	// ErrorCodeValidation marks input that parsed but failed validation
	ErrorCodeValidation

	// ErrorCodeJSON marks JSON decode failures
	ErrorCodeJSON

	// ErrorCodeNotFound marks missing resources
	ErrorCodeNotFound

	// ErrorCodeDuplicateKey marks unique constraint violations
	ErrorCodeDuplicateKey

	// ErrorCodeDB marks database errors with no sharper class
	ErrorCodeDB

	// ErrorCodeTransport marks vendor page fetches that failed (non-2xx, network)
	ErrorCodeTransport

	// ErrorCodeExtract marks vendor pages whose layout no longer matches the scraper
	ErrorCodeExtract
)

// Error couples a developer-facing message with a machine code, an optional
// offending field, and the wrapped cause.
type Error struct {
	cause error
	msg   string
	code  ErrorCode
	field string
}

// Wire is the JSON shape of an error inside API envelopes.
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Unwrap exposes the cause to errors.Is and errors.As
func (e *Error) Unwrap() error { return e.cause }

// Code returns the machine classification
func (e *Error) Code() ErrorCode { return e.code }

// Field names the offending input field when one is known
func (e *Error) Field() string { return e.field }

// ToWire flattens the error into its envelope form. The cause stays behind;
// only the message, code and field travel
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// New builds an error with a code and a fixed message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf builds an error with a code and a formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap annotates cause with a code and message while keeping it unwrappable
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{cause: cause, code: code, msg: msg}
}

// Wrapf is Wrap with a formatted message
func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return &Error{cause: cause, code: code, msg: fmt.Sprintf(format, a...)}
}

// As unwraps err and returns it as an *Error when it is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf pulls the ErrorCode out of any error, Unknown for foreign ones
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err classifies as code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// Root walks the unwrap chain to the deepest cause
func Root(err error) error {
	for err != nil {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}

// WithField returns a copy of err that names the offending field. Foreign
// errors pass through untouched
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// httpStatus maps each ErrorCode to the status the read API answers with.
// Codes outside the map, Panic and DB among them, fall back to 500
var httpStatus = map[ErrorCode]int{
	ErrorCodeNotFound:        http.StatusNotFound,
	ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
	ErrorCodeValidation:      http.StatusBadRequest,
	ErrorCodeJSON:            http.StatusBadRequest,
	ErrorCodeDuplicateKey:    http.StatusConflict,
	ErrorCodeConflict:        http.StatusConflict,
	ErrorCodeUnauthorized:    http.StatusUnauthorized,
	ErrorCodeForbidden:       http.StatusForbidden,
	ErrorCodeTooManyRequests: http.StatusTooManyRequests,
	ErrorCodeUnavailable:     http.StatusServiceUnavailable,
	ErrorCodeTransport:       http.StatusBadGateway,
}

// HTTPStatusCode resolves the HTTP status for a code
func HTTPStatusCode(c ErrorCode) int {
	if s, ok := httpStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// HTTPStatus resolves the HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WireFrom converts any error to its envelope form. Foreign errors come
// through as Unknown with their message intact; nil maps to the zero Wire
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// HTTP resolves status and wire payload in one call, shaped for handlers
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}

// Sugar constructors for the codes the codebase raises directly.

// NotFoundf flags a missing resource
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf flags a bad input parameter
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// DBf flags a database failure raised outside the pg mapping path
func DBf(format string, a ...any) error { return Newf(ErrorCodeDB, format, a...) }

// JSONErrf flags a JSON decode or shape problem
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// PanicErrf flags a recovered panic
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Unavailablef flags a transient dependency fault
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// Internalf flags an unclassified internal failure
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }

// Transportf flags a vendor fetch that failed before any rows were read
func Transportf(format string, a ...any) error { return Newf(ErrorCodeTransport, format, a...) }

// Extractf flags a vendor page whose structure the scraper no longer recognizes
func Extractf(format string, a ...any) error { return Newf(ErrorCodeExtract, format, a...) }

// Retryable reports whether err is worth another attempt. Postgres contention
// and transient connection faults qualify; everything else does not
func Retryable(err error) bool { return IsRetryable(err) }

// Package goerror defines the typed error carried from usecases to the HTTP
// layer, where it is rendered with a status code and a user-facing message.
package goerror

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/samber/lo"
)

// Type classifies errors into high-level buckets.
type Type int

const (
	TypeServer Type = iota
	TypeBusiness
	TypeValidation
)

var typeNames = map[Type]string{
	TypeServer:     "ERROR_TYPE_SERVER",
	TypeBusiness:   "ERROR_TYPE_BUSINESS",
	TypeValidation: "ERROR_TYPE_VALIDATION",
}

func (t Type) String() string {
	return lo.ValueOr(typeNames, t, "ERROR_TYPE_UNKNOWN")
}

// Code is a stable identifier mapped to an HTTP status.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	// CodeConflict marks a duplicate delivery.
	CodeConflict
	// CodeUnavailable marks a dependency that cannot be reached.
	CodeUnavailable
)

type codeInfo struct {
	name   string
	status int
}

var codes = map[Code]codeInfo{
	CodeInternal:      {"ERROR_CODE_INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat: {"ERROR_CODE_INVALID_FORMAT", http.StatusBadRequest},
	CodeInvalidInput:  {"ERROR_CODE_INVALID_INPUT", http.StatusUnprocessableEntity},
	CodeNotFound:      {"ERROR_CODE_NOT_FOUND", http.StatusNotFound},
	CodeConflict:      {"ERROR_CODE_CONFLICT", http.StatusConflict},
	CodeUnavailable:   {"ERROR_CODE_UNAVAILABLE", http.StatusServiceUnavailable},
}

func (c Code) info() codeInfo {
	return lo.ValueOr(codes, c, codes[CodeInternal])
}

func (c Code) String() string {
	return c.info().name
}

// Error wraps an optional cause with a user-facing message, a type and a code.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

// Error returns the cause's text when there is one, else the message.
func (e *Error) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	case e.errType == TypeValidation:
		return "Validation violation"
	case e.errType == TypeBusiness:
		return "Business rule violation"
	default:
		return "Internal error"
	}
}

// String is the verbose form used in debug logs.
func (e *Error) String() string {
	return fmt.Sprintf("type=%s code=%s msg=%q cause=%v", e.errType, e.code, e.msg, e.err)
}

func (e *Error) Msg() string { return e.msg }
func (e *Error) Type() Type { return e.errType }
func (e *Error) Code() Code { return e.code }
func (e *Error) Fields() map[string]string { return e.fields }
func (e *Error) Unwrap() error { return e.err }
func (e *Error) StatusCode() int { return e.code.info().status }

// NewServer wraps an unexpected failure. The cause is kept for logs and never
// shown to the caller.
func NewServer(err error) error {
	return &Error{err: err, msg: "Internal server error", errType: TypeServer, code: CodeInternal}
}

func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, errType: TypeBusiness, code: code}
}

// NewInvalidInput wraps validator output. With a nil err the key/value pairs
// become the field messages; an odd number of them yields an invalid format
// error instead.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return &Error{err: err, msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput}
	}
	if len(kv)%2 != 0 {
		return NewInvalidFormat()
	}

	fields := make(map[string]string, len(kv)/2)
	for pair := range slices.Chunk(kv, 2) {
		fields[pair[0]] = pair[1]
	}

	return &Error{msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput, fields: fields}
}

// NewInvalidFormat reports a body that could not be decoded.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return &Error{msg: msg, errType: TypeValidation, code: CodeInvalidFormat}
}

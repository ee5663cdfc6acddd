// Package mcperr defines the structured errors surfaced to MCP clients.
//
// Every failure that reaches a client is an *Error carrying a JSON-RPC
// code, a short human message and a diagnostic data map. Variants are
// distinguished by Kind; a kind may have a parent (AuthenticationRequired
// is an InvalidRequest, Validation is an InvalidParams) and errors.Is
// honours that relationship through the exported sentinels.
package mcperr

import (
	"errors"
	"fmt"
	"maps"
)

// Code is a JSON-RPC error code.
type Code int

// Wire-visible codes. These must not change.
const (
	CodeParseError     Code = -32700
	CodeInvalidRequest Code = -32600
	CodeMethodNotFound Code = -32601
	CodeInvalidParams  Code = -32602
	CodeInternalError  Code = -32603

	// CodeAuthorizationPending is the only custom code. No range is
	// reserved for further custom codes yet.
	CodeAuthorizationPending Code = -32001
)

// Kind identifies a taxonomy variant.
type Kind uint8

const (
	KindInternal Kind = iota
	KindInvalidParams
	KindInvalidRequest
	KindAuthenticationRequired
	KindAuthorizationPending
	KindValidation
	KindNotFound
	KindRateLimit
	KindServer
)

var kindNames = [...]string{
	KindInternal:               "internal",
	KindInvalidParams:          "invalid_params",
	KindInvalidRequest:         "invalid_request",
	KindAuthenticationRequired: "authentication_required",
	KindAuthorizationPending:   "authorization_pending",
	KindValidation:             "validation",
	KindNotFound:               "not_found",
	KindRateLimit:              "rate_limit",
	KindServer:                 "server",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Code returns the fixed wire code for the kind.
func (k Kind) Code() Code {
	switch k {
	case KindInvalidParams, KindValidation:
		return CodeInvalidParams
	case KindInvalidRequest, KindAuthenticationRequired, KindNotFound, KindRateLimit:
		return CodeInvalidRequest
	case KindAuthorizationPending:
		return CodeAuthorizationPending
	default:
		return CodeInternalError
	}
}

// Parent returns the kind this kind specialises, or k itself.
func (k Kind) Parent() Kind {
	switch k {
	case KindAuthenticationRequired:
		return KindInvalidRequest
	case KindValidation:
		return KindInvalidParams
	default:
		return k
	}
}

// Error is a structured error. The code is fixed at construction; data is
// append-only after that.
type Error struct {
	kind    Kind
	code    Code
	message string
	data    map[string]any
	cause   error
}

// Sentinels for errors.Is. A Validation error matches both ErrValidation
// and ErrInvalidParams.
var (
	ErrInternal               = &Error{kind: KindInternal}
	ErrInvalidParams          = &Error{kind: KindInvalidParams}
	ErrInvalidRequest         = &Error{kind: KindInvalidRequest}
	ErrAuthenticationRequired = &Error{kind: KindAuthenticationRequired}
	ErrAuthorizationPending   = &Error{kind: KindAuthorizationPending}
	ErrValidation             = &Error{kind: KindValidation}
	ErrNotFound               = &Error{kind: KindNotFound}
	ErrRateLimit              = &Error{kind: KindRateLimit}
	ErrServer                 = &Error{kind: KindServer}
)

func newError(kind Kind, message string, data map[string]any, opts []Option) *Error {
	if data == nil {
		data = map[string]any{}
	}
	e := &Error{kind: kind, code: kind.Code(), message: message, data: data}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Error) Error() string { return e.message }

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is a sentinel of this kind or of its parent.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.kind == e.kind || t.kind == e.kind.Parent()
}

// Kind returns the variant.
func (e *Error) Kind() Kind { return e.kind }

// Code returns the JSON-RPC code.
func (e *Error) Code() Code { return e.code }

// Message returns the user-facing message.
func (e *Error) Message() string { return e.message }

// Data returns a copy of the diagnostic payload.
func (e *Error) Data() map[string]any { return maps.Clone(e.data) }

// Get returns a single data value.
func (e *Error) Get(key string) (any, bool) {
	v, ok := e.data[key]
	return v, ok
}

// Merge adds fields that are not already present. Nil values are skipped.
// It returns e for chaining.
func (e *Error) Merge(fields map[string]any) *Error {
	for k, v := range fields {
		if v == nil {
			continue
		}
		if _, exists := e.data[k]; exists {
			continue
		}
		e.data[k] = v
	}
	return e
}

// WithCause records err as the underlying cause. It returns e.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// ToMap returns {code, message} plus data when data is non-empty.
func (e *Error) ToMap() map[string]any {
	m := map[string]any{
		"code":    int(e.code),
		"message": e.message,
	}
	if len(e.data) > 0 {
		m["data"] = e.Data()
	}
	return m
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	e, ok := As(err)
	if !ok {
		return 0, false
	}
	return e.kind, true
}

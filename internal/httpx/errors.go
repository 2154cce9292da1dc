package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch without parsing messages.
type Kind int

const (
	// KindValidation is a structurally invalid call rejected before any upstream request.
	KindValidation Kind = iota + 1
	// KindUpstreamStatus is a non-2xx response whose body was valid JSON.
	KindUpstreamStatus
	// KindUpstreamBody is a response whose body could not be parsed as expected.
	KindUpstreamBody
	// KindTransport is a failure to complete the round trip at all.
	KindTransport
	// KindProtocol is a 2xx response that is missing a field the upstream must send.
	KindProtocol
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUpstreamStatus:
		return "upstream_status"
	case KindUpstreamBody:
		return "upstream_body"
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// GraphError is the error envelope returned by the Facebook Graph API.
type GraphError struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode"`
	IsTransient  bool   `json:"is_transient"`
	FbtraceID    string `json:"fbtrace_id"`
}

// Error is the single error type returned by the upstream clients.
//
// For upstream failures Error() reproduces the historical message format
// "<op> failed: <status> <statusText>\n<body>", so code matching on the text
// keeps working while new code can inspect the fields.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Status     string
	// Body is the parsed response body: decoded JSON, or the raw text when
	// the body was not JSON.
	Body    any
	RawBody []byte
	Graph   *GraphError
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation, KindProtocol:
		return e.Message
	case KindTransport:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	if e.StatusCode >= 200 && e.StatusCode < 300 {
		return fmt.Sprintf("%s failed: unexpected response body: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed: %d %s\n%s", e.Op, e.StatusCode, e.Status, e.bodyString())
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) bodyString() string {
	if s, ok := e.Body.(string); ok {
		return s
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(e.RawBody), "", "  "); err != nil {
		return string(e.RawBody)
	}
	return buf.String()
}

// Validation returns a KindValidation error with a fixed message.
func Validation(op, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

// Protocol returns a KindProtocol error with a fixed message.
func Protocol(op, message string) *Error {
	return &Error{Kind: KindProtocol, Op: op, Message: message}
}

// KindOf reports the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsValidation reports whether err was rejected before reaching an upstream.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals a caller contract violation caught before
	// any network activity.
	ErrValidation = errors.New("invalid arguments")
	// ErrNotImplemented signals an unimplemented operation.
	ErrNotImplemented = errors.New("not implemented")
)

// Kind classifies a request failure. Classification happens by inspecting
// the transport error's category, never by matching message text.
type Kind int

// Failure kinds surfaced by the dispatcher.
const (
	KindBadURL Kind = iota + 1
	KindURLTooLong
	KindUnknownMethod
	KindDNS
	KindConnection
	KindHTTPStatus
)

// Error is the single error type surfaced to callers for request failures.
// The message already embeds the context (URL or method, status, scraped
// diagnostics); the raw transport error is kept only for unwrapping.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int // non-zero only for KindHTTPStatus
	cause      error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// Message templates for the request failure taxonomy.
const (
	msgBadURL        = "URL is empty or protocol missing: %s"
	msgURLTooLong    = "URL is too long: %s"
	msgUnknownMethod = "unknown HTTP method %q"
	msgDNS           = "socket error (DNS?) connecting to %s"
	msgConnection    = "connection error with %s"
)

// NewBadURL reports a missing or malformed URL scheme.
func NewBadURL(url string) *Error {
	return &Error{Kind: KindBadURL, Message: fmt.Sprintf(msgBadURL, url)}
}

// NewURLTooLong reports a URL exceeding the transport limit.
func NewURLTooLong(url string) *Error {
	return &Error{Kind: KindURLTooLong, Message: fmt.Sprintf(msgURLTooLong, url)}
}

// NewUnknownMethod reports an unsupported HTTP method.
func NewUnknownMethod(method string) *Error {
	return &Error{Kind: KindUnknownMethod, Message: fmt.Sprintf(msgUnknownMethod, method)}
}

// NewDNSFailure reports a resolution failure for the given URL.
func NewDNSFailure(url string, cause error) *Error {
	return &Error{Kind: KindDNS, Message: fmt.Sprintf(msgDNS, url), cause: cause}
}

// NewConnectionFailure reports any other transport-level failure.
func NewConnectionFailure(url string, cause error) *Error {
	return &Error{Kind: KindConnection, Message: fmt.Sprintf(msgConnection, url), cause: cause}
}

// NewHTTPStatus reports a non-2xx response together with the diagnostics
// scraped from its body.
func NewHTTPStatus(status int, reason, detail string) *Error {
	msg := fmt.Sprintf("HTTP %d", status)
	switch {
	case reason != "" && detail != "":
		msg = fmt.Sprintf("%s (%s: %s)", msg, reason, detail)
	case reason != "":
		msg = fmt.Sprintf("%s (%s)", msg, reason)
	case detail != "":
		msg = fmt.Sprintf("%s (%s)", msg, detail)
	}
	return &Error{Kind: KindHTTPStatus, Message: msg, StatusCode: status}
}

package solrdex

import "github.com/kailas-cloud/solrdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation     = domain.ErrValidation
	ErrNotImplemented = domain.ErrNotImplemented
)

// Error is the unified error for failed requests. Use errors.As() to
// inspect its Kind and StatusCode.
type Error = domain.Error

// ErrorKind classifies a request failure.
type ErrorKind = domain.Kind

// Failure kinds carried by Error.Kind.
const (
	KindBadURL        = domain.KindBadURL
	KindURLTooLong    = domain.KindURLTooLong
	KindUnknownMethod = domain.KindUnknownMethod
	KindDNS           = domain.KindDNS
	KindConnection    = domain.KindConnection
	KindHTTPStatus    = domain.KindHTTPStatus
)

package spider

import (
	"context"
	"errors"
	"net"
	"net/url"
)

var _ error = (*Error)(nil)

// Error is a spider error.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}

const (
	// ErrUnexpectedStatusCode indicates that the server answered with an error status code.
	ErrUnexpectedStatusCode = Error("unexpected status code")
	// ErrNoDocument indicates that an html body did not produce a document.
	ErrNoDocument = Error("no html document")
)

// ErrorKind classifies why a page could not be fetched or parsed.
type ErrorKind int

const (
	// NoError means the fetch succeeded.
	NoError ErrorKind = iota
	// ConnectionError covers dns, dial and refused connections.
	ConnectionError
	// TimeoutError means the request did not complete within the configured timeout.
	TimeoutError
	// ProtocolError covers malformed responses, unsupported schemes and undecodable bodies.
	ProtocolError
	// StatusError means the server answered with a status code of 400 or above.
	StatusError
	// ParseError means an html body could not be turned into a document.
	ParseError
)

var errorKindNames = map[ErrorKind]string{
	NoError:         "none",
	ConnectionError: "connection error",
	TimeoutError:    "timeout",
	ProtocolError:   "protocol error",
	StatusError:     "status error",
	ParseError:      "parse error",
}

// String returns a human-readable name of the kind.
func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}

	return "unknown"
}

var _ error = (*FetchError)(nil)

// FetchError is the failure outcome of a fetch.
type FetchError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return e.Kind.String() + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// classifyError maps an error returned by the http client or the body reader to an ErrorKind.
func classifyError(err error) ErrorKind {
	if errors.Is(err, ErrUnexpectedStatusCode) {
		return StatusError
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutError
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TimeoutError
	}

	var (
		opErr  *net.OpError
		dnsErr *net.DNSError
	)

	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return ConnectionError
	}

	var uErr *url.Error
	if errors.As(err, &uErr) && uErr.Timeout() {
		return TimeoutError
	}

	return ProtocolError
}

package spider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		scenario string
		err      error
		expected ErrorKind
	}{
		{
			scenario: "unexpected status code",
			err:      fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, 500),
			expected: StatusError,
		},
		{
			scenario: "deadline exceeded",
			err:      fmt.Errorf("failed to send http request: %w", context.DeadlineExceeded),
			expected: TimeoutError,
		},
		{
			scenario: "dns timeout",
			err:      &net.DNSError{Err: "i/o timeout", Name: "example.org", IsTimeout: true},
			expected: TimeoutError,
		},
		{
			scenario: "dns error",
			err:      &url.Error{Op: "Get", URL: "http://example.invalid", Err: &net.DNSError{Err: "no such host", Name: "example.invalid"}},
			expected: ConnectionError,
		},
		{
			scenario: "connection refused",
			err:      &url.Error{Op: "Get", URL: "http://127.0.0.1:1", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")}},
			expected: ConnectionError,
		},
		{
			scenario: "unsupported scheme",
			err:      &url.Error{Op: "Get", URL: "mailto:a@example.org", Err: errors.New(`unsupported protocol scheme "mailto"`)},
			expected: ProtocolError,
		},
		{
			scenario: "undecodable body",
			err:      errors.New("failed to decode gzip body: gzip: invalid header"),
			expected: ProtocolError,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.scenario, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, classifyError(tc.err))
		})
	}
}

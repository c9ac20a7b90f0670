package collector_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iwst121/spider/internal/collector"
)

type errorReader struct {
	err error
}

func (e errorReader) Read([]byte) (int, error) {
	return 0, e.err
}

func newErrorReader(err error) errorReader {
	return errorReader{err: err}
}

func mustParseURL(t *testing.T, s string) *url.URL {
	t.Helper()

	u, err := url.Parse(s)
	require.NoError(t, err)

	return u
}

func goquerySelectionTag(l collector.Link) string {
	return l.Element.Nodes[0].Data
}

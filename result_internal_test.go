package spider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iwst121/spider/internal/footprint"
)

func TestResult_Discover(t *testing.T) {
	t.Parallel()

	r := newResult("http://example.org/")
	r.schedule("http://example.org/")
	r.recordVisit("http://example.org/", Visit{})

	r.drainFrontier()

	for _, u := range []string{"http://example.org/a", "http://example.org/b"} {
		r.recordVisit(u, Visit{})
	}

	numFound := 0
	found := func() { numFound++ }

	testCases := []struct {
		scenario       string
		parent         string
		link           string
		expectedAdded  bool
		expectedQueued bool
	}{
		{
			scenario:       "new link",
			parent:         "http://example.org/a",
			link:           "http://example.org/x",
			expectedAdded:  true,
			expectedQueued: true,
		},
		{
			scenario: "same link from the same parent",
			parent:   "http://example.org/a",
			link:     "http://example.org/x",
		},
		{
			scenario:      "pending link from another parent",
			parent:        "http://example.org/b",
			link:          "http://example.org/x",
			expectedAdded: true,
		},
		{
			scenario:      "visited link",
			parent:        "http://example.org/b",
			link:          "http://example.org/",
			expectedAdded: true,
		},
		{
			scenario:       "parent without adjacency entry",
			parent:         "http://example.org/dead",
			link:           "http://example.org/y",
			expectedQueued: true,
		},
	}

	// The cases share the result, so they run in order.
	for _, tc := range testCases {
		added, queued := r.discover(tc.parent, tc.link, found)

		assert.Equal(t, tc.expectedAdded, added, tc.scenario)
		assert.Equal(t, tc.expectedQueued, queued, tc.scenario)
	}

	assert.Equal(t, 3, numFound)
	assert.Equal(t, []string{"http://example.org/x"}, r.Graph["http://example.org/a"])
	assert.Equal(t, []string{"http://example.org/x", "http://example.org/"}, r.Graph["http://example.org/b"])
	assert.Equal(t, []string{"http://example.org/x", "http://example.org/y"}, r.Frontier())
}

func TestResult_DrainFrontier(t *testing.T) {
	t.Parallel()

	r := newResult("http://example.org/")
	r.recordVisit("http://example.org/", Visit{})

	r.discover("http://example.org/", "http://example.org/a", nil)
	r.discover("http://example.org/", "http://example.org/b", nil)

	assert.Equal(t, []string{"http://example.org/a", "http://example.org/b"}, r.drainFrontier())
	assert.Empty(t, r.Frontier())

	// Scheduled links are never queued again, even before they are visited.
	_, queued := r.discover("http://example.org/", "http://example.org/a", nil)

	assert.False(t, queued)
	assert.Empty(t, r.drainFrontier())
}

func TestResult_RecordVisit(t *testing.T) {
	t.Parallel()

	r := newResult("http://example.org/")

	dead := r.recordVisit("http://example.org/dead", Visit{Dead: true, Failure: ConnectionError})

	assert.Equal(t, 1, dead.Attempts)
	assert.NotContains(t, r.Graph, "http://example.org/dead")

	r.recordVisit("http://example.org/", Visit{StatusCode: 200})
	r.discover("http://example.org/", "http://example.org/a", nil)

	again := r.recordVisit("http://example.org/", Visit{StatusCode: 200})

	assert.Equal(t, 2, again.Attempts)
	assert.Equal(t, []string{"http://example.org/a"}, r.Graph["http://example.org/"])
	assert.Equal(t, footprint.Progress{Visited: 2, Pages: 1, Pending: 1}, r.progress())
}

package spider

import (
	"context"
	"errors"
	"io"
	"net/url"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/nhatthm/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwst121/spider/internal/collector"
)

type brokenCollector struct {
	doc *goquery.Document
	err error
}

func (c brokenCollector) Parse(io.Reader, *url.URL) (*goquery.Document, error) {
	return c.doc, c.err
}

func (c brokenCollector) GetLinks(*goquery.Document) []collector.Link {
	panic("GetLinks must not be called without a document")
}

func TestSpider_ProcessPage_ParseError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		scenario  string
		collector brokenCollector
		expected  error
	}{
		{
			scenario:  "collector error",
			collector: brokenCollector{err: errors.New("could not parse html doc: unexpected EOF")},
			expected:  errors.New("could not parse html doc: unexpected EOF"),
		},
		{
			scenario:  "no document",
			collector: brokenCollector{},
			expected:  ErrNoDocument,
		},
		{
			scenario:  "empty document",
			collector: brokenCollector{doc: &goquery.Document{}},
			expected:  ErrNoDocument,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.scenario, func(t *testing.T) {
			t.Parallel()

			srv := httpmock.New(func(s *httpmock.Server) {
				s.ExpectGet("/").
					ReturnHeader("Content-Type", "text/html").
					Return(`<a href="/a">A</a>`)
			})(t)

			numHTML := 0
			seed := srv.URL() + "/"

			s := New(seed,
				WithMaxDepth(2),
				WithHTMLCallback(func(string, *goquery.Document) {
					numHTML++
				}),
			)
			s.collector = tc.collector

			result := s.Crawl(context.Background())

			require.Contains(t, result.Visited, seed)

			v := result.Visited[seed]

			assert.False(t, v.Dead)
			assert.Equal(t, NoError, v.Failure)
			assert.Equal(t, tc.expected, v.ParseErr)
			assert.Equal(t, []string{}, result.Graph[seed])
			assert.Zero(t, numHTML)
		})
	}
}

func TestSpider_ProcessPage_FollowsHrefOnly(t *testing.T) {
	t.Parallel()

	srv := httpmock.New(func(s *httpmock.Server) {
		s.ExpectGet("/").
			ReturnHeader("Content-Type", "text/html").
			Return(`
				<link rel="stylesheet" href="/style.css">
				<script src="/app.js"></script>
				<img src="/logo.png">
				<a href="/about">About</a>
			`)
	})(t)

	seed := srv.URL() + "/"

	result := New(seed, WithMaxDepth(1)).Crawl(context.Background())

	assert.Equal(t, []string{srv.URL() + "/style.css", srv.URL() + "/about"}, result.Graph[seed])
}

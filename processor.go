package spider

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/bool64/ctxd"
)

// anchorAttribute is the only link attribute that is followed.
const anchorAttribute = "href"

// processPage fetches a page, then looks for new links in it.
func (s *Spider) processPage(ctx context.Context, pageURL string, result *Result) {
	ctx = ctxd.AddFields(ctx, "spider.url", pageURL)

	s.log.Debug(ctx, "processing page")

	resp, err := s.fetcher.fetch(ctx, pageURL, result)
	if err != nil {
		return
	}

	s.observer.responseReceived(pageURL, resp)

	mediaType := resp.MediaType()

	s.log.Debug(ctx, "parsed content type", "http.content_type", mediaType)

	if mediaType != "text/html" {
		return
	}

	doc, err := s.parseDocument(resp)
	if err != nil {
		result.recordParseError(pageURL, err)

		s.log.Error(ctx, "could not parse html page", "error", err, "spider.failure", ParseError.String())

		return
	}

	s.observer.htmlParsed(pageURL, doc)

	numLinks, numQueued := 0, 0

	for _, link := range s.collector.GetLinks(doc) {
		if link.Attribute != anchorAttribute {
			continue
		}

		added, queued := result.discover(pageURL, link.URL, func() {
			s.observer.linkFound(pageURL, link.URL, link.Element)
		})

		if added {
			numLinks++

			s.log.Debug(ctx, "found link", "spider.link", link.URL, "spider.queued", queued)
		}

		if queued {
			numQueued++
		}
	}

	s.log.Debug(ctx, "collected links",
		"spider.num_links", numLinks,
		"spider.num_queued", numQueued,
	)
}

// parseDocument parses the body of an html response. Links are resolved against the final url of the response.
func (s *Spider) parseDocument(resp *Response) (*goquery.Document, error) {
	base, err := url.Parse(resp.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse page url: %w", err)
	}

	doc, err := s.collector.Parse(resp.BodyReader(), base)
	if err != nil {
		return nil, err // nolint: wrapcheck // The collector error is meaningful.
	}

	if doc == nil || doc.Selection == nil || len(doc.Nodes) == 0 {
		return nil, ErrNoDocument
	}

	return doc, nil
}

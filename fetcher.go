package spider

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/bool64/ctxd"
)

const (
	acceptHeader         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptEncodingHeader = "gzip, deflate, br"
)

// fetcher performs the http requests of a crawl, one at a time.
type fetcher struct {
	client      *http.Client
	log         ctxd.Logger
	userAgent   string
	maxBodySize int64

	// mu is the connection lock. It is held from sending the request until the visit is recorded, because the client
	// session (cookies) is shared by the whole crawl.
	mu sync.Mutex
}

// fetch gets a page and records the visit in the result, whether the fetch succeeded or not.
//
// A failure is returned as a *FetchError.
func (f *fetcher) fetch(ctx context.Context, rawURL string, result *Result) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ctx = ctxd.AddFields(ctx,
		"http.url", rawURL,
		"http.timeout", f.client.Timeout.String(),
	)

	resp, err := f.doRequest(ctx, rawURL)

	visit := Visit{RedirectURL: rawURL}

	if resp != nil {
		visit.Redirected = resp.Redirected()
		visit.RedirectURL = resp.FinalURL
		visit.ContentType = resp.ContentType
		visit.ContentEncoding = resp.ContentEncoding
		visit.StatusCode = resp.StatusCode
	}

	if err != nil {
		kind := classifyError(err)

		visit.Dead = true
		visit.Failure = kind
		visit.Err = err

		result.recordVisit(rawURL, visit)

		f.log.Error(ctx, "could not fetch page", "error", err, "spider.failure", kind.String())

		return nil, &FetchError{Kind: kind, URL: rawURL, Err: err}
	}

	v := result.recordVisit(rawURL, visit)

	if v.Redirected {
		f.log.Debug(ctx, "page was redirected", "http.final_url", v.RedirectURL)
	}

	return resp, nil
}

func (f *fetcher) doRequest(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Encoding", acceptEncodingHeader)

	f.log.Debug(ctx, "send http request", "http.user_agent", f.userAgent)

	startTime := time.Now()
	httpResp, err := f.client.Do(req)
	endTime := time.Now()

	if err != nil {
		return nil, fmt.Errorf("failed to send http request: %w", err)
	}

	defer httpResp.Body.Close() // nolint: errcheck

	resp := &Response{
		URL:             rawURL,
		FinalURL:        httpResp.Request.URL.String(),
		StatusCode:      httpResp.StatusCode,
		Header:          httpResp.Header,
		ContentType:     httpResp.Header.Get("Content-Type"),
		ContentEncoding: httpResp.Header.Get("Content-Encoding"),
	}

	f.log.Debug(ctx, "received http response",
		"http.duration", endTime.Sub(startTime).String(),
		"http.status_code", resp.StatusCode,
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return resp, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	if resp.Body, err = f.readBody(httpResp); err != nil {
		return resp, err
	}

	return resp, nil
}

// readBody reads and decodes the response body, up to maxBodySize bytes.
func (f *fetcher) readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode gzip body: %w", err)
		}

		defer gz.Close() // nolint: errcheck

		r = gz

	case "deflate":
		fl := flate.NewReader(resp.Body)

		defer fl.Close() // nolint: errcheck

		r = fl

	case "br":
		r = brotli.NewReader(resp.Body)
	}

	body, err := io.ReadAll(io.LimitReader(r, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return body, nil
}

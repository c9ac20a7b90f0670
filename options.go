package spider

import (
	"net/http"
	"time"

	"github.com/bool64/ctxd"
)

// Option is option to set up Spider.
type Option interface {
	applySpiderOption(s *Spider)
}

type spiderOptionFunc func(s *Spider)

func (f spiderOptionFunc) applySpiderOption(s *Spider) {
	f(s)
}

// WithMaxDepth sets the number of levels to crawl. 1 fetches only the seed.
func WithMaxDepth(depth int) Option {
	return spiderOptionFunc(func(s *Spider) {
		s.maxDepth = depth
	})
}

// WithNumWorkers sets number of workers that fetch and process pages.
func WithNumWorkers(numWorkers int) Option {
	return spiderOptionFunc(func(s *Spider) {
		s.numWorkers = numWorkers
	})
}

// WithTimeout sets the timeout of a single fetch, including reading the body.
func WithTimeout(d time.Duration) Option {
	return spiderOptionFunc(func(s *Spider) {
		s.timeout = d
	})
}

// WithUserAgent sets the user agent sent with every request.
func WithUserAgent(userAgent string) Option {
	return spiderOptionFunc(func(s *Spider) {
		s.userAgent = userAgent
	})
}

// WithMaxBodySize sets the maximum number of bytes read from a response body. Longer bodies are truncated.
func WithMaxBodySize(n int64) Option {
	return spiderOptionFunc(func(s *Spider) {
		s.maxBodySize = n
	})
}

// WithHTTPClient sets the http client used for fetching. Its timeout is overridden by WithTimeout, or by the default timeout.
//
// The client is shared by every fetch of a crawl. Fetches are serialized, so its cookie jar does not need to be safe for
// concurrent use.
func WithHTTPClient(c *http.Client) Option {
	return spiderOptionFunc(func(s *Spider) {
		s.client = c
	})
}

// WithLogger sets logger for Spider.
func WithLogger(l ctxd.Logger) Option {
	return spiderOptionFunc(func(s *Spider) {
		s.log = l
	})
}

// WithFootprintInterval sets how often the memory usage and progress of a running crawl are logged at debug level.
func WithFootprintInterval(d time.Duration) Option {
	return spiderOptionFunc(func(s *Spider) {
		s.footprintInterval = d
	})
}

// WithObserver sets all the hooks at once. Nil hooks of o reset the corresponding callbacks.
func WithObserver(o Observer) Option {
	return spiderOptionFunc(func(s *Spider) {
		s.observer = o
	})
}

// WithLevelCallback sets the callback called when a level starts.
func WithLevelCallback(fn LevelCallback) Option {
	return spiderOptionFunc(func(s *Spider) {
		s.observer.OnLevelStart = fn
	})
}

// WithLinkCallback sets the callback called when a new link is found.
func WithLinkCallback(fn LinkCallback) Option {
	return spiderOptionFunc(func(s *Spider) {
		s.observer.OnLinkFound = fn
	})
}

// WithResponseCallback sets the callback called when a page is fetched.
func WithResponseCallback(fn ResponseCallback) Option {
	return spiderOptionFunc(func(s *Spider) {
		s.observer.OnResponse = fn
	})
}

// WithHTMLCallback sets the callback called when an html page is parsed.
func WithHTMLCallback(fn HTMLCallback) Option {
	return spiderOptionFunc(func(s *Spider) {
		s.observer.OnHTML = fn
	})
}

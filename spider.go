// Package spider crawls a website breadth-first, one level at a time, with a bounded number of workers.
package spider

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/bool64/ctxd"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/iwst121/spider/internal/collector"
	"github.com/iwst121/spider/internal/footprint"
	"github.com/iwst121/spider/internal/workerpool"
)

const (
	// defaultMaxDepth is the default number of levels to crawl.
	defaultMaxDepth = 3
	// defaultNumWorkers is the default value for number of workers.
	defaultNumWorkers = 3
	// maxNumWorkers is the limitation for number of workers to avoid resource saturation.
	maxNumWorkers = 64

	// defaultTimeout is the default timeout for requesting an url.
	defaultTimeout = 3 * time.Second
	// defaultMaxBodySize is the default maximum number of bytes read from a response body.
	defaultMaxBodySize = 10 << 20

	// defaultUserAgent is the default user agent to disguise.
	defaultUserAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/99.0.4844.51 Safari/537.36`
)

// Spider crawls a website from a seed url.
//
// The crawl goes level by level: every page of a level is fetched and processed before the links found on that level are
// fetched. Fetches are serialized crawl-wide, the workers overlap the processing of pages with the next fetch.
type Spider struct {
	seed      string
	fetcher   *fetcher
	collector collector.LinkCollector
	observer  Observer
	log       ctxd.Logger

	// maxDepth is the number of levels to crawl, the seed is level 1. Default value is defaultMaxDepth.
	maxDepth int
	// numWorkers is the number of pages processed in parallel. Default value is defaultNumWorkers.
	numWorkers int
	// timeout is the timeout of a single fetch. Default value is defaultTimeout.
	timeout time.Duration
	// userAgent is the user agent to disguise when sending request to server. Default value is defaultUserAgent.
	userAgent string
	// maxBodySize is the maximum size of a response body. Default value is defaultMaxBodySize.
	maxBodySize int64
	// footprintInterval is the interval of the debug footprint logs. Default value is footprint.DefaultInterval.
	footprintInterval time.Duration

	client *http.Client
}

// Crawl crawls the website and returns the result once the last level is done.
//
// Failures of single pages are recorded in the result and never stop the crawl. The crawl cannot be canceled: the values
// of ctx, such as log fields, are kept but its cancellation is ignored. Every fetch is bounded by the timeout instead.
func (s *Spider) Crawl(ctx context.Context) *Result {
	ctx = ctxd.AddFields(context.WithoutCancel(ctx),
		"spider.crawl_id", uuid.NewString(),
		"spider.root", s.seed,
	)

	startTime := time.Now()
	result := newResult(s.seed)

	s.log.Info(ctx, "started crawling",
		"spider.max_depth", s.maxDepth,
		"spider.num_workers", s.numWorkers,
	)

	trackCtx, stopTracking := context.WithCancel(ctx)
	trackDone := make(chan struct{})

	go func() {
		defer close(trackDone)

		footprint.Track(trackCtx, s.log, s.footprintInterval, result.progress)
	}()

	defer func() {
		stopTracking()
		<-trackDone
	}()

	pool := workerpool.New(ctx, s.numWorkers, workerpool.WithLogger(s.log))

	level := []string{s.seed}
	result.schedule(s.seed)

	for depth := 1; ; depth++ {
		s.crawlLevel(ctx, pool, result, depth, level)

		if depth >= s.maxDepth {
			break
		}

		level = result.drainFrontier()
	}

	// Every level already waited for its work, this covers anything still in the pool.
	pool.Wait()

	s.log.Info(ctx, "finished crawling",
		"spider.duration", time.Since(startTime).String(),
		"spider.num_visited", len(result.Visited),
		"spider.num_pages", len(result.Graph),
	)

	return result
}

// crawlLevel submits the urls of a level and waits until they, and everything they trigger, are processed.
func (s *Spider) crawlLevel(ctx context.Context, pool *workerpool.Pool, result *Result, depth int, urls []string) {
	ctx = ctxd.AddFields(ctx, "spider.depth", depth)

	s.observer.levelStarted(depth)

	s.log.Info(ctx, "started level", "spider.num_urls", len(urls))

	for _, u := range urls {
		u := u

		pool.Submit(func(context.Context) {
			s.processPage(ctx, u, result)
		})
	}

	pool.Wait()

	s.log.Info(ctx, "finished level")
}

// New creates a new Spider that crawls from the seed url.
//
// Usage:
//
//	s := spider.New("https://example.org/",
//		spider.WithMaxDepth(2),
//		spider.WithLinkCallback(func(parentURL, url string, _ *goquery.Selection) {
//			fmt.Println(parentURL, "->", url)
//		}),
//	)
//
//	result := s.Crawl(ctx)
//
//	for page, links := range result.Graph {
//		fmt.Printf("%s: %d links\n", page, len(links))
//	}
func New(seed string, opts ...Option) *Spider {
	s := &Spider{
		seed:      seed,
		collector: collector.NewHTMLLinkCollector(),
		log:       ctxd.NoOpLogger{},

		maxDepth:          defaultMaxDepth,
		numWorkers:        defaultNumWorkers,
		timeout:           defaultTimeout,
		userAgent:         defaultUserAgent,
		maxBodySize:       defaultMaxBodySize,
		footprintInterval: footprint.DefaultInterval,
	}

	for _, opt := range opts {
		opt.applySpiderOption(s)
	}

	// Safeguard the configuration.
	if s.maxDepth < 1 {
		s.maxDepth = 1
	}

	if s.numWorkers < 1 {
		s.numWorkers = defaultNumWorkers
	} else if s.numWorkers > maxNumWorkers {
		s.numWorkers = maxNumWorkers
	}

	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}

	if s.maxBodySize <= 0 {
		s.maxBodySize = defaultMaxBodySize
	}

	s.fetcher = &fetcher{
		client:      newHTTPClient(s.client, s.timeout),
		log:         s.log,
		userAgent:   s.userAgent,
		maxBodySize: s.maxBodySize,
	}

	return s
}

// newHTTPClient returns a copy of c, or a new client with a cookie jar if c is nil, with the given timeout.
func newHTTPClient(c *http.Client, timeout time.Duration) *http.Client {
	if c == nil {
		jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}) // nolint: errcheck // cookiejar.New never fails.

		c = &http.Client{Jar: jar}
	}

	client := *c
	client.Timeout = timeout

	return &client
}

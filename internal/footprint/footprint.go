package footprint

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/bool64/ctxd"
)

// DefaultInterval is the default reporting interval.
const DefaultInterval = 100 * time.Millisecond

// Progress is a snapshot of a running crawl.
type Progress struct {
	Visited int // Number of urls a fetch was attempted for.
	Pages   int // Number of pages that have an adjacency entry.
	Pending int // Number of links waiting for the next level.
}

// Track writes the resources usage and the crawl progress to the log on every interval until the context is done.
//
// The progress function is called from the tracking goroutine, so it must be safe for concurrent use.
func Track(ctx context.Context, log ctxd.Logger, interval time.Duration, progress func() Progress) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			report(ctx, log, progress)
		}
	}
}

func report(ctx context.Context, log ctxd.Logger, progress func() Progress) {
	// See: https://golang.org/pkg/runtime/#MemStats
	var m runtime.MemStats

	runtime.ReadMemStats(&m)

	keysAndValues := []interface{}{
		"alloc_mb", formatB(m.Alloc),
		"total_alloc_mb", formatB(m.TotalAlloc),
		"sys_mb", formatB(m.Sys),
		"num_gc", m.NumGC,
		"num_goroutine", runtime.NumGoroutine(),
	}

	if progress != nil {
		p := progress()

		keysAndValues = append(keysAndValues,
			"spider.visited", p.Visited,
			"spider.pages", p.Pages,
			"spider.pending", p.Pending,
		)
	}

	log.Debug(ctx, "crawl footprint", keysAndValues...)
}

func formatB(b uint64) string {
	return fmt.Sprintf("%dMiB", b/1024/1024) // nolint: gomnd // bytes conversion.
}

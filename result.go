package spider

import (
	"slices"
	"sync"

	"github.com/iwst121/spider/internal/footprint"
)

// Visit is what the spider knows about one fetched url.
type Visit struct {
	Redirected      bool
	RedirectURL     string
	ContentType     string
	ContentEncoding string
	StatusCode      int

	Dead    bool
	Failure ErrorKind // NoError unless Dead.
	Err     error

	// ParseErr is set when the fetch succeeded but the html body could not be parsed.
	ParseErr error

	Attempts int
}

// Result is the outcome of a crawl.
//
// The spider mutates a Result only while Crawl runs. Once Crawl returns, the Result is read-only and belongs to the caller.
type Result struct {
	Root    string
	Graph   map[string][]string
	Visited map[string]*Visit

	frontier  []string
	pending   map[string]struct{}
	scheduled map[string]struct{}
	mu        sync.Mutex // Guards Graph, Visited, frontier, pending and scheduled.
}

func newResult(root string) *Result {
	return &Result{
		Root:      root,
		Graph:     make(map[string][]string),
		Visited:   make(map[string]*Visit),
		pending:   make(map[string]struct{}),
		scheduled: make(map[string]struct{}),
	}
}

// Frontier returns the links that were discovered but never scheduled, in discovery order.
func (r *Result) Frontier() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.frontier)
}

// recordVisit records a fetch attempt of u. A successful fetch also creates the adjacency entry of u.
func (r *Result) recordVisit(u string, v Visit) *Visit {
	r.mu.Lock()
	defer r.mu.Unlock()

	v.Attempts = 1

	if prev, ok := r.Visited[u]; ok {
		v.Attempts = prev.Attempts + 1
	}

	r.Visited[u] = &v

	if !v.Dead {
		if _, ok := r.Graph[u]; !ok {
			r.Graph[u] = []string{}
		}
	}

	return &v
}

// recordParseError marks that the body of u was fetched but could not be parsed.
func (r *Result) recordParseError(u string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.Visited[u]; ok {
		v.ParseErr = err
	}
}

// discover records a link from parent to link and runs found while the lock is held if the link is new to parent.
//
// The link is appended to the adjacency list of parent unless it is already there. It is queued for the next level unless
// it is pending, scheduled, already visited or already has an adjacency entry.
func (r *Result) discover(parent, link string, found func()) (added, queued bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if adj, ok := r.Graph[parent]; ok && !slices.Contains(adj, link) {
		r.Graph[parent] = append(adj, link)
		added = true
	}

	if !r.isKnown(link) {
		r.frontier = append(r.frontier, link)
		r.pending[link] = struct{}{}
		queued = true
	}

	if added && found != nil {
		found()
	}

	return added, queued
}

func (r *Result) isKnown(link string) bool {
	if _, ok := r.pending[link]; ok {
		return true
	}

	if _, ok := r.scheduled[link]; ok {
		return true
	}

	if _, ok := r.Visited[link]; ok {
		return true
	}

	_, ok := r.Graph[link]

	return ok
}

// schedule marks urls as submitted to the pool.
func (r *Result) schedule(urls ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range urls {
		r.scheduled[u] = struct{}{}
	}
}

// drainFrontier removes and returns every pending link, in discovery order, and marks them as scheduled.
func (r *Result) drainFrontier() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	links := r.frontier
	r.frontier = nil
	r.pending = make(map[string]struct{})

	for _, u := range links {
		r.scheduled[u] = struct{}{}
	}

	return links
}

func (r *Result) progress() footprint.Progress {
	r.mu.Lock()
	defer r.mu.Unlock()

	return footprint.Progress{
		Visited: len(r.Visited),
		Pages:   len(r.Graph),
		Pending: len(r.frontier),
	}
}

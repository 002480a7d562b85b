package scrape

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// URLQueue is an in-order URL queue with Bloom filter deduplication, used to
// collapse duplicates out of caller-supplied URL lists in direct-URL runs.
// A false positive drops a URL that was never seen; at the filter's sizing
// that risk is accepted the same way it is for crawl frontiers, since the
// progress ledger (not the queue) is the source of truth for completion.
// It is safe for concurrent use by multiple goroutines.
type URLQueue struct {
	mu    sync.Mutex
	seen  *bloom.BloomFilter
	queue []string
}

// NewURLQueue creates a URLQueue sized for n expected URLs with the given
// false positive rate for deduplication.
func NewURLQueue(n uint, fpRate float64) *URLQueue {
	return &URLQueue{
		seen: bloom.NewWithEstimates(n, fpRate),
	}
}

// Push adds a URL to the queue. Returns false if the URL has already been
// seen. Fragments are stripped first, so URLs differing only by fragment are
// duplicates.
func (q *URLQueue) Push(rawURL string) bool {
	url := stripFragment(rawURL)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.seen.TestString(url) {
		return false
	}
	q.seen.AddString(url)
	q.queue = append(q.queue, url)
	return true
}

// Pop returns the next URL in insertion order.
// The bool result is false if the queue is empty.
func (q *URLQueue) Pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.queue) == 0 {
		return "", false
	}
	url := q.queue[0]
	q.queue = q.queue[1:]
	return url, true
}

// Len returns the number of URLs waiting in the queue.
func (q *URLQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}

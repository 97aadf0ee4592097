package pubsitemap

import (
	"sync"
	"time"
)

// Limiter allows at most max events per key within a sliding window. It
// throttles admin logins per IP and search engine pings per sitemap URL.
type Limiter struct {
	mu     sync.Mutex
	events map[string][]time.Time
	max    int
	window time.Duration
	now    func() time.Time
	stop   chan struct{}
	once   sync.Once
}

// NewLimiter creates a Limiter that allows max events per window and starts
// its cleanup loop. Call Close to stop it.
func NewLimiter(max int, window time.Duration) *Limiter {
	l := &Limiter{
		events: make(map[string][]time.Time),
		max:    max,
		window: window,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			for key := range l.events {
				l.prune(key)
			}
			l.mu.Unlock()
		}
	}
}

// prune drops expired events of key. l.mu must be held.
func (l *Limiter) prune(key string) []time.Time {
	cutoff := l.now().Add(-l.window)
	hits := l.events[key]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.events, key)
		return nil
	}
	l.events[key] = kept
	return kept
}

// Allow records an event for key if the limit is not reached and reports
// whether it did.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.prune(key)) >= l.max {
		return false
	}
	l.events[key] = append(l.events[key], l.now())
	return true
}

// Check reports whether key is under the limit without recording an event.
func (l *Limiter) Check(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prune(key)) < l.max
}

// Record registers an event for key.
func (l *Limiter) Record(key string) {
	l.mu.Lock()
	l.events[key] = append(l.events[key], l.now())
	l.mu.Unlock()
}

// Close stops the cleanup loop.
func (l *Limiter) Close() {
	l.once.Do(func() { close(l.stop) })
}

package rnfi

import (
	"sync"
	"time"
)

// ContactLimiter rate-limits contact form submissions per IP address with a
// sliding window.
type ContactLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewContactLimiter creates a ContactLimiter that allows max submissions per
// window. Call Stop to end its cleanup goroutine.
func NewContactLimiter(max int, window time.Duration) *ContactLimiter {
	if window <= 0 {
		window = time.Minute
	}
	l := &ContactLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *ContactLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
		}
		l.mu.Lock()
		for ip := range l.attempts {
			if len(l.prune(ip)) == 0 {
				delete(l.attempts, ip)
			}
		}
		l.mu.Unlock()
	}
}

// prune drops expired hits of ip. l.mu must be held.
func (l *ContactLimiter) prune(ip string) []time.Time {
	cutoff := l.now().Add(-l.window)
	hits := l.attempts[ip]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.attempts[ip] = kept
	return kept
}

// Allow checks the limit and records a submission when it is not exceeded.
func (l *ContactLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.prune(ip)) >= l.max {
		return false
	}
	l.attempts[ip] = append(l.attempts[ip], l.now())
	return true
}

// Check returns true if the IP has not exceeded the rate limit. It does not
// record anything.
func (l *ContactLimiter) Check(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prune(ip)) < l.max
}

// Release gives back the most recent slot taken by Allow for ip, for a
// submission that was not stored after all.
func (l *ContactLimiter) Release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if hits := l.attempts[ip]; len(hits) > 0 {
		l.attempts[ip] = hits[:len(hits)-1]
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *ContactLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

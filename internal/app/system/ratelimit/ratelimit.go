// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts requests per key in fixed windows. It is safe for
// concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	count     int
	expiresAt time.Time
}

// New allows limit requests per key in each window of duration. A background
// sweep drops expired keys until Stop is called.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.sweepLoop(duration * 2)
	return l
}

// Allow records a request for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining is how many requests key has left in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return l.limit
	}
	return max(l.limit-w.count, 0)
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Stop ends the background sweep.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, w := range l.windows {
				if now.After(w.expiresAt) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// SubmitLimiter throttles a public form by client IP and by the email
// address it names, so neither one sender nor one address can flood the
// inbox.
type SubmitLimiter struct {
	ip    *Limiter
	email *Limiter
}

// NewSubmitLimiter allows perWindow submissions per IP and per email in
// each window.
func NewSubmitLimiter(perWindow int, window time.Duration) *SubmitLimiter {
	if perWindow <= 0 {
		perWindow = 5
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &SubmitLimiter{
		ip:    New(perWindow, window),
		email: New(perWindow, window),
	}
}

// Check records an attempt and returns (allowed, reason).
func (sl *SubmitLimiter) Check(r *http.Request, email string) (bool, string) {
	if !sl.ip.Allow(ClientIP(r)) {
		return false, "Too many messages from your connection. Please try again later."
	}
	if key := strings.ToLower(strings.TrimSpace(email)); key != "" {
		if !sl.email.Allow(key) {
			return false, "Too many messages for this email address. Please try again later."
		}
	}
	return true, ""
}

// Stop ends both background sweeps.
func (sl *SubmitLimiter) Stop() {
	sl.ip.Stop()
	sl.email.Stop()
}

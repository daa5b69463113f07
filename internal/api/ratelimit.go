package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ActionLimiter throttles the gameplay POST endpoints per client. Heat,
// vehicle, and safe house actions mutate world state, so each caller gets a
// fixed budget of actions per window; the read surface stays unthrottled.
type ActionLimiter struct {
	mu      sync.Mutex
	windows map[string]*actionWindow
	limit   int
	span    time.Duration
}

type actionWindow struct {
	remaining int
	openedAt  time.Time
}

// NewActionLimiter allows limit actions per client within each span.
func NewActionLimiter(limit int, span time.Duration) *ActionLimiter {
	l := &ActionLimiter{
		windows: make(map[string]*actionWindow),
		limit:   limit,
		span:    span,
	}
	// Stale windows pile up as spectators come and go; sweep hourly.
	go func() {
		for {
			time.Sleep(time.Hour)
			l.prune()
		}
	}()
	return l
}

// Allow spends one action for the client, opening a fresh window when the
// previous one has lapsed. Returns false once the budget is gone.
func (l *ActionLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[client]
	if !ok || now.Sub(w.openedAt) >= l.span {
		l.windows[client] = &actionWindow{remaining: l.limit - 1, openedAt: now}
		return true
	}
	if w.remaining > 0 {
		w.remaining--
		return true
	}
	return false
}

// RetryAfter reports whole seconds until the client's window resets.
func (l *ActionLimiter) RetryAfter(client string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[client]
	if !ok {
		return 0
	}
	left := l.span - time.Since(w.openedAt)
	if left <= 0 {
		return 0
	}
	return int(left.Seconds()) + 1
}

func (l *ActionLimiter) prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for client, w := range l.windows {
		if now.Sub(w.openedAt) > 2*l.span {
			delete(l.windows, client)
		}
	}
}

// clientIP identifies the caller: the first hop of X-Forwarded-For when the
// server sits behind a proxy, otherwise the connection's remote address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// withActionLimit rejects over-budget gameplay requests with 429 and a
// Retry-After hint.
func withActionLimit(l *ActionLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := clientIP(r)
		if !l.Allow(client) {
			w.Header().Set("Retry-After", strconv.Itoa(l.RetryAfter(client)))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"tasksApp/internal/logger"

	"go.uber.org/zap"
)

// RateLimitWindow is the window requests_per_minute is counted over.
const RateLimitWindow = time.Minute

type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	Limit     int
}

type Limiter interface {
	Allow(ctx context.Context, key string) (*RateLimitResult, error)
}

// RateLimitError is passed to the error writer when a client is over budget.
type RateLimitError struct {
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Rate limit exceeded, retry in %ds", e.RetryAfter)
}

type clientInfo struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a fixed-window counter per key, local to this process.
type MemoryLimiter struct {
	limit   int
	window  time.Duration
	clients map[string]*clientInfo
	mtx     sync.Mutex
	now     func() time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*clientInfo),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (*RateLimitResult, error) {
	now := l.now()

	l.mtx.Lock()
	defer l.mtx.Unlock()

	info, exists := l.clients[key]
	switch {
	case !exists:
		info = &clientInfo{count: 1, resetAt: now.Add(l.window)}
		l.clients[key] = info
		l.evictExpired(now)
	case now.After(info.resetAt):
		info.count = 1
		info.resetAt = now.Add(l.window)
	case info.count >= l.limit:
		return &RateLimitResult{Allowed: false, Remaining: 0, ResetAt: info.resetAt, Limit: l.limit}, nil
	default:
		info.count++
	}

	return &RateLimitResult{
		Allowed:   true,
		Remaining: max(l.limit-info.count, 0),
		ResetAt:   info.resetAt,
		Limit:     l.limit,
	}, nil
}

// evictExpired must be called with the lock held.
func (l *MemoryLimiter) evictExpired(now time.Time) {
	for key, info := range l.clients {
		if now.After(info.resetAt) {
			delete(l.clients, key)
		}
	}
}

// RateLimit hands a *RateLimitError to onLimited once a client IP exceeds the
// limiter's budget. Limiter failures let the request through.
func RateLimit(limiter Limiter, onLimited func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getIp(r)

			res, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				logger.Warn("HTTP: rate limiter unavailable", zap.Error(err), zap.String("client_ip", ip))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				retryAfter := int(time.Until(res.ResetAt).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				logger.Warn("HTTP: rate limit exceeded",
					zap.String("client_ip", ip),
					zap.String("request_id", GetRequestID(r.Context())))

				onLimited(w, r, &RateLimitError{RetryAfter: retryAfter})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func getIp(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

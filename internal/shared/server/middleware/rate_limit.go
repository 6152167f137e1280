package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"jobapp-generator/internal/shared/server/respond"
)

const (
	defaultRateLimitGroup = "DEFAULT"
	pruneInterval         = time.Minute
)

// RateLimitRule is a token bucket: Rate tokens per second, at most Burst banked.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// PerMinute builds a rule from a per-minute budget.
func PerMinute(n float64, burst int) RateLimitRule {
	return RateLimitRule{Rate: n / 60.0, Burst: burst}
}

type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
	// OnLimited may write its own response for a rejected request and return
	// true. Otherwise the JSON error envelope is sent.
	OnLimited func(c *gin.Context, retryAfter time.Duration) bool
}

// RateLimiter keeps one bucket per client and group. Buckets that have
// refilled completely are dropped, since a fresh one behaves the same.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*rate.Limiter
	now       func() time.Time
	lastPrune time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rate.Limiter),
		now:     now,
	}
}

func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		key := strings.TrimSpace(c.ClientIP()) + "|" + group
		allowed, retryAfter := cfg.Limiter.Allow(key, rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterMs := int(retryAfter / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		retryAfterSeconds := int(math.Ceil(float64(retryAfterMs) / 1000.0))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		if cfg.OnLimited != nil && cfg.OnLimited(c, retryAfter) {
			c.Abort()
			return
		}
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests, slow down", gin.H{
			"retryAfterMs": retryAfterMs,
		})
	}
}

// Allow takes one token from the bucket for key. When the bucket is empty it
// reports how long until a token is available and leaves the bucket unchanged.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	lim := l.bucket(key, rule, now)

	res := lim.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	delay := res.DelayFrom(now)
	if delay <= 0 {
		return true, 0
	}
	res.CancelAt(now)
	return false, delay
}

func (l *RateLimiter) bucket(key string, rule RateLimitRule, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastPrune) >= pruneInterval {
		l.pruneLocked(now)
	}
	lim, ok := l.buckets[key]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(rule.Rate), rule.Burst)
		l.buckets[key] = lim
	}
	return lim
}

func (l *RateLimiter) pruneLocked(now time.Time) {
	for key, lim := range l.buckets {
		if lim.TokensAt(now) >= float64(lim.Burst()) {
			delete(l.buckets, key)
		}
	}
	l.lastPrune = now
}

// Len reports how many client buckets are currently tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

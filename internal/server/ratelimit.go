package server

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	clientIdleTTL   = 5 * time.Minute
	cleanupInterval = 3 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// InboundLimiter is a per-client token bucket for the public routes. It is
// unrelated to the outbound limiter that protects the upstream API.
type InboundLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	rate     rate.Limit
	burst    int
	stop     chan struct{}
	once     sync.Once
}

func NewInboundLimiter(r rate.Limit, burst int) *InboundLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &InboundLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     r,
		burst:    burst,
		stop:     make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

func (l *InboundLimiter) get(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if c, ok := l.limiters[client]; ok {
		c.lastSeen = time.Now()
		return c.limiter
	}
	limiter := rate.NewLimiter(l.rate, l.burst)
	l.limiters[client] = &clientLimiter{limiter: limiter, lastSeen: time.Now()}
	return limiter
}

func (l *InboundLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			for client, c := range l.limiters {
				if time.Since(c.lastSeen) > clientIdleTTL {
					delete(l.limiters, client)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Close stops the cleanup goroutine.
func (l *InboundLimiter) Close() {
	l.once.Do(func() { close(l.stop) })
}

func (l *InboundLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.get(c.RealIP()).Allow() {
				retryAfter := max(int(math.Ceil(1.0/float64(l.rate))), 1)
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return c.JSON(http.StatusTooManyRequests, errorBody{Error: "Too many requests"})
			}
			return next(c)
		}
	}
}

// Package ratelimit throttles outbound requests per host.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter keeps one token bucket per hostname, so all sources served
// from raw.githubusercontent.com share a budget while api.github.com has
// its own.
type HostLimiter struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	limit rate.Limit
	burst int
}

// NewHostLimiter allows reqPerSec requests per host with the given burst.
// A non-positive reqPerSec disables limiting.
func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	limit := rate.Limit(reqPerSec)
	if reqPerSec <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &HostLimiter{
		m:     make(map[string]*rate.Limiter),
		limit: limit,
		burst: burst,
	}
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.m[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(hl.limit, hl.burst)
	hl.m[host] = lim
	return lim
}

// Wait blocks until a request to host is allowed or ctx is done.
func (hl *HostLimiter) Wait(ctx context.Context, host string) error {
	if host == "" {
		host = "_"
	}
	if err := hl.limiterFor(host).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", host, err)
	}
	return nil
}

// Transport is an http.RoundTripper that waits on a HostLimiter before
// delegating to the wrapped transport.
type Transport struct {
	inner   http.RoundTripper
	limiter *HostLimiter
}

// NewTransport wraps inner (http.DefaultTransport when nil) with limiting.
// All clients that should share a budget must share the limiter.
func NewTransport(inner http.RoundTripper, limiter *HostLimiter) *Transport {
	if inner == nil {
		inner = http.DefaultTransport
	}
	return &Transport{inner: inner, limiter: limiter}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context(), req.URL.Host); err != nil {
		return nil, err
	}
	return t.inner.RoundTrip(req)
}

// Package ratelimit implements fixed-window request counting over a shared
// atomic counter store. Windows are epoch-aligned, so traffic can burst up to
// twice the limit across a window boundary; that is the accepted fixed-window
// approximation.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AnthoniusHendriyanto/blog-service/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/blog-service/internal/auth/service"
	autherror "github.com/AnthoniusHendriyanto/blog-service/internal/errors"
	"github.com/AnthoniusHendriyanto/blog-service/internal/logger"
)

// AccessTokenVerifier is the best-effort token reader used for identifier
// derivation. It is not the strict resolver: a bad token here just means the
// request is counted against its address instead.
type AccessTokenVerifier interface {
	VerifyAccessToken(tokenString string) (*service.JWTCustomClaims, error)
}

// Limiter counts requests per identifier per window. Independent limiters
// must use distinct scopes so their counters never collide.
type Limiter struct {
	scope  string
	limit  int64
	window int64 // seconds
	store  domain.CounterStore
	clock  domain.Clock
	log    *logger.Logger
}

func New(scope string, limit, windowSeconds int, store domain.CounterStore, clock domain.Clock, log *logger.Logger) *Limiter {
	return &Limiter{
		scope:  scope,
		limit:  int64(limit),
		window: int64(windowSeconds),
		store:  store,
		clock:  clock,
		log:    log,
	}
}

// Allow records one request for the identifier and reports whether it fits
// the current window's budget. The first increment of a window sets the key's
// expiry so stale windows self-clean; INCR and EXPIRE are two round-trips, so
// a crash between them can leave a key without a TTL until it is cleaned up
// by hand. Store failures fail open: the limiter must not gate service
// availability.
func (l *Limiter) Allow(ctx context.Context, identifier string) error {
	windowIndex := l.clock.Now().Unix() / l.window
	key := fmt.Sprintf("rate:%s:%s:%d", l.scope, identifier, windowIndex)

	count, err := l.store.Increment(ctx, key)
	if err != nil {
		l.log.Warn("rate limit store unavailable, failing open", "key", key, "error", err)
		return nil
	}

	if count == 1 {
		if err := l.store.SetExpiry(ctx, key, l.Window()); err != nil {
			l.log.Warn("failed to set rate limit window expiry", "key", key, "error", err)
		}
	}

	if count > l.limit {
		return autherror.ErrRateLimited
	}

	return nil
}

// Window returns the window length as a duration.
func (l *Limiter) Window() time.Duration {
	return time.Duration(l.window) * time.Second
}

// Identifier derives the counter identifier for a request: the token subject
// when a decodable bearer token is present, the client address otherwise.
// Token errors are swallowed on purpose; this is optional authentication.
func Identifier(tokens AccessTokenVerifier, authHeader, clientIP string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(authHeader, prefix) {
		if claims, err := tokens.VerifyAccessToken(strings.TrimPrefix(authHeader, prefix)); err == nil {
			return "user:" + claims.Subject
		}
	}
	return "ip:" + clientIP
}

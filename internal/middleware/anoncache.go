package middleware

import (
	"time"

	"scribe/internal/cache"
	"scribe/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// CacheHeader reports how the anonymous response cache handled a request.
const CacheHeader = "X-Cache"

// AnonCacheConfig configures CacheIfAnonymous.
type AnonCacheConfig struct {
	Store cache.ResponseStore
	TTL   time.Duration
	// Route labels metrics; defaults to the matched route path.
	Route string
	// IsAuthenticated decides whether the caller gets a personalised response.
	IsAuthenticated func(c *fiber.Ctx) bool
}

// CacheIfAnonymous serves GET responses from the store for anonymous callers
// and stores successful anonymous responses for TTL. Authenticated callers
// never read or populate the cache.
func CacheIfAnonymous(cfg AnonCacheConfig) fiber.Handler {
	if cfg.TTL <= 0 {
		cfg.TTL = cache.ResponseTTL
	}

	return func(c *fiber.Ctx) error {
		route := cfg.Route
		if route == "" {
			route = c.Route().Path
		}

		if c.Method() != fiber.MethodGet || cfg.Store == nil ||
			(cfg.IsAuthenticated != nil && cfg.IsAuthenticated(c)) {
			observability.ResponseCacheEvents.WithLabelValues(route, observability.CacheBypass).Inc()
			c.Set(CacheHeader, "BYPASS")
			return c.Next()
		}

		ctx := c.UserContext()
		key := cache.ResponseKey(c.Method(), c.OriginalURL())

		cached, found, err := cfg.Store.Get(ctx, key)
		if err != nil {
			Logger.WarnContext(ctx, "response cache read failed", "key", key, "error", err)
		}
		if found {
			observability.ResponseCacheEvents.WithLabelValues(route, observability.CacheHit).Inc()
			c.Set(CacheHeader, "HIT")
			if cached.ContentType != "" {
				c.Set(fiber.HeaderContentType, cached.ContentType)
			}
			return c.Status(cached.Status).Send(cached.Body)
		}

		observability.ResponseCacheEvents.WithLabelValues(route, observability.CacheMiss).Inc()
		c.Set(CacheHeader, "MISS")

		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}

		body := append([]byte(nil), c.Response().Body()...)
		entry := &cache.CachedResponse{
			Status:      fiber.StatusOK,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        body,
		}
		if err := cfg.Store.Set(ctx, key, entry, cfg.TTL); err != nil {
			Logger.WarnContext(ctx, "response cache write failed", "key", key, "error", err)
		}
		return nil
	}
}

package api

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hopelouisville/dashboard/internal/config"
	"github.com/hopelouisville/dashboard/internal/pkg/cache"
)

const headerXCache = "X-Cache"

const (
	cacheStats     = "stats"
	cacheResources = "resources"
	cacheAlerts    = "alerts"
	cacheExternal  = "external"
)

type cachedResponse struct {
	contentType string
	body        []byte
}

// responseCache keeps successful GET responses per category, keyed by request URI.
type responseCache struct {
	categories map[string]*cache.Cache
}

func newResponseCache(cfg config.Cache, opts ...cache.Option) *responseCache {
	return &responseCache{
		categories: map[string]*cache.Cache{
			cacheStats:     cache.New(cfg.StatsTTL, opts...),
			cacheResources: cache.New(cfg.ResourcesTTL, opts...),
			cacheAlerts:    cache.New(cfg.HTTPAlertsTTL, opts...),
			cacheExternal:  cache.New(cfg.ExternalTTL, opts...),
		},
	}
}

func (rc *responseCache) invalidate(category string) {
	if c, ok := rc.categories[category]; ok {
		c.Clear()
	}
}

type bodyRecorder struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (rc *responseCache) middleware(category string) echo.MiddlewareFunc {
	store := rc.categories[category]

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if store == nil || ctx.Request().Method != http.MethodGet {
				return next(ctx)
			}

			key := ctx.Request().URL.RequestURI()
			if v, ok := store.Get(key); ok {
				if cached, ok := v.(cachedResponse); ok {
					ctx.Response().Header().Set(headerXCache, "HIT")
					return ctx.Blob(http.StatusOK, cached.contentType, cached.body)
				}
			}

			ctx.Response().Header().Set(headerXCache, "MISS")

			res := ctx.Response()
			rec := &bodyRecorder{ResponseWriter: res.Writer}
			res.Writer = rec
			defer func() { res.Writer = rec.ResponseWriter }()

			if err := next(ctx); err != nil {
				return err
			}

			if res.Status == http.StatusOK {
				store.Set(key, cachedResponse{
					contentType: res.Header().Get(echo.HeaderContentType),
					body:        bytes.Clone(rec.body.Bytes()),
				})
			}
			return nil
		}
	}
}

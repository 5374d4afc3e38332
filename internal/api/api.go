package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/time/rate"

	"github.com/hopelouisville/dashboard/internal/api/controller"
	"github.com/hopelouisville/dashboard/internal/config"
	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/cache"
	"github.com/hopelouisville/dashboard/internal/pkg/logger"
	"github.com/hopelouisville/dashboard/internal/service/scheduler"
)

// ChangeNotifier is implemented by services that announce writes.
type ChangeNotifier interface {
	OnChange(fn func(ctx context.Context))
}

// AlertsFeed is the scheduler publishing refreshed alerts.
type AlertsFeed interface {
	Subscribe(fn scheduler.Listener[domain.SourceResult[[]domain.Alert]]) (unsubscribe func())
}

type Options struct {
	HTTP  config.HTTP
	Cache config.Cache

	LogLevel string

	// AlertsFeed and ResourceChanges invalidate the matching response caches. Both are optional.
	AlertsFeed      AlertsFeed
	ResourceChanges ChangeNotifier

	// CacheOptions are passed to every response cache, mainly to inject a clock in tests.
	CacheOptions []cache.Option
}

type APIService struct {
	router *echo.Echo
	cache  *responseCache
}

func (svc *APIService) Serve(addr string) error {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func (svc *APIService) Handler() http.Handler {
	return svc.router
}

func NewAPIService(opts Options, deps controller.Deps) (*APIService, error) {
	if deps.Stats == nil || deps.Feed == nil || deps.Resources == nil || deps.Volunteers == nil || deps.Forecast == nil {
		return nil, errors.New("api: missing service dependency")
	}

	svc := &APIService{
		router: echo.New(),
		cache:  newResponseCache(opts.Cache, opts.CacheOptions...),
	}

	svc.router.HideBanner = true
	svc.router.HidePort = true
	svc.router.Logger.SetLevel(echoLogLevel(opts.LogLevel))

	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = JSONSerializer{}
	svc.router.HTTPErrorHandler = httpErrorHandler

	svc.router.Use(middleware.Recover())
	svc.router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			c.SetRequest(c.Request().WithContext(logger.With(c.Request().Context(), "request_id", id)))
		},
	}))
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: opts.HTTP.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	if opts.HTTP.RateLimit > 0 {
		svc.router.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(opts.HTTP.RateLimit),
				Burst:     opts.HTTP.RateBurst,
				ExpiresIn: 3 * time.Minute,
			}),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
		}))
	}

	// A new bundle replaces every dataset, including the merged resource directory.
	deps.Feed.Subscribe(func(context.Context, domain.Bundle) {
		svc.cache.invalidate(cacheStats)
		svc.cache.invalidate(cacheResources)
	})
	if opts.AlertsFeed != nil {
		opts.AlertsFeed.Subscribe(func(context.Context, domain.SourceResult[[]domain.Alert]) {
			svc.cache.invalidate(cacheAlerts)
		})
	}
	if opts.ResourceChanges != nil {
		opts.ResourceChanges.OnChange(func(context.Context) {
			svc.cache.invalidate(cacheResources)
		})
	}

	cntrl := controller.NewController(deps)

	api := svc.router.Group("/api")
	api.GET("/health", cntrl.Health)

	stats := api.Group("/stats")
	cachedStats := svc.cache.middleware(cacheStats)
	stats.GET("/current", cntrl.GetCurrentStats, cachedStats)
	stats.GET("/historical", cntrl.GetHistorical, cachedStats)
	stats.GET("/beds", cntrl.GetBeds, cachedStats)
	stats.GET("/impact", cntrl.GetImpact, cachedStats)
	stats.GET("/forecast", cntrl.GetForecast, cachedStats)
	stats.GET("/all", cntrl.GetAll)
	stats.POST("/refresh", cntrl.RefreshStats)
	stats.GET("/stream", cntrl.StreamStats)

	resources := api.Group("/resources", svc.cache.middleware(cacheResources))
	resources.GET("", cntrl.ListResources)
	resources.GET("/nearby", cntrl.NearbyResources)
	resources.GET("/directory", cntrl.ResourceDirectory)
	resources.GET("/:id", cntrl.GetResource)

	api.GET("/alerts", cntrl.GetAlerts, svc.cache.middleware(cacheAlerts))
	api.POST("/volunteers", cntrl.SignUpVolunteer)

	admin := api.Group("/admin")
	admin.POST("/resources", cntrl.CreateResource)
	admin.PUT("/resources/:id", cntrl.UpdateResource)
	admin.DELETE("/resources/:id", cntrl.DeleteResource)

	external := api.Group("/external", svc.cache.middleware(cacheExternal))
	external.GET("/hud", cntrl.GetHUDStats)
	external.GET("/louisville/stats", cntrl.GetLouisvilleStats)
	external.GET("/datagov/search", cntrl.SearchDataGov)

	return svc, nil
}

func echoLogLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error", "fatal", "panic":
		return log.ERROR
	default:
		return log.INFO
	}
}

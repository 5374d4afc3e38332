package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hopelouisville/dashboard/internal/api"
	"github.com/hopelouisville/dashboard/internal/api/controller"
	"github.com/hopelouisville/dashboard/internal/config"
	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/cache"
	"github.com/hopelouisville/dashboard/internal/pkg/logger"
	"github.com/hopelouisville/dashboard/internal/pkg/store"
	"github.com/hopelouisville/dashboard/internal/service/aggregator"
	"github.com/hopelouisville/dashboard/internal/service/fallback"
	"github.com/hopelouisville/dashboard/internal/service/forecast"
	"github.com/hopelouisville/dashboard/internal/service/resource"
	"github.com/hopelouisville/dashboard/internal/service/scheduler"
	"github.com/hopelouisville/dashboard/internal/service/volunteer"
)

const shutdownTimeout = 10 * time.Second

func main() {
	fs := pflag.NewFlagSet("dashboard", pflag.ExitOnError)
	config.Flags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(viper.New(), fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogDevelopment); err != nil {
		fmt.Fprintf(os.Stderr, "error: init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatal(ctx, err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	snapshot := fallback.New(cfg.FallbackPath)

	db := store.NewStore(seedResources(ctx, snapshot))
	srcs, ups := buildSources(cfg.Sources, db)

	agg := aggregator.NewAggregatorService(
		srcs,
		cache.New(cfg.Cache.TTL),
		cache.New(cfg.Cache.AlertsTTL),
		snapshot,
		aggregator.Config{MaxRetries: cfg.Aggregator.MaxRetries, RetryInterval: cfg.Aggregator.RetryInterval},
	)
	for dataset, names := range agg.SourceNames() {
		logger.Infof(ctx, "%s sources: %v", dataset, names)
	}

	datasets, err := scheduler.New[domain.Bundle](scheduler.Config{
		Name:       "datasets",
		Interval:   cfg.Refresh.Interval,
		RunOnStart: cfg.Refresh.OnStart,
	}, agg.RefreshAll)
	if err != nil {
		return err
	}
	alerts, err := scheduler.New[domain.SourceResult[[]domain.Alert]](scheduler.Config{
		Name:       "alerts",
		Interval:   cfg.Refresh.AlertsInterval,
		RunOnStart: cfg.Refresh.OnStart,
	}, agg.RefreshAlerts)
	if err != nil {
		return err
	}

	datasets.Subscribe(func(ctx context.Context, b domain.Bundle) {
		if b.Stale() {
			logger.Warnf(ctx, "refresh served fallback data for at least one dataset")
		}
	})

	resources := resource.NewResourceService(db)
	resources.OnChange(func(context.Context) { agg.InvalidateResources() })

	svc, err := api.NewAPIService(api.Options{
		HTTP:            cfg.HTTP,
		Cache:           cfg.Cache,
		LogLevel:        cfg.LogLevel,
		AlertsFeed:      alerts,
		ResourceChanges: resources,
	}, controller.Deps{
		Stats:      agg,
		Feed:       datasets,
		Forecast:   forecast.NewForecastService(forecast.DefaultWindow),
		Resources:  resources,
		Volunteers: volunteer.NewVolunteerService(db),
		HUD:        ups.hud,
		Louisville: ups.louisville,
		DataGov:    ups.datagov,
	})
	if err != nil {
		return fmt.Errorf("api.NewAPIService: %w", err)
	}

	datasets.Start(ctx)
	defer datasets.Stop()
	alerts.Start(ctx)
	defer alerts.Stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- svc.Serve(cfg.HTTP.Addr)
	}()
	logger.Infof(ctx, "listening on %s", cfg.HTTP.Addr)

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Infof(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return svc.Shutdown(shutdownCtx)
}

// seedResources returns the snapshot's resources, or the hardcoded ones when it is unreadable.
func seedResources(ctx context.Context, snapshot *fallback.Loader) []domain.Resource {
	snap, err := snapshot.Load(ctx)
	if err != nil {
		logger.Warnf(ctx, "seed resources from %s: %s", snapshot.Name(), err.Error())
		return fallback.Hardcoded().Resources
	}
	return snap.Resources
}

package controller

import (
	"context"
	"time"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/store"
	"github.com/hopelouisville/dashboard/internal/service/scheduler"
)

type StatsService interface {
	CurrentStats(ctx context.Context) domain.SourceResult[domain.StatRecord]
	Historical(ctx context.Context) domain.SourceResult[[]domain.HistoricalPoint]
	Beds(ctx context.Context) domain.SourceResult[domain.BedAvailability]
	Resources(ctx context.Context) domain.SourceResult[[]domain.Resource]
	Alerts(ctx context.Context) domain.SourceResult[[]domain.Alert]
	ImpactMetrics(ctx context.Context) domain.SourceResult[domain.ImpactMetrics]
	SourceNames() map[string][]string
}

// BundleFeed is the scheduler publishing refreshed dataset bundles.
type BundleFeed interface {
	Latest() (domain.Bundle, time.Time, bool)
	ManualRefresh(ctx context.Context) (domain.Bundle, error)
	Subscribe(fn scheduler.Listener[domain.Bundle]) (unsubscribe func())
	IsActive() bool
}

type Forecaster interface {
	Project(series []domain.HistoricalPoint, horizon int) ([]domain.ForecastPoint, error)
}

type ResourceService interface {
	List(ctx context.Context, filter store.ResourceFilter) ([]domain.Resource, error)
	Get(ctx context.Context, id int64) (*domain.Resource, error)
	Create(ctx context.Context, r domain.Resource) (*domain.Resource, error)
	Update(ctx context.Context, id int64, patch store.ResourcePatch) (*domain.Resource, error)
	Delete(ctx context.Context, id int64) error
	Nearby(ctx context.Context, origin domain.Coordinates, filter store.ResourceFilter, limit int) ([]domain.RankedResource, error)
}

type VolunteerService interface {
	SignUp(ctx context.Context, v domain.Volunteer) (*domain.Volunteer, error)
}

type StatsFetcher interface {
	CurrentStats(ctx context.Context) domain.SourceResult[domain.StatRecord]
}

type DatasetSearcher interface {
	Search(ctx context.Context, q string, rows int) domain.SourceResult[[]domain.Dataset]
}

// Deps are the services behind the handlers. HUD, Louisville and DataGov are nil when the
// upstream is not configured; their proxy routes then answer 501.
type Deps struct {
	Stats      StatsService
	Feed       BundleFeed
	Forecast   Forecaster
	Resources  ResourceService
	Volunteers VolunteerService

	HUD        StatsFetcher
	Louisville StatsFetcher
	DataGov    DatasetSearcher
}

type Controller struct {
	stats      StatsService
	feed       BundleFeed
	forecast   Forecaster
	resources  ResourceService
	volunteers VolunteerService

	hud        StatsFetcher
	louisville StatsFetcher
	datagov    DatasetSearcher

	started time.Time
}

func NewController(deps Deps) *Controller {
	return &Controller{
		stats:      deps.Stats,
		feed:       deps.Feed,
		forecast:   deps.Forecast,
		resources:  deps.Resources,
		volunteers: deps.Volunteers,
		hud:        deps.HUD,
		louisville: deps.Louisville,
		datagov:    deps.DataGov,
		started:    time.Now().UTC(),
	}
}

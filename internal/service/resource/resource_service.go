package resource

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
	"github.com/hopelouisville/dashboard/internal/pkg/logger"
	"github.com/hopelouisville/dashboard/internal/pkg/store"
)

const (
	DefaultNearbyLimit = 10
	MaxNearbyLimit     = 50

	earthRadiusMiles = 3958.8
)

type Service struct {
	store store.ResourceStore

	hooksMx sync.RWMutex
	hooks   []func(ctx context.Context)
}

func NewResourceService(resourceStore store.ResourceStore) *Service {
	return &Service{store: resourceStore}
}

// OnChange registers fn to run after every successful create, update or delete.
func (s *Service) OnChange(fn func(ctx context.Context)) {
	s.hooksMx.Lock()
	defer s.hooksMx.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *Service) changed(ctx context.Context) {
	s.hooksMx.RLock()
	defer s.hooksMx.RUnlock()
	for _, fn := range s.hooks {
		fn(ctx)
	}
}

func (s *Service) List(ctx context.Context, filter store.ResourceFilter) ([]domain.Resource, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("unknown resource type %q: %w", filter.Type, constants.ErrBadRequest)
	}

	resources, err := s.store.ListResources(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("store.ListResources: %w", err)
	}
	return resources, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Resource, error) {
	r, err := s.store.GetResource(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.GetResource: %w", err)
	}
	return r, nil
}

func (s *Service) Create(ctx context.Context, r domain.Resource) (*domain.Resource, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return nil, fmt.Errorf("resource name is required: %w", constants.ErrBadRequest)
	}
	if !r.Type.Valid() {
		return nil, fmt.Errorf("unknown resource type %q: %w", r.Type, constants.ErrBadRequest)
	}
	r.Source = constants.SourceStore

	created, err := s.store.CreateResource(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("store.CreateResource: %w", err)
	}

	logger.Infof(ctx, "created resource %d %q", created.ID, created.Name)
	s.changed(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch store.ResourcePatch) (*domain.Resource, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("resource name cannot be empty: %w", constants.ErrBadRequest)
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, fmt.Errorf("unknown resource type %q: %w", *patch.Type, constants.ErrBadRequest)
	}

	updated, err := s.store.UpdateResource(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("store.UpdateResource: %w", err)
	}

	logger.Infof(ctx, "updated resource %d", id)
	s.changed(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteResource(ctx, id); err != nil {
		return fmt.Errorf("store.DeleteResource: %w", err)
	}

	logger.Infof(ctx, "deleted resource %d", id)
	s.changed(ctx)
	return nil
}

// Nearby ranks resources matching filter by great-circle distance from origin, closest first.
// Resources without coordinates are skipped.
func (s *Service) Nearby(ctx context.Context, origin domain.Coordinates, filter store.ResourceFilter, limit int) ([]domain.RankedResource, error) {
	if origin.Lat < -90 || origin.Lat > 90 || origin.Lng < -180 || origin.Lng > 180 {
		return nil, fmt.Errorf("coordinates out of range: %w", constants.ErrBadRequest)
	}
	if limit <= 0 {
		limit = DefaultNearbyLimit
	}
	limit = min(limit, MaxNearbyLimit)

	resources, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ranked := make([]domain.RankedResource, 0, len(resources))
	for _, r := range resources {
		if r.Coordinates.IsZero() {
			continue
		}
		ranked = append(ranked, domain.RankedResource{
			Resource:      r,
			DistanceMiles: decimal.NewFromFloat(Distance(origin, r.Coordinates)).Round(2).InexactFloat64(),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].DistanceMiles < ranked[j].DistanceMiles })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Distance is the haversine distance between a and b in miles.
func Distance(a, b domain.Coordinates) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMiles * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

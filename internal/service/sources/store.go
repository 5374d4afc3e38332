package sources

import (
	"context"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
	"github.com/hopelouisville/dashboard/internal/pkg/store"
)

// StoreResources exposes the admin-managed resource store as a resource source.
type StoreResources struct {
	store store.ResourceStore
}

func NewStoreResources(s store.ResourceStore) *StoreResources {
	return &StoreResources{store: s}
}

func (s *StoreResources) Name() string {
	return constants.SourceStore
}

func (s *StoreResources) Resources(ctx context.Context) domain.SourceResult[[]domain.Resource] {
	resources, err := s.store.ListResources(ctx, store.ResourceFilter{})
	if err != nil {
		return failed[[]domain.Resource](ctx, s.Name(), "resources", err)
	}
	for i := range resources {
		resources[i].Source = s.Name()
	}
	return domain.OK(s.Name(), resources)
}

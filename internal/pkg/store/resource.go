package store

import (
	"context"
	"fmt"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
)

type ResourceFilter struct {
	Type     domain.ResourceType
	OpenOnly bool
}

func (f ResourceFilter) match(r *domain.Resource) bool {
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if f.OpenOnly && !r.IsOpen {
		return false
	}
	return true
}

// ResourcePatch carries the fields of an update; nil fields are left untouched.
type ResourcePatch struct {
	Name        *string              `json:"name" validate:"omitempty,min=1,max=200"`
	Type        *domain.ResourceType `json:"type" validate:"omitempty,oneof=shelter food clinic services"`
	Address     *string              `json:"address" validate:"omitempty,max=300"`
	Coordinates *domain.Coordinates  `json:"coordinates"`
	Phone       *string              `json:"phone" validate:"omitempty,max=40"`
	Hours       *string              `json:"hours" validate:"omitempty,max=200"`
	Services    *[]string            `json:"services"`
	Capacity    *int                 `json:"capacity" validate:"omitempty,min=0"`
	Available   *int                 `json:"available" validate:"omitempty,min=0"`
	IsOpen      *bool                `json:"isOpen"`
}

type ResourceStore interface {
	ListResources(ctx context.Context, filter ResourceFilter) ([]domain.Resource, error)
	GetResource(ctx context.Context, id int64) (*domain.Resource, error)
	CreateResource(ctx context.Context, r domain.Resource) (*domain.Resource, error)
	UpdateResource(ctx context.Context, id int64, patch ResourcePatch) (*domain.Resource, error)
	DeleteResource(ctx context.Context, id int64) error
}

func (s *store) ListResources(ctx context.Context, filter ResourceFilter) ([]domain.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mx.RLock()
	defer s.mx.RUnlock()

	selected := make([]domain.Resource, 0, len(s.resources))
	for _, r := range s.resources {
		if filter.match(r) {
			selected = append(selected, *cloneResource(r))
		}
	}
	return selected, nil
}

func (s *store) GetResource(ctx context.Context, id int64) (*domain.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mx.RLock()
	defer s.mx.RUnlock()

	_, r := s.findResource(id)
	if r == nil {
		return nil, fmt.Errorf("resource %d: %w", id, constants.ErrNotFound)
	}
	return cloneResource(r), nil
}

func (s *store) CreateResource(ctx context.Context, r domain.Resource) (*domain.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	created := cloneResource(&r)
	created.ID = s.nextID
	created.Services = normalizeServices(created.Services)
	s.nextID++

	s.resources = append(s.resources, created)
	return cloneResource(created), nil
}

func (s *store) UpdateResource(ctx context.Context, id int64, patch ResourcePatch) (*domain.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	_, r := s.findResource(id)
	if r == nil {
		return nil, fmt.Errorf("resource %d: %w", id, constants.ErrNotFound)
	}

	if patch.Name != nil {
		r.Name = *patch.Name
	}
	if patch.Type != nil {
		r.Type = *patch.Type
	}
	if patch.Address != nil {
		r.Address = *patch.Address
	}
	if patch.Coordinates != nil {
		r.Coordinates = *patch.Coordinates
	}
	if patch.Phone != nil {
		r.Phone = *patch.Phone
	}
	if patch.Hours != nil {
		r.Hours = *patch.Hours
	}
	if patch.Services != nil {
		r.Services = normalizeServices(*patch.Services)
	}
	if patch.Capacity != nil {
		v := *patch.Capacity
		r.Capacity = &v
	}
	if patch.Available != nil {
		v := *patch.Available
		r.Available = &v
	}
	if patch.IsOpen != nil {
		r.IsOpen = *patch.IsOpen
	}

	return cloneResource(r), nil
}

func (s *store) DeleteResource(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	i, _ := s.findResource(id)
	if i < 0 {
		return fmt.Errorf("resource %d: %w", id, constants.ErrNotFound)
	}
	s.resources = append(s.resources[:i], s.resources[i+1:]...)
	return nil
}

func (s *store) findResource(id int64) (int, *domain.Resource) {
	for i, r := range s.resources {
		if r.ID == id {
			return i, r
		}
	}
	return -1, nil
}

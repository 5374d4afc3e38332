package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hopelouisville/dashboard/internal/domain"
)

type VolunteerStore interface {
	CreateVolunteer(ctx context.Context, v domain.Volunteer) (*domain.Volunteer, error)
	ListVolunteers(ctx context.Context) ([]domain.Volunteer, error)
}

func (s *store) CreateVolunteer(ctx context.Context, v domain.Volunteer) (*domain.Volunteer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v.ID = uuid.NewString()
	v.CreatedAt = time.Now().UTC()
	v.Interests = append([]string(nil), v.Interests...)

	s.mx.Lock()
	defer s.mx.Unlock()

	stored := v
	s.volunteers = append(s.volunteers, &stored)
	return &v, nil
}

func (s *store) ListVolunteers(ctx context.Context) ([]domain.Volunteer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mx.RLock()
	defer s.mx.RUnlock()

	selected := make([]domain.Volunteer, 0, len(s.volunteers))
	for _, v := range s.volunteers {
		selected = append(selected, *v)
	}
	return selected, nil
}

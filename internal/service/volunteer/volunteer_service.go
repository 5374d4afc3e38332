package volunteer

import (
	"context"
	"fmt"
	"strings"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
	"github.com/hopelouisville/dashboard/internal/pkg/logger"
	"github.com/hopelouisville/dashboard/internal/pkg/store"
)

type Service struct {
	store store.VolunteerStore
}

func NewVolunteerService(volunteerStore store.VolunteerStore) *Service {
	return &Service{store: volunteerStore}
}

// SignUp stores a volunteer application. Interests are lowercased and deduplicated.
func (s *Service) SignUp(ctx context.Context, v domain.Volunteer) (*domain.Volunteer, error) {
	v.Name = strings.TrimSpace(v.Name)
	v.Email = strings.ToLower(strings.TrimSpace(v.Email))
	if v.Name == "" || v.Email == "" {
		return nil, fmt.Errorf("name and email are required: %w", constants.ErrBadRequest)
	}
	v.Interests = normalizeInterests(v.Interests)

	created, err := s.store.CreateVolunteer(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("store.CreateVolunteer: %w", err)
	}

	logger.Info(ctx, "volunteer signed up", "volunteer_id", created.ID)
	return created, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Volunteer, error) {
	volunteers, err := s.store.ListVolunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListVolunteers: %w", err)
	}
	return volunteers, nil
}

func normalizeInterests(interests []string) []string {
	out := make([]string, 0, len(interests))
	seen := make(map[string]struct{}, len(interests))
	for _, i := range interests {
		i = strings.ToLower(strings.TrimSpace(i))
		if i == "" {
			continue
		}
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	return out
}

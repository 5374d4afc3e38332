package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
)

func intPtr(v int) *int { return &v }

func seed() []domain.Resource {
	return []domain.Resource{
		{ID: 1, Name: "Wayside Christian Mission", Type: domain.ResourceShelter, IsOpen: true, Capacity: intPtr(300)},
		{ID: 2, Name: "Dare to Care Food Bank", Type: domain.ResourceFood, IsOpen: true},
		{ID: 3, Name: "Family Health Centers Phoenix", Type: domain.ResourceClinic, IsOpen: false},
	}
}

func TestListResourcesFilter(t *testing.T) {
	ctx := context.Background()
	s := NewStore(seed())

	all, err := s.ListResources(ctx, ResourceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	shelters, err := s.ListResources(ctx, ResourceFilter{Type: domain.ResourceShelter})
	require.NoError(t, err)
	require.Len(t, shelters, 1)
	assert.Equal(t, "Wayside Christian Mission", shelters[0].Name)

	open, err := s.ListResources(ctx, ResourceFilter{OpenOnly: true})
	require.NoError(t, err)
	assert.Len(t, open, 2)
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := NewStore(seed())

	created, err := s.CreateResource(ctx, domain.Resource{
		Name:     "St. John Center",
		Type:     domain.ResourceServices,
		Services: []string{" case management ", "", "mail"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
	assert.Equal(t, []string{"case management", "mail"}, created.Services)

	next, err := s.CreateResource(ctx, domain.Resource{Name: "Another"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), next.ID)
}

func TestSeedWithoutIDs(t *testing.T) {
	s := NewStore([]domain.Resource{{Name: "a"}, {Name: "b"}})
	all, err := s.ListResources(context.Background(), ResourceFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(2), all[1].ID)
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore(seed())

	r, err := s.GetResource(ctx, 1)
	require.NoError(t, err)
	*r.Capacity = 1
	r.Name = "changed"

	again, err := s.GetResource(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Wayside Christian Mission", again.Name)
	assert.Equal(t, 300, *again.Capacity)
}

func TestUpdatePartial(t *testing.T) {
	ctx := context.Background()
	s := NewStore(seed())

	closed := false
	available := 12
	updated, err := s.UpdateResource(ctx, 1, ResourcePatch{IsOpen: &closed, Available: &available})
	require.NoError(t, err)
	assert.False(t, updated.IsOpen)
	assert.Equal(t, 12, *updated.Available)
	assert.Equal(t, "Wayside Christian Mission", updated.Name)
	assert.Equal(t, 300, *updated.Capacity)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewStore(seed())

	_, err := s.GetResource(ctx, 42)
	assert.True(t, errors.Is(err, constants.ErrNotFound))

	name := "x"
	_, err = s.UpdateResource(ctx, 42, ResourcePatch{Name: &name})
	assert.True(t, errors.Is(err, constants.ErrNotFound))

	assert.True(t, errors.Is(s.DeleteResource(ctx, 42), constants.ErrNotFound))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore(seed())

	require.NoError(t, s.DeleteResource(ctx, 2))
	all, err := s.ListResources(ctx, ResourceFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(3), all[1].ID)

	created, err := s.CreateResource(ctx, domain.Resource{Name: "new"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore(seed()).ListResources(ctx, ResourceFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVolunteers(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)

	v, err := s.CreateVolunteer(ctx, domain.Volunteer{Name: "Sam", Email: "sam@example.org", Interests: []string{"meals"}})
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.False(t, v.CreatedAt.IsZero())

	list, err := s.ListVolunteers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, v.ID, list[0].ID)
}

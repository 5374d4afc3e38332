package volunteer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
	"github.com/hopelouisville/dashboard/internal/pkg/store"
)

func TestSignUp(t *testing.T) {
	svc := NewVolunteerService(store.NewStore(nil))

	v, err := svc.SignUp(context.Background(), domain.Volunteer{
		Name:      "  Sam Rivera ",
		Email:     "Sam@Example.org",
		Interests: []string{"Meals", "meals", " outreach", ""},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "Sam Rivera", v.Name)
	assert.Equal(t, "sam@example.org", v.Email)
	assert.Equal(t, []string{"meals", "outreach"}, v.Interests)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSignUp_RequiresNameAndEmail(t *testing.T) {
	svc := NewVolunteerService(store.NewStore(nil))

	_, err := svc.SignUp(context.Background(), domain.Volunteer{Name: " ", Email: "a@b.org"})

	assert.ErrorIs(t, err, constants.ErrBadRequest)
}

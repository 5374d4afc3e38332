package store

import (
	"sync"

	"github.com/hopelouisville/dashboard/internal/domain"
)

type Store interface {
	ResourceStore
	VolunteerStore
}

type store struct {
	mx sync.RWMutex

	resources []*domain.Resource
	nextID    int64

	volunteers []*domain.Volunteer
}

// NewStore returns an empty in-memory store seeded with the given resources. Seed resources
// without an id are numbered sequentially.
func NewStore(seed []domain.Resource) Store {
	s := &store{nextID: 1}
	for _, r := range seed {
		c := cloneResource(&r)
		if c.ID == 0 {
			c.ID = s.nextID
		}
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
		s.resources = append(s.resources, c)
	}
	return s
}

var _ Store = (*store)(nil)

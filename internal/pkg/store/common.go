package store

import (
	"strings"

	"github.com/hopelouisville/dashboard/internal/domain"
)

func cloneResource(r *domain.Resource) *domain.Resource {
	c := *r
	if r.Services != nil {
		c.Services = append([]string(nil), r.Services...)
	}
	if r.Capacity != nil {
		v := *r.Capacity
		c.Capacity = &v
	}
	if r.Available != nil {
		v := *r.Available
		c.Available = &v
	}
	return &c
}

func normalizeServices(services []string) []string {
	out := make([]string, 0, len(services))
	for _, s := range services {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

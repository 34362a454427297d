package service

import (
	"context"
	"sort"

	"github.com/focitech/focitech-backend/internal/apperr"
	"github.com/focitech/focitech-backend/internal/careers/domain"
	"github.com/focitech/focitech-backend/internal/store"
)

// Stats summarises applications and active openings for the admin dashboard.
func (s *CareersService) Stats(ctx context.Context) (*domain.Stats, error) {
	fail := func(err error) (*domain.Stats, error) {
		return nil, apperr.Internal("failed to fetch career stats", err)
	}

	total, err := s.store.Count(ctx, domain.ApplicationsTable, nil)
	if err != nil {
		return fail(err)
	}

	dist := make(map[string]int, len(domain.ApplicationStatuses))
	for _, st := range domain.ApplicationStatuses {
		n, err := s.store.Count(ctx, domain.ApplicationsTable, []store.Filter{store.Eq("status", string(st))})
		if err != nil {
			return fail(err)
		}
		dist[string(st)] = n
	}

	active, err := s.store.Select(ctx, domain.JobsTable, store.Query{
		Filters: []store.Filter{store.Eq("is_active", true)},
	})
	if err != nil {
		return fail(err)
	}

	seen := make(map[string]struct{})
	departments := make([]string, 0)
	for _, row := range active {
		d, _ := row["department"].(string)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			departments = append(departments, d)
		}
	}
	sort.Strings(departments)

	return &domain.Stats{
		TotalApplications:   total,
		PendingApplications: dist[string(domain.StatusPending)],
		ActiveOpenings:      len(active),
		Departments:         departments,
		StatusDistribution:  dist,
	}, nil
}

package aggregator

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/domain/dto"
)

var hundred = decimal.NewFromInt(100)

// Zero counts as missing in every merge below, so a real zero from a higher-priority source
// is replaced by a lower-priority non-zero value.

var statFields = []func(*domain.StatRecord) *int{
	func(r *domain.StatRecord) *int { return &r.TotalHomeless },
	func(r *domain.StatRecord) *int { return &r.Sheltered },
	func(r *domain.StatRecord) *int { return &r.Unsheltered },
	func(r *domain.StatRecord) *int { return &r.Families },
	func(r *domain.StatRecord) *int { return &r.Veterans },
	func(r *domain.StatRecord) *int { return &r.Youth },
	func(r *domain.StatRecord) *int { return &r.ChronicHomeless },
	func(r *domain.StatRecord) *int { return &r.Year },
}

var bedFields = []func(*domain.BedAvailability) *int{
	func(b *domain.BedAvailability) *int { return &b.Total },
	func(b *domain.BedAvailability) *int { return &b.Available },
	func(b *domain.BedAvailability) *int { return &b.Occupied },
	func(b *domain.BedAvailability) *int { return &b.Breakdown.Emergency },
	func(b *domain.BedAvailability) *int { return &b.Breakdown.Transitional },
	func(b *domain.BedAvailability) *int { return &b.Breakdown.Permanent },
}

// mergeFields takes, per field, the first non-zero value across the successful results.
// It also returns the sources that supplied at least one field.
func mergeFields[T any](results []domain.SourceResult[T], fields []func(*T) *int) (T, []string) {
	var (
		merged       T
		contributors []string
	)
	for _, res := range results {
		if !res.Success {
			continue
		}

		used := false
		for _, field := range fields {
			if dst, v := field(&merged), *field(&res.Data); *dst == 0 && v != 0 {
				*dst = v
				used = true
			}
		}
		if used {
			contributors = append(contributors, res.Source)
		}
	}
	return merged, contributors
}

func mergeStats(results []domain.SourceResult[domain.StatRecord]) (domain.StatRecord, []string) {
	return mergeFields(results, statFields)
}

func mergeBeds(results []domain.SourceResult[domain.BedAvailability]) (domain.BedAvailability, []string) {
	return mergeFields(results, bedFields)
}

func mergeHistory(results []domain.SourceResult[[]domain.HistoricalPoint]) ([]domain.HistoricalPoint, []string) {
	builder := dto.NewHistoryBuilder()

	var contributors []string
	for _, res := range results {
		if !res.Success || len(res.Data) == 0 {
			continue
		}
		for _, p := range res.Data {
			builder.Put(p)
		}
		contributors = append(contributors, res.Source)
	}
	return builder.Series(), contributors
}

func sortedHistory(points []domain.HistoricalPoint) []domain.HistoricalPoint {
	builder := dto.NewHistoryBuilder()
	for _, p := range points {
		builder.Put(p)
	}
	return builder.Series()
}

// mergeResources concatenates resources in priority order, dropping later entries whose name
// matches one already taken. Resources without an id, or with one already in use, get a fresh
// id above the highest seen.
func mergeResources(results []domain.SourceResult[[]domain.Resource]) ([]domain.Resource, []string) {
	var (
		merged       []domain.Resource
		contributors []string
		maxID        int64
	)
	seen := make(map[string]struct{})
	ids := make(map[int64]struct{})

	for _, res := range results {
		if !res.Success {
			continue
		}

		added := false
		for _, r := range res.Data {
			key := resourceKey(r.Name)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			if r.ID != 0 {
				if _, dup := ids[r.ID]; dup {
					r.ID = 0
				} else {
					ids[r.ID] = struct{}{}
					maxID = max(maxID, r.ID)
				}
			}
			if r.Source == "" {
				r.Source = res.Source
			}
			if r.Services == nil {
				r.Services = []string{}
			}

			merged = append(merged, r)
			added = true
		}
		if added {
			contributors = append(contributors, res.Source)
		}
	}

	for i := range merged {
		if merged[i].ID == 0 {
			maxID++
			merged[i].ID = maxID
		}
	}
	return merged, contributors
}

func resourceKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// mergeAlerts unions alerts by id, most severe first. Every successful source contributes,
// even one reporting no alerts.
func mergeAlerts(results []domain.SourceResult[[]domain.Alert]) ([]domain.Alert, []string) {
	merged := []domain.Alert{}
	var contributors []string
	seen := make(map[string]struct{})

	for _, res := range results {
		if !res.Success {
			continue
		}
		contributors = append(contributors, res.Source)

		for _, a := range res.Data {
			key := a.ID
			if key == "" {
				key = a.Headline
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, a)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].SeverityRank() < merged[j].SeverityRank()
	})
	return merged, contributors
}

// percent is part/total*100 rounded to one decimal place and clamped to [0, 100].
// A non-positive total yields zero.
func percent(part, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	v := decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(1)
	return decimal.Min(decimal.Max(v, decimal.Zero), hundred)
}

func deriveStatPercentages(r *domain.StatRecord) {
	sheltered := percent(r.Sheltered, r.TotalHomeless)
	unsheltered := percent(r.Unsheltered, r.TotalHomeless)
	r.ShelteredPercent = &sheltered
	r.UnshelteredPercent = &unsheltered
}

// deriveOccupancy fills whichever of occupied or available is missing from the other, then
// computes the occupancy rate.
func deriveOccupancy(b *domain.BedAvailability) {
	switch {
	case b.Occupied == 0 && b.Available > 0 && b.Available <= b.Total:
		b.Occupied = b.Total - b.Available
	case b.Available == 0 && b.Occupied > 0 && b.Occupied <= b.Total:
		b.Available = b.Total - b.Occupied
	}
	b.OccupancyRate = percent(b.Occupied, b.Total)
}

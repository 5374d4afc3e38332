package dto

import (
	"sort"
	"sync"

	"github.com/hopelouisville/dashboard/internal/domain"
)

// HistoryBuilder accumulates historical points per year. A field already holding a non-zero
// value is never overwritten, so callers feed sources in priority order.
type HistoryBuilder struct {
	points   map[domain.Year]*domain.HistoricalPoint
	pointsMx sync.Mutex
}

func NewHistoryBuilder() *HistoryBuilder {
	return &HistoryBuilder{points: make(map[domain.Year]*domain.HistoricalPoint)}
}

func (b *HistoryBuilder) getPoint(year domain.Year) *domain.HistoricalPoint {
	point, ok := b.points[year]
	if !ok {
		point = &domain.HistoricalPoint{Year: year}
		b.points[year] = point
	}
	return point
}

// Put merges p into the point for p.Year. Points without a year are ignored.
func (b *HistoryBuilder) Put(p domain.HistoricalPoint) {
	if p.Year == 0 {
		return
	}

	b.pointsMx.Lock()
	defer b.pointsMx.Unlock()

	point := b.getPoint(p.Year)
	if point.Date == "" {
		point.Date = p.Date
	}
	fillInt(&point.Total, p.Total)
	fillInt(&point.Sheltered, p.Sheltered)
	fillInt(&point.Unsheltered, p.Unsheltered)
}

func (b *HistoryBuilder) Len() int {
	b.pointsMx.Lock()
	defer b.pointsMx.Unlock()
	return len(b.points)
}

// Series returns the accumulated points sorted by year, dropping years with no total.
func (b *HistoryBuilder) Series() []domain.HistoricalPoint {
	b.pointsMx.Lock()
	defer b.pointsMx.Unlock()

	series := make([]domain.HistoricalPoint, 0, len(b.points))
	for _, p := range b.points {
		point := *p
		if point.Total == 0 {
			point.Total = point.Sheltered + point.Unsheltered
		}
		if point.Total == 0 {
			continue
		}
		series = append(series, point)
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	return series
}

func fillInt(dst *int, v int) {
	if *dst == 0 && v != 0 {
		*dst = v
	}
}

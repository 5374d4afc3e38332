// Package forecast projects the homeless count forward from the historical series.
package forecast

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
)

const (
	DefaultWindow = 3
	MaxHorizon    = 10

	// z for a two-sided 95% band.
	z95 = 1.96
)

type Service struct {
	window int
}

func NewForecastService(window int) *Service {
	if window < 2 {
		window = DefaultWindow
	}
	return &Service{window: window}
}

// Project estimates the total for each of the horizon years following the last point of series.
// Each estimate averages a least-squares line with a moving-average projection; the band is
// ±1.96 residual standard deviations of the line.
func (s *Service) Project(series []domain.HistoricalPoint, horizon int) ([]domain.ForecastPoint, error) {
	if horizon < 1 || horizon > MaxHorizon {
		return nil, fmt.Errorf("horizon must be between 1 and %d: %w", MaxHorizon, constants.ErrBadRequest)
	}

	points := usable(series)
	if len(points) < 2 {
		return nil, fmt.Errorf("forecast needs at least 2 years, have %d: %w", len(points), constants.ErrNotEnoughData)
	}

	line := fitLine(points)
	ma := s.movingAverage(points)
	sigma := line.residualStdDev(points)
	trend := decimal.NewFromFloat(line.slope).Round(1)

	last := points[len(points)-1].Year
	out := make([]domain.ForecastPoint, 0, horizon)
	for year := last + 1; year <= last+horizon; year++ {
		estimate := (line.at(year) + ma.at(year)) / 2
		out = append(out, domain.ForecastPoint{
			Year:     year,
			Estimate: roundCount(estimate),
			Lower:    roundCount(estimate - z95*sigma),
			Upper:    roundCount(estimate + z95*sigma),
			Trend:    trend,
		})
	}
	return out, nil
}

func usable(series []domain.HistoricalPoint) []domain.HistoricalPoint {
	points := make([]domain.HistoricalPoint, 0, len(series))
	for _, p := range series {
		if p.Year > 0 && p.Total > 0 {
			points = append(points, p)
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points
}

type linear struct {
	meanX, meanY float64
	slope        float64
}

func (l linear) at(year int) float64 {
	return l.meanY + l.slope*(float64(year)-l.meanX)
}

// fitLine is ordinary least squares over centered years.
func fitLine(points []domain.HistoricalPoint) linear {
	n := float64(len(points))

	var sumX, sumY float64
	for _, p := range points {
		sumX += float64(p.Year)
		sumY += float64(p.Total)
	}
	l := linear{meanX: sumX / n, meanY: sumY / n}

	var sxy, sxx float64
	for _, p := range points {
		dx := float64(p.Year) - l.meanX
		sxy += dx * (float64(p.Total) - l.meanY)
		sxx += dx * dx
	}
	if sxx > 0 {
		l.slope = sxy / sxx
	}
	return l
}

func (l linear) residualStdDev(points []domain.HistoricalPoint) float64 {
	if len(points) < 3 {
		return 0
	}
	var ss float64
	for _, p := range points {
		r := float64(p.Total) - l.at(p.Year)
		ss += r * r
	}
	return math.Sqrt(ss / float64(len(points)-2))
}

// movingAverage centers the mean of the trailing window on the window's mean year and extends it
// by the average yearly change across the window.
func (s *Service) movingAverage(points []domain.HistoricalPoint) linear {
	tail := points[max(len(points)-s.window, 0):]

	var sumX, sumY float64
	for _, p := range tail {
		sumX += float64(p.Year)
		sumY += float64(p.Total)
	}
	n := float64(len(tail))
	ma := linear{meanX: sumX / n, meanY: sumY / n}

	first, last := tail[0], tail[len(tail)-1]
	if span := last.Year - first.Year; span > 0 {
		ma.slope = float64(last.Total-first.Total) / float64(span)
	}
	return ma
}

func roundCount(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int(decimal.NewFromFloat(v).Round(0).IntPart())
}

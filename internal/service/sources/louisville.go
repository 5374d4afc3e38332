package sources

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
)

type LouisvilleConfig struct {
	HTTPConfig
	BaseURL          string
	AppToken         string
	StatsDataset     string
	BedsDataset      string
	ResourcesDataset string
	// Limit caps the rows requested per dataset.
	Limit int
}

// Louisville reads Louisville Metro Open Data datasets through the SODA resource API.
// SODA returns every column as a string, hence the lenient field parsing.
type Louisville struct {
	cfg   LouisvilleConfig
	fetch *fetcher
}

func NewLouisville(cfg LouisvilleConfig) *Louisville {
	if cfg.Limit <= 0 {
		cfg.Limit = 1000
	}
	return &Louisville{
		cfg:   cfg,
		fetch: newFetcher(cfg.HTTPConfig, map[string]string{"X-App-Token": cfg.AppToken}),
	}
}

func (l *Louisville) Name() string {
	return constants.SourceLouisville
}

func (l *Louisville) dataset(ctx context.Context, id string, query url.Values) ([]map[string]any, error) {
	if id == "" {
		return nil, errors.New("dataset not configured")
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("$limit", strconv.Itoa(l.cfg.Limit))

	var body any
	if err := l.fetch.getJSON(ctx, joinURL(l.cfg.BaseURL, "resource", id+".json"), query, &body); err != nil {
		return nil, err
	}
	return rows(body), nil
}

func (l *Louisville) CurrentStats(ctx context.Context) domain.SourceResult[domain.StatRecord] {
	rs, err := l.dataset(ctx, l.cfg.StatsDataset, url.Values{"$order": {"year DESC"}})
	if err != nil {
		return failed[domain.StatRecord](ctx, l.Name(), "current stats", err)
	}

	row := latestRow(rs)
	if row == nil {
		return failed[domain.StatRecord](ctx, l.Name(), "current stats", errors.New("dataset is empty"))
	}
	return domain.OK(l.Name(), toStatRecord(row))
}

func (l *Louisville) Historical(ctx context.Context) domain.SourceResult[[]domain.HistoricalPoint] {
	rs, err := l.dataset(ctx, l.cfg.StatsDataset, url.Values{"$order": {"year ASC"}})
	if err != nil {
		return failed[[]domain.HistoricalPoint](ctx, l.Name(), "historical", err)
	}

	points := make([]domain.HistoricalPoint, 0, len(rs))
	for _, r := range rs {
		if p := toHistoricalPoint(r); p.Year > 0 {
			points = append(points, p)
		}
	}
	return domain.OK(l.Name(), points)
}

// Beds sums the per-facility rows of the shelter capacity dataset.
func (l *Louisville) Beds(ctx context.Context) domain.SourceResult[domain.BedAvailability] {
	rs, err := l.dataset(ctx, l.cfg.BedsDataset, nil)
	if err != nil {
		return failed[domain.BedAvailability](ctx, l.Name(), "beds", err)
	}

	var beds domain.BedAvailability
	for _, r := range rs {
		total := intField(r, "total_beds", "capacity", "beds")
		beds.Total += total
		beds.Available += intField(r, "available_beds", "available", "beds_available")
		beds.Occupied += intField(r, "occupied_beds", "occupied", "beds_occupied")

		switch kind := strings.ToLower(stringField(r, "bed_type", "program_type", "type")); {
		case strings.Contains(kind, "emergency"), kind == "es":
			beds.Breakdown.Emergency += total
		case strings.Contains(kind, "transitional"), kind == "th":
			beds.Breakdown.Transitional += total
		case strings.Contains(kind, "permanent"), kind == "psh", kind == "rrh":
			beds.Breakdown.Permanent += total
		}
	}
	return domain.OK(l.Name(), beds)
}

func (l *Louisville) Resources(ctx context.Context) domain.SourceResult[[]domain.Resource] {
	rs, err := l.dataset(ctx, l.cfg.ResourcesDataset, nil)
	if err != nil {
		return failed[[]domain.Resource](ctx, l.Name(), "resources", err)
	}

	resources := make([]domain.Resource, 0, len(rs))
	for _, r := range rs {
		if attrs := objectField(r, "attributes", "properties"); attrs != nil {
			if geom := objectField(r, "geometry"); geom != nil {
				attrs["geometry"] = geom
			}
			r = attrs
		}
		res := toResource(r, l.Name())
		if res.Name == "" {
			continue
		}
		res.ID = 0
		resources = append(resources, res)
	}
	return domain.OK(l.Name(), resources)
}

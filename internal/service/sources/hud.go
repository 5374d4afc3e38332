package sources

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
)

type HUDConfig struct {
	HTTPConfig
	BaseURL string
	APIKey  string
	CoCCode string
	// HistoryFrom is the first PIT year requested for the historical series.
	HistoryFrom int
}

// HUD reads Point-in-Time and Housing Inventory Count exports for one Continuum of Care.
type HUD struct {
	cfg   HUDConfig
	fetch *fetcher
}

func NewHUD(cfg HUDConfig) *HUD {
	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}
	if cfg.HistoryFrom == 0 {
		cfg.HistoryFrom = 2007
	}
	return &HUD{cfg: cfg, fetch: newFetcher(cfg.HTTPConfig, headers)}
}

func (h *HUD) Name() string {
	return constants.SourceHUD
}

func (h *HUD) CurrentStats(ctx context.Context) domain.SourceResult[domain.StatRecord] {
	var body any
	if err := h.fetch.getJSON(ctx, joinURL(h.cfg.BaseURL, "pit", h.cfg.CoCCode, "latest"), nil, &body); err != nil {
		return failed[domain.StatRecord](ctx, h.Name(), "current stats", err)
	}

	row := latestRow(rows(body))
	if row == nil {
		return failed[domain.StatRecord](ctx, h.Name(), "current stats", errors.New("empty response"))
	}
	return domain.OK(h.Name(), toStatRecord(row))
}

func (h *HUD) Historical(ctx context.Context) domain.SourceResult[[]domain.HistoricalPoint] {
	query := url.Values{"from": {strconv.Itoa(h.cfg.HistoryFrom)}}

	var body any
	if err := h.fetch.getJSON(ctx, joinURL(h.cfg.BaseURL, "pit", h.cfg.CoCCode), query, &body); err != nil {
		return failed[[]domain.HistoricalPoint](ctx, h.Name(), "historical", err)
	}

	rs := rows(body)
	points := make([]domain.HistoricalPoint, 0, len(rs))
	for _, r := range rs {
		if p := toHistoricalPoint(r); p.Year > 0 {
			points = append(points, p)
		}
	}
	return domain.OK(h.Name(), points)
}

// Beds reads the latest Housing Inventory Count. HIC has no live availability, so Available is
// only set when the export carries it.
func (h *HUD) Beds(ctx context.Context) domain.SourceResult[domain.BedAvailability] {
	var body any
	if err := h.fetch.getJSON(ctx, joinURL(h.cfg.BaseURL, "hic", h.cfg.CoCCode, "latest"), nil, &body); err != nil {
		return failed[domain.BedAvailability](ctx, h.Name(), "beds", err)
	}

	row := latestRow(rows(body))
	if row == nil {
		return failed[domain.BedAvailability](ctx, h.Name(), "beds", errors.New("empty response"))
	}

	beds := domain.BedAvailability{
		Total:     intField(row, "total_beds", "total_year_round_beds", "total"),
		Available: intField(row, "available_beds", "available"),
		Occupied:  intField(row, "occupied_beds", "pit_count_sheltered", "occupied"),
		Breakdown: domain.BedBreakdown{
			Emergency:    intField(row, "es_beds", "emergency_shelter_beds", "emergency"),
			Transitional: intField(row, "th_beds", "transitional_housing_beds", "transitional"),
			Permanent:    intField(row, "psh_beds", "permanent_supportive_housing_beds", "permanent"),
		},
	}
	if beds.Total == 0 {
		beds.Total = beds.Breakdown.Emergency + beds.Breakdown.Transitional + beds.Breakdown.Permanent
	}
	return domain.OK(h.Name(), beds)
}

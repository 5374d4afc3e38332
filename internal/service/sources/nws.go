package sources

import (
	"context"
	"net/url"
	"sort"
	"time"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
)

type NWSConfig struct {
	HTTPConfig
	BaseURL string
	// Zone is an NWS zone or county code, e.g. KYC111 for Jefferson County.
	Zone string
}

// NWS reads active weather alerts from api.weather.gov. The API rejects requests without a
// User-Agent, which HTTPConfig supplies.
type NWS struct {
	cfg   NWSConfig
	fetch *fetcher
}

func NewNWS(cfg NWSConfig) *NWS {
	return &NWS{cfg: cfg, fetch: newFetcher(cfg.HTTPConfig, nil)}
}

func (n *NWS) Name() string {
	return constants.SourceNWS
}

type nwsAlerts struct {
	Features []struct {
		Properties struct {
			ID          string    `json:"id"`
			Event       string    `json:"event"`
			Headline    string    `json:"headline"`
			Severity    string    `json:"severity"`
			Urgency     string    `json:"urgency"`
			AreaDesc    string    `json:"areaDesc"`
			Description string    `json:"description"`
			Effective   time.Time `json:"effective"`
			Expires     time.Time `json:"expires"`
		} `json:"properties"`
	} `json:"features"`
}

// Alerts returns active alerts ordered by severity, most severe first.
func (n *NWS) Alerts(ctx context.Context) domain.SourceResult[[]domain.Alert] {
	body, err := n.fetch.get(ctx, joinURL(n.cfg.BaseURL, "alerts", "active"), url.Values{"zone": {n.cfg.Zone}}, "application/geo+json")
	if err != nil {
		return failed[[]domain.Alert](ctx, n.Name(), "alerts", err)
	}

	var resp nwsAlerts
	if err := decodeJSON(body, &resp); err != nil {
		return failed[[]domain.Alert](ctx, n.Name(), "alerts", err)
	}

	alerts := make([]domain.Alert, 0, len(resp.Features))
	for _, f := range resp.Features {
		p := f.Properties
		alerts = append(alerts, domain.Alert{
			ID:          p.ID,
			Event:       p.Event,
			Headline:    p.Headline,
			Severity:    p.Severity,
			Urgency:     p.Urgency,
			Area:        p.AreaDesc,
			Description: p.Description,
			Effective:   p.Effective,
			Expires:     p.Expires,
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].SeverityRank() < alerts[j].SeverityRank()
	})

	return domain.OK(n.Name(), alerts)
}

package main

import (
	"github.com/hopelouisville/dashboard/internal/api/controller"
	"github.com/hopelouisville/dashboard/internal/config"
	"github.com/hopelouisville/dashboard/internal/pkg/store"
	"github.com/hopelouisville/dashboard/internal/service/aggregator"
	"github.com/hopelouisville/dashboard/internal/service/sources"
)

// upstreams holds the adapters the external proxy routes call directly. A field stays nil when
// its upstream is not configured.
type upstreams struct {
	hud        controller.StatsFetcher
	louisville controller.StatsFetcher
	datagov    controller.DatasetSearcher
}

// buildSources registers every configured adapter in priority order:
// stats louisville, hud, data.gov; history louisville, coc report, hud; beds louisville, hud;
// resources store, louisville; alerts nws.
func buildSources(cfg config.Sources, resourceStore store.ResourceStore) (aggregator.Sources, upstreams) {
	httpCfg := sources.HTTPConfig{Timeout: cfg.Timeout, UserAgent: cfg.UserAgent}

	var (
		srcs aggregator.Sources
		ups  upstreams
	)

	var louisville *sources.Louisville
	if cfg.Louisville.BaseURL != "" {
		louisville = sources.NewLouisville(sources.LouisvilleConfig{
			HTTPConfig:       httpCfg,
			BaseURL:          cfg.Louisville.BaseURL,
			AppToken:         cfg.Louisville.AppToken,
			StatsDataset:     cfg.Louisville.StatsDataset,
			BedsDataset:      cfg.Louisville.BedsDataset,
			ResourcesDataset: cfg.Louisville.ResourcesDataset,
		})
		ups.louisville = louisville
		srcs.Stats = append(srcs.Stats, louisville)
		srcs.History = append(srcs.History, louisville)
		srcs.Beds = append(srcs.Beds, louisville)
	}

	var hud *sources.HUD
	if cfg.HUDBaseURL != "" {
		hud = sources.NewHUD(sources.HUDConfig{
			HTTPConfig: httpCfg,
			BaseURL:    cfg.HUDBaseURL,
			APIKey:     cfg.HUDAPIKey,
			CoCCode:    cfg.CoCCode,
		})
		ups.hud = hud
		srcs.Stats = append(srcs.Stats, hud)
		srcs.Beds = append(srcs.Beds, hud)
	}

	if cfg.DataGovBaseURL != "" {
		d := sources.NewDataGov(sources.DataGovConfig{
			HTTPConfig:   httpCfg,
			BaseURL:      cfg.DataGovBaseURL,
			APIKey:       cfg.DataGovAPIKey,
			StatsPackage: cfg.DataGovStatsPackage,
			CoCCode:      cfg.CoCCode,
		})
		ups.datagov = d
		if cfg.DataGovStatsPackage != "" {
			srcs.Stats = append(srcs.Stats, d)
		}
	}

	if cfg.CoCReportURL != "" {
		srcs.History = append(srcs.History, sources.NewCoCReport(sources.CoCReportConfig{
			HTTPConfig: httpCfg,
			URL:        cfg.CoCReportURL,
		}))
	}
	if hud != nil {
		srcs.History = append(srcs.History, hud)
	}

	srcs.Resources = append(srcs.Resources, sources.NewStoreResources(resourceStore))
	if louisville != nil {
		srcs.Resources = append(srcs.Resources, louisville)
	}

	if cfg.NWSBaseURL != "" && cfg.NWSZone != "" {
		srcs.Alerts = append(srcs.Alerts, sources.NewNWS(sources.NWSConfig{
			HTTPConfig: httpCfg,
			BaseURL:    cfg.NWSBaseURL,
			Zone:       cfg.NWSZone,
		}))
	}

	return srcs, ups
}

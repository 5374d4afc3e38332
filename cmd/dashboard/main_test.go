package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hopelouisville/dashboard/internal/config"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
	"github.com/hopelouisville/dashboard/internal/pkg/store"
	"github.com/hopelouisville/dashboard/internal/service/aggregator"
)

func sourceNames(t *testing.T, srcs aggregator.Sources) map[string][]string {
	t.Helper()
	agg := aggregator.NewAggregatorService(srcs, nil, nil, nil, aggregator.Config{})
	return agg.SourceNames()
}

func TestBuildSources_NothingConfigured(t *testing.T) {
	srcs, ups := buildSources(config.Sources{}, store.NewStore(nil))

	assert.Empty(t, srcs.Stats)
	assert.Empty(t, srcs.History)
	assert.Empty(t, srcs.Beds)
	assert.Empty(t, srcs.Alerts)
	require.Len(t, srcs.Resources, 1)
	assert.Equal(t, constants.SourceStore, srcs.Resources[0].Name())

	assert.Nil(t, ups.hud)
	assert.Nil(t, ups.louisville)
	assert.Nil(t, ups.datagov)
}

func TestBuildSources_PriorityOrder(t *testing.T) {
	srcs, ups := buildSources(config.Sources{
		HUDBaseURL:          "https://hud.example",
		Louisville:          config.Louisville{BaseURL: "https://data.louisvilleky.example"},
		DataGovBaseURL:      "https://catalog.data.example/api/3",
		DataGovStatsPackage: "pit-estimates",
		CoCReportURL:        "https://coc.example/report",
		NWSBaseURL:          "https://api.weather.example",
		NWSZone:             "KYZ030",
	}, store.NewStore(nil))

	names := sourceNames(t, srcs)
	assert.Equal(t, []string{constants.SourceLouisville, constants.SourceHUD, constants.SourceDataGov}, names["currentStats"])
	assert.Equal(t, []string{constants.SourceLouisville, constants.SourceCoCReport, constants.SourceHUD}, names["historicalData"])
	assert.Equal(t, []string{constants.SourceLouisville, constants.SourceHUD}, names["bedAvailability"])
	assert.Equal(t, []string{constants.SourceStore, constants.SourceLouisville}, names["resources"])
	assert.Equal(t, []string{constants.SourceNWS}, names["alerts"])

	assert.NotNil(t, ups.hud)
	assert.NotNil(t, ups.louisville)
	assert.NotNil(t, ups.datagov)
}

func TestBuildSources_DataGovSearchOnly(t *testing.T) {
	srcs, ups := buildSources(config.Sources{DataGovBaseURL: "https://catalog.data.example/api/3"}, store.NewStore(nil))

	assert.Empty(t, srcs.Stats)
	assert.NotNil(t, ups.datagov)
}

func TestBuildSources_NWSNeedsZone(t *testing.T) {
	srcs, _ := buildSources(config.Sources{NWSBaseURL: "https://api.weather.example"}, store.NewStore(nil))
	assert.Empty(t, srcs.Alerts)
}

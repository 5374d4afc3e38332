package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hopelouisville/dashboard/internal/domain"
)

const (
	louStats = `[
		{"year":"2023","total_homeless":"1120","sheltered":"671","unsheltered":"449"},
		{"year":"2024","total_homeless":"1157","sheltered":"680","unsheltered":"477","veterans":"91"}
	]`
	louBeds = `[
		{"facility_name":"Wayside","bed_type":"Emergency Shelter","total_beds":"300","available_beds":"14","occupied_beds":"286"},
		{"facility_name":"Volunteers of America","bed_type":"Transitional Housing","total_beds":"120","available_beds":"6","occupied_beds":"114"},
		{"facility_name":"PSH scattered site","bed_type":"PSH","total_beds":"80","available_beds":"0","occupied_beds":"80"}
	]`
	louResources = `{"features":[
		{"attributes":{"OBJECTID":7,"Facility_Name":"Wayside Christian Mission","Category":"Emergency Shelter","Address":"432 E Jefferson St","Phone":"(502) 584-3711","Services":"meals; showers","Total_Beds":"300"},
		 "geometry":{"x":-85.7454,"y":38.2546}},
		{"attributes":{"Category":"Food"}}
	]}`
)

func newLouisvilleServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-App-Token") != "token" {
			t.Errorf("missing app token")
		}
		if r.URL.Query().Get("$limit") == "" {
			t.Errorf("missing $limit")
		}
		switch r.URL.Path {
		case "/resource/pit.json":
			_, _ = w.Write([]byte(louStats))
		case "/resource/beds.json":
			_, _ = w.Write([]byte(louBeds))
		case "/resource/sites.json":
			_, _ = w.Write([]byte(louResources))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestLouisville(url string) *Louisville {
	return NewLouisville(LouisvilleConfig{
		HTTPConfig:       testHTTP,
		BaseURL:          url,
		AppToken:         "token",
		StatsDataset:     "pit",
		BedsDataset:      "beds",
		ResourcesDataset: "sites",
	})
}

func TestLouisvilleCurrentStatsPicksLatestYear(t *testing.T) {
	l := newTestLouisville(newLouisvilleServer(t).URL)

	res := l.CurrentStats(context.Background())
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 2024, res.Data.Year)
	assert.Equal(t, 1157, res.Data.TotalHomeless)
	assert.Equal(t, 91, res.Data.Veterans)
}

func TestLouisvilleHistorical(t *testing.T) {
	l := newTestLouisville(newLouisvilleServer(t).URL)

	res := l.Historical(context.Background())
	require.True(t, res.Success, res.Error)
	require.Len(t, res.Data, 2)
	assert.Equal(t, 1120, res.Data[0].Total)
}

func TestLouisvilleBedsSumsFacilities(t *testing.T) {
	l := newTestLouisville(newLouisvilleServer(t).URL)

	res := l.Beds(context.Background())
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 500, res.Data.Total)
	assert.Equal(t, 20, res.Data.Available)
	assert.Equal(t, 480, res.Data.Occupied)
	assert.Equal(t, domain.BedBreakdown{Emergency: 300, Transitional: 120, Permanent: 80}, res.Data.Breakdown)
}

func TestLouisvilleResources(t *testing.T) {
	l := newTestLouisville(newLouisvilleServer(t).URL)

	res := l.Resources(context.Background())
	require.True(t, res.Success, res.Error)
	require.Len(t, res.Data, 1)

	r := res.Data[0]
	assert.Zero(t, r.ID)
	assert.Equal(t, "Wayside Christian Mission", r.Name)
	assert.Equal(t, domain.ResourceShelter, r.Type)
	assert.Equal(t, []string{"meals", "showers"}, r.Services)
	assert.Equal(t, domain.Coordinates{Lat: 38.2546, Lng: -85.7454}, r.Coordinates)
	require.NotNil(t, r.Capacity)
	assert.Equal(t, 300, *r.Capacity)
	assert.True(t, r.IsOpen)
	assert.Equal(t, "louisville-open-data", r.Source)
}

func TestLouisvilleUnconfiguredDataset(t *testing.T) {
	l := NewLouisville(LouisvilleConfig{HTTPConfig: testHTTP, BaseURL: "http://127.0.0.1:1"})

	res := l.Beds(context.Background())
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "not configured")
}

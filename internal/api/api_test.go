package api

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hopelouisville/dashboard/internal/api/controller"
	"github.com/hopelouisville/dashboard/internal/config"
	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/store"
	"github.com/hopelouisville/dashboard/internal/service/forecast"
	"github.com/hopelouisville/dashboard/internal/service/resource"
	"github.com/hopelouisville/dashboard/internal/service/scheduler"
	"github.com/hopelouisville/dashboard/internal/service/volunteer"
)

type fakeStats struct {
	currentCalls atomic.Int32
	history      []domain.HistoricalPoint
}

func (f *fakeStats) CurrentStats(context.Context) domain.SourceResult[domain.StatRecord] {
	f.currentCalls.Add(1)
	return domain.OK("hud", domain.StatRecord{TotalHomeless: 1157, Sheltered: 680, Unsheltered: 477})
}

func (f *fakeStats) Historical(context.Context) domain.SourceResult[[]domain.HistoricalPoint] {
	return domain.OK("hud", f.history)
}

func (f *fakeStats) Beds(context.Context) domain.SourceResult[domain.BedAvailability] {
	return domain.OK("hud", domain.BedAvailability{Total: 1400, Available: 100, Occupied: 1300})
}

func (f *fakeStats) Resources(context.Context) domain.SourceResult[[]domain.Resource] {
	return domain.OK("resource-store", []domain.Resource{{ID: 1, Name: "Wayside Christian Mission"}})
}

func (f *fakeStats) Alerts(context.Context) domain.SourceResult[[]domain.Alert] {
	return domain.OK("nws", []domain.Alert{})
}

func (f *fakeStats) ImpactMetrics(context.Context) domain.SourceResult[domain.ImpactMetrics] {
	return domain.OK("static-fallback", domain.ImpactMetrics{PeopleHoused: 10})
}

func (f *fakeStats) SourceNames() map[string][]string {
	return map[string][]string{"currentStats": {"hud"}}
}

type fakeHUD struct {
	fail bool
}

func (f fakeHUD) CurrentStats(context.Context) domain.SourceResult[domain.StatRecord] {
	if f.fail {
		return domain.Failed[domain.StatRecord]("hud", errors.New("unexpected status 503"))
	}
	return domain.OK("hud", domain.StatRecord{TotalHomeless: 1157})
}

type testEnv struct {
	handler   http.Handler
	stats     *fakeStats
	feed      *scheduler.Scheduler[domain.Bundle]
	refreshes *atomic.Int32
}

func newTestEnv(t *testing.T, mutate func(*controller.Deps)) *testEnv {
	t.Helper()

	stats := &fakeStats{history: []domain.HistoricalPoint{
		{Year: 2022, Total: 1085}, {Year: 2023, Total: 1120}, {Year: 2024, Total: 1157},
	}}

	var refreshes atomic.Int32
	feed, err := scheduler.New[domain.Bundle](scheduler.Config{Name: "datasets", Interval: time.Hour}, func(ctx context.Context) (domain.Bundle, error) {
		refreshes.Add(1)
		return domain.Bundle{
			CurrentStats: stats.CurrentStats(ctx),
			Timestamp:    time.Now().UTC(),
		}, nil
	})
	require.NoError(t, err)

	resources := resource.NewResourceService(store.NewStore([]domain.Resource{
		{ID: 1, Name: "Wayside Christian Mission", Type: domain.ResourceShelter, Coordinates: domain.Coordinates{Lat: 38.2546, Lng: -85.7454}, IsOpen: true},
		{ID: 2, Name: "Dare to Care", Type: domain.ResourceFood, Coordinates: domain.Coordinates{Lat: 38.2107, Lng: -85.7130}},
	}))

	deps := controller.Deps{
		Stats:      stats,
		Feed:       feed,
		Forecast:   forecast.NewForecastService(3),
		Resources:  resources,
		Volunteers: volunteer.NewVolunteerService(store.NewStore(nil)),
		HUD:        fakeHUD{},
	}
	if mutate != nil {
		mutate(&deps)
	}

	svc, err := NewAPIService(Options{
		HTTP: config.HTTP{AllowOrigins: []string{"*"}},
		Cache: config.Cache{
			StatsTTL:      time.Minute,
			ResourcesTTL:  time.Minute,
			HTTPAlertsTTL: time.Minute,
			ExternalTTL:   time.Minute,
		},
		ResourceChanges: resources,
	}, deps)
	require.NoError(t, err)

	return &testEnv{handler: svc.Handler(), stats: stats, feed: feed, refreshes: &refreshes}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNewAPIService_RequiresDeps(t *testing.T) {
	_, err := NewAPIService(Options{}, controller.Deps{})
	assert.Error(t, err)
}

func TestStats_ResponseCache(t *testing.T) {
	env := newTestEnv(t, nil)

	first := env.do(t, http.MethodGet, "/api/stats/current", "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get(headerXCache))

	second := env.do(t, http.MethodGet, "/api/stats/current", "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get(headerXCache))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.EqualValues(t, 1, env.stats.currentCalls.Load())

	res := decode[domain.SourceResult[domain.StatRecord]](t, second)
	assert.True(t, res.Success)
	assert.Equal(t, 1157, res.Data.TotalHomeless)

	refresh := env.do(t, http.MethodPost, "/api/stats/refresh", "")
	require.Equal(t, http.StatusOK, refresh.Code)

	third := env.do(t, http.MethodGet, "/api/stats/current", "")
	assert.Equal(t, "MISS", third.Header().Get(headerXCache))
}

func TestStats_All(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/stats/all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, env.refreshes.Load())

	rec = env.do(t, http.MethodGet, "/api/stats/all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, env.refreshes.Load())

	bundle := decode[domain.Bundle](t, rec)
	assert.Equal(t, 1157, bundle.CurrentStats.Data.TotalHomeless)
}

func TestStats_Forecast(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/stats/forecast?years=2", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	type response struct {
		Success bool                   `json:"success"`
		Data    []domain.ForecastPoint `json:"data"`
	}
	res := decode[response](t, rec)
	assert.True(t, res.Success)
	require.Len(t, res.Data, 2)
	assert.Equal(t, 2025, res.Data[0].Year)

	rec = env.do(t, http.MethodGet, "/api/stats/forecast?years=11", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.stats.history = env.stats.history[:1]
	rec = env.do(t, http.MethodGet, "/api/stats/forecast?years=1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestResources(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("list with filter", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/resources?type=shelter", "")
		require.Equal(t, http.StatusOK, rec.Code)

		got := decode[[]domain.Resource](t, rec)
		require.Len(t, got, 1)
		assert.Equal(t, "Wayside Christian Mission", got[0].Name)
	})

	t.Run("unknown type", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/resources?type=spa", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get by id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/resources/2", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(2), decode[domain.Resource](t, rec).ID)

		rec = env.do(t, http.MethodGet, "/api/resources/999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		errResp := decode[domain.ErrorResponse](t, rec)
		assert.Equal(t, http.StatusNotFound, errResp.Code)

		rec = env.do(t, http.MethodGet, "/api/resources/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("nearby", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/resources/nearby?lat=38.2527&lng=-85.7585&limit=1", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		got := decode[[]domain.RankedResource](t, rec)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].ID)
		assert.Greater(t, got[0].DistanceMiles, 0.0)

		rec = env.do(t, http.MethodGet, "/api/resources/nearby?lat=120&lng=-85.7", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/resources/nearby", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("directory", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/resources/directory", "")
		require.Equal(t, http.StatusOK, rec.Code)

		res := decode[domain.SourceResult[[]domain.Resource]](t, rec)
		assert.Len(t, res.Data, 1)
	})
}

func TestAdminResources(t *testing.T) {
	env := newTestEnv(t, nil)

	list := env.do(t, http.MethodGet, "/api/resources", "")
	require.Equal(t, http.StatusOK, list.Code)
	require.Len(t, decode[[]domain.Resource](t, list), 2)

	created := env.do(t, http.MethodPost, "/api/admin/resources", `{"name":"Harbor House","type":"shelter","services":["beds"]}`)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	assert.Equal(t, int64(3), decode[domain.Resource](t, created).ID)

	list = env.do(t, http.MethodGet, "/api/resources", "")
	assert.Equal(t, "MISS", list.Header().Get(headerXCache))
	assert.Len(t, decode[[]domain.Resource](t, list), 3)

	updated := env.do(t, http.MethodPut, "/api/admin/resources/3", `{"isOpen":true,"capacity":40}`)
	require.Equal(t, http.StatusOK, updated.Code, updated.Body.String())
	got := decode[domain.Resource](t, updated)
	assert.True(t, got.IsOpen)
	require.NotNil(t, got.Capacity)
	assert.Equal(t, 40, *got.Capacity)
	assert.Equal(t, "Harbor House", got.Name)

	deleted := env.do(t, http.MethodDelete, "/api/admin/resources/3", "")
	assert.Equal(t, http.StatusNoContent, deleted.Code)

	missing := env.do(t, http.MethodGet, "/api/resources/3", "")
	assert.Equal(t, http.StatusNotFound, missing.Code)

	t.Run("validation", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/admin/resources", `{"name":"","type":"shelter"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(t, http.MethodPost, "/api/admin/resources", `{"name":"Pantry","type":"spa"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(t, http.MethodPost, "/api/admin/resources", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(t, http.MethodPut, "/api/admin/resources/42", `{"isOpen":true}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestVolunteers(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/volunteers", `{"name":"Sam Rivera","email":"sam@example.org","interests":["meals"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	v := decode[domain.Volunteer](t, rec)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "sam@example.org", v.Email)

	rec = env.do(t, http.MethodPost, "/api/volunteers", `{"name":"Sam Rivera","email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExternal(t *testing.T) {
	t.Run("proxies upstream", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := env.do(t, http.MethodGet, "/api/external/hud", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decode[domain.SourceResult[domain.StatRecord]](t, rec).Success)
	})

	t.Run("upstream failure is 502", func(t *testing.T) {
		env := newTestEnv(t, func(d *controller.Deps) { d.HUD = fakeHUD{fail: true} })

		rec := env.do(t, http.MethodGet, "/api/external/hud", "")
		require.Equal(t, http.StatusBadGateway, rec.Code)

		body := decode[map[string]any](t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "hud", body["source"])
		assert.Contains(t, body["error"], "503")

		rec = env.do(t, http.MethodGet, "/api/external/hud", "")
		assert.Equal(t, "MISS", rec.Header().Get(headerXCache))
	})

	t.Run("not configured", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := env.do(t, http.MethodGet, "/api/external/louisville/stats", "")
		assert.Equal(t, http.StatusNotImplemented, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/external/datagov/search?q=homeless", "")
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})
}

func TestHealthAndAlerts(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])

	rec = env.do(t, http.MethodGet, "/api/alerts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[domain.SourceResult[[]domain.Alert]](t, rec).Success)

	rec = env.do(t, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsStream(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.feed.ManualRefresh(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/stats/stream", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var event, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && event != "":
				return event, data
			}
		}
	}

	event, data := readEvent()
	assert.Equal(t, "update", event)
	assert.Contains(t, data, `"totalHomeless":1157`)

	_, err = env.feed.ManualRefresh(context.Background())
	require.NoError(t, err)

	event, _ = readEvent()
	assert.Equal(t, "update", event)
}

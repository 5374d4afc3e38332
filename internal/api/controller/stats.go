package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/logger"
)

const (
	defaultForecastYears = 3
	streamKeepAlive      = 30 * time.Second
)

func (c *Controller) GetCurrentStats(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.stats.CurrentStats(ctx.Request().Context()))
}

func (c *Controller) GetHistorical(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.stats.Historical(ctx.Request().Context()))
}

func (c *Controller) GetBeds(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.stats.Beds(ctx.Request().Context()))
}

func (c *Controller) GetImpact(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.stats.ImpactMetrics(ctx.Request().Context()))
}

type forecastRequest struct {
	Years int `query:"years" validate:"omitempty,min=1,max=10"`
}

func (c *Controller) GetForecast(ctx echo.Context) error {
	var req forecastRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if req.Years == 0 {
		req.Years = defaultForecastYears
	}

	history := c.stats.Historical(ctx.Request().Context())

	points, err := c.forecast.Project(history.Data, req.Years)
	if err != nil {
		return fmt.Errorf("forecast: %w", err)
	}

	type response struct {
		Success    bool                   `json:"success"`
		Data       []domain.ForecastPoint `json:"data"`
		Basis      string                 `json:"basis"`
		IsFallback bool                   `json:"isFallback,omitempty"`
		Timestamp  time.Time              `json:"timestamp"`
	}

	return ctx.JSON(http.StatusOK, response{
		Success:    true,
		Data:       points,
		Basis:      history.Source,
		IsFallback: history.IsFallback,
		Timestamp:  time.Now().UTC(),
	})
}

// GetAll answers with the last bundle the scheduler published, refreshing once if there is none.
func (c *Controller) GetAll(ctx echo.Context) error {
	if bundle, _, ok := c.feed.Latest(); ok {
		return ctx.JSON(http.StatusOK, bundle)
	}

	bundle, err := c.feed.ManualRefresh(ctx.Request().Context())
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return ctx.JSON(http.StatusOK, bundle)
}

func (c *Controller) RefreshStats(ctx echo.Context) error {
	bundle, err := c.feed.ManualRefresh(ctx.Request().Context())
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	logger.Infof(ctx.Request().Context(), "manual refresh done, stale=%t", bundle.Stale())
	return ctx.JSON(http.StatusOK, bundle)
}

// StreamStats pushes every published bundle as a server-sent "update" event, starting with the
// latest one if any.
func (c *Controller) StreamStats(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	updates := make(chan domain.Bundle, 4)
	unsubscribe := c.feed.Subscribe(func(_ context.Context, b domain.Bundle) {
		select {
		case updates <- b:
		default:
			// slow client, drop
		}
	})
	defer unsubscribe()

	w := ctx.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if bundle, _, ok := c.feed.Latest(); ok {
		if err := writeEvent(w, "update", bundle); err != nil {
			return err
		}
	}
	w.Flush()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-reqCtx.Done():
			return nil
		case bundle := <-updates:
			if err := writeEvent(w, "update", bundle); err != nil {
				return err
			}
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return err
			}
			w.Flush()
		}
	}
}

func writeEvent(w *echo.Response, event string, v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	w.Flush()
	return nil
}

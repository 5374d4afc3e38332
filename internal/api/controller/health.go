package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func (c *Controller) Health(ctx echo.Context) error {
	type refresh struct {
		Active      bool       `json:"active"`
		LastRefresh *time.Time `json:"lastRefresh,omitempty"`
		Stale       bool       `json:"stale"`
	}
	type response struct {
		Status  string              `json:"status"`
		Uptime  string              `json:"uptime"`
		Sources map[string][]string `json:"sources"`
		Refresh refresh             `json:"refresh"`
	}

	resp := response{
		Status:  "ok",
		Uptime:  time.Since(c.started).Round(time.Second).String(),
		Sources: c.stats.SourceNames(),
		Refresh: refresh{Active: c.feed.IsActive()},
	}
	if bundle, at, ok := c.feed.Latest(); ok {
		resp.Refresh.LastRefresh = &at
		resp.Refresh.Stale = bundle.Stale()
	}

	return ctx.JSON(http.StatusOK, resp)
}

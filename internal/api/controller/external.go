package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
)

const defaultSearchRows = 10

type upstreamFailure struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// proxy answers with the adapter envelope, or 502 when the upstream call failed.
func proxy[T any](ctx echo.Context, res domain.SourceResult[T]) error {
	if !res.Success {
		return ctx.JSON(http.StatusBadGateway, upstreamFailure{
			Error:     res.Error,
			Source:    res.Source,
			Timestamp: res.Timestamp,
		})
	}
	return ctx.JSON(http.StatusOK, res)
}

func notConfigured(name string) error {
	return fmt.Errorf("%s: %w", name, constants.ErrNotImplemented)
}

func (c *Controller) GetHUDStats(ctx echo.Context) error {
	if c.hud == nil {
		return notConfigured(constants.SourceHUD)
	}
	return proxy(ctx, c.hud.CurrentStats(ctx.Request().Context()))
}

func (c *Controller) GetLouisvilleStats(ctx echo.Context) error {
	if c.louisville == nil {
		return notConfigured(constants.SourceLouisville)
	}
	return proxy(ctx, c.louisville.CurrentStats(ctx.Request().Context()))
}

type datasetSearchRequest struct {
	Query string `query:"q" validate:"required,max=200"`
	Rows  int    `query:"rows" validate:"omitempty,min=1,max=100"`
}

func (c *Controller) SearchDataGov(ctx echo.Context) error {
	if c.datagov == nil {
		return notConfigured(constants.SourceDataGov)
	}

	var req datasetSearchRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if req.Rows == 0 {
		req.Rows = defaultSearchRows
	}

	return proxy(ctx, c.datagov.Search(ctx.Request().Context(), req.Query, req.Rows))
}

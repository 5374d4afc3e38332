package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (c *Controller) GetAlerts(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.stats.Alerts(ctx.Request().Context()))
}

package controller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/store"
)

type listResourcesRequest struct {
	Type string `query:"type" validate:"omitempty,oneof=shelter food clinic services"`
	Open bool   `query:"open"`
}

func (r listResourcesRequest) filter() store.ResourceFilter {
	return store.ResourceFilter{Type: domain.ResourceType(r.Type), OpenOnly: r.Open}
}

func (c *Controller) ListResources(ctx echo.Context) error {
	var req listResourcesRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	resources, err := c.resources.List(ctx.Request().Context(), req.filter())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, resources)
}

type resourceIDRequest struct {
	ID int64 `param:"id" validate:"required,min=1"`
}

func (c *Controller) GetResource(ctx echo.Context) error {
	var req resourceIDRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	resource, err := c.resources.Get(ctx.Request().Context(), req.ID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, resource)
}

type nearbyRequest struct {
	listResourcesRequest
	Lat   string `query:"lat" validate:"required,latitude"`
	Lng   string `query:"lng" validate:"required,longitude"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=50"`
}

func (c *Controller) NearbyResources(ctx echo.Context) error {
	var req nearbyRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	// both already validated as coordinates
	lat, _ := strconv.ParseFloat(req.Lat, 64)
	lng, _ := strconv.ParseFloat(req.Lng, 64)

	origin := domain.Coordinates{Lat: lat, Lng: lng}
	ranked, err := c.resources.Nearby(ctx.Request().Context(), origin, req.filter(), req.Limit)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, ranked)
}

// ResourceDirectory is the merged directory of stored and open-data resources.
func (c *Controller) ResourceDirectory(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.stats.Resources(ctx.Request().Context()))
}

package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/store"
)

type createResourceRequest struct {
	Name        string              `json:"name" validate:"required,max=200"`
	Type        domain.ResourceType `json:"type" validate:"required,oneof=shelter food clinic services"`
	Address     string              `json:"address" validate:"max=300"`
	Coordinates domain.Coordinates  `json:"coordinates"`
	Phone       string              `json:"phone" validate:"max=40"`
	Hours       string              `json:"hours" validate:"max=200"`
	Services    []string            `json:"services" validate:"max=50,dive,max=100"`
	Capacity    *int                `json:"capacity" validate:"omitempty,min=0"`
	Available   *int                `json:"available" validate:"omitempty,min=0"`
	IsOpen      bool                `json:"isOpen"`
}

func (r createResourceRequest) resource() domain.Resource {
	return domain.Resource{
		Name:        r.Name,
		Type:        r.Type,
		Address:     r.Address,
		Coordinates: r.Coordinates,
		Phone:       r.Phone,
		Hours:       r.Hours,
		Services:    r.Services,
		Capacity:    r.Capacity,
		Available:   r.Available,
		IsOpen:      r.IsOpen,
	}
}

func (c *Controller) CreateResource(ctx echo.Context) error {
	var req createResourceRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	created, err := c.resources.Create(ctx.Request().Context(), req.resource())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, created)
}

type updateResourceRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
	store.ResourcePatch
}

func (c *Controller) UpdateResource(ctx echo.Context) error {
	var req updateResourceRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	updated, err := c.resources.Update(ctx.Request().Context(), req.ID, req.ResourcePatch)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, updated)
}

func (c *Controller) DeleteResource(ctx echo.Context) error {
	var req resourceIDRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if err := c.resources.Delete(ctx.Request().Context(), req.ID); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

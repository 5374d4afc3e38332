package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hopelouisville/dashboard/internal/domain"
)

type volunteerRequest struct {
	Name         string   `json:"name" validate:"required,max=120"`
	Email        string   `json:"email" validate:"required,email"`
	Phone        string   `json:"phone" validate:"max=40"`
	Interests    []string `json:"interests" validate:"max=20,dive,max=60"`
	Availability string   `json:"availability" validate:"max=200"`
	Message      string   `json:"message" validate:"max=2000"`
}

func (c *Controller) SignUpVolunteer(ctx echo.Context) error {
	var req volunteerRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	volunteer, err := c.volunteers.SignUp(ctx.Request().Context(), domain.Volunteer{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Interests:    req.Interests,
		Availability: req.Availability,
		Message:      req.Message,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, volunteer)
}

package api

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/hopelouisville/dashboard/internal/pkg/constants"
)

// Binder binds path, query and body like echo's default binder, then validates the result.
type Binder struct {
	echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i interface{}, c echo.Context) error {
	if err := b.DefaultBinder.Bind(i, c); err != nil {
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg = fmt.Sprint(he.Message)
		}
		return fmt.Errorf("bind: %s: %w", msg, constants.ErrBadRequest)
	}
	return c.Validate(i)
}

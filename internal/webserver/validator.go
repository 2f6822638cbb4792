package webserver

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// payloadValidator wires go-playground/validator behind echo's c.Validate.
type payloadValidator struct {
	validate *validator.Validate
}

func newValidator() *payloadValidator {
	return &payloadValidator{validate: validator.New()}
}

func (v *payloadValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

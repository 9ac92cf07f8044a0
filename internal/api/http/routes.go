package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-gateway/internal/weather"
	"github.com/i474232898/weather-gateway/internal/weatherstack"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	app.Get("/weather", func(c *fiber.Ctx) error {
		q := weatherQuery{City: c.Query("city")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}

		report, err := service.CurrentByCity(c.Context(), q.City)
		if err != nil {
			return translateError(err)
		}

		return c.JSON(report)
	})
}

// weatherQuery holds the query parameters for the weather endpoint. The
// 1-100 character bound applies before whitespace normalization.
type weatherQuery struct {
	City string `validate:"required,min=1,max=100"`
}

// translateError converts every failure of the weather operation into a
// user-visible status/detail pair. Nothing propagates untranslated.
func translateError(err error) error {
	var apiErr *weatherstack.APIError

	switch {
	case errors.Is(err, weather.ErrEmptyCity):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "city must not be empty")
	case errors.As(err, &apiErr):
		status, detail := statusForAPIError(apiErr)
		return fiber.NewError(status, detail)
	case errors.Is(err, weatherstack.ErrTimeout):
		return fiber.NewError(fiber.StatusGatewayTimeout, "Weatherstack timeout")
	case errors.Is(err, weather.ErrBadPayload):
		return fiber.NewError(fiber.StatusBadGateway, "Unexpected response from Weatherstack")
	default:
		return fiber.NewError(fiber.StatusBadGateway, "Weatherstack network error")
	}
}

// statusForAPIError maps an upstream-reported error to a status code by its
// (code, type) pair; the first match wins.
func statusForAPIError(e *weatherstack.APIError) (int, string) {
	switch {
	case codeIs(e, 101) || e.Type == "unauthorized":
		return fiber.StatusUnauthorized, "Weatherstack unauthorized"
	case codeIs(e, 104) || e.Type == "usage_limit_reached":
		return fiber.StatusTooManyRequests, "Weatherstack usage limit reached"
	case codeIs(e, 429) || e.Type == "too_many_requests":
		return fiber.StatusTooManyRequests, "Weatherstack too many requests"
	case codeIs(e, 403) || e.Type == "forbidden":
		return fiber.StatusForbidden, "Weatherstack forbidden"
	case codeIs(e, 601) || e.Type == "missing_query":
		return fiber.StatusBadRequest, "Missing city query"
	default:
		return fiber.StatusBadGateway, "Upstream Weatherstack error"
	}
}

func codeIs(e *weatherstack.APIError, code int) bool {
	return e.Code != nil && *e.Code == code
}

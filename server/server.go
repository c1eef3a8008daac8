package server

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/silyecsabi/weather-forecast/config"
	"github.com/silyecsabi/weather-forecast/frame"
	"github.com/silyecsabi/weather-forecast/loader"
)

var validate = validator.New()

// New builds the fiber app serving the data loader over HTTP.
func New(cfg config.Server, l *loader.Loader, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "weather-forecast",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-forecast",
		})
	})

	v1 := app.Group("/api/v1")

	v1.Get("/country/:code", func(c *fiber.Ctx) error {
		name, err := loader.CountryName(c.Params("code"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"code": c.Params("code"),
			"name": name,
		})
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		var q weatherQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		req, err := q.config()
		if err != nil {
			return err
		}

		var data *frame.Frame
		if q.Raw {
			data, err = l.RawWeatherData(c.UserContext(), req)
		} else {
			data, err = l.WeatherData(c.UserContext(), req)
		}
		if err != nil {
			return err
		}

		return c.JSON(data)
	})

	return app
}

// weatherQuery holds the query parameters of the weather endpoint.
type weatherQuery struct {
	Country string `validate:"required,len=2"`
	City    string `validate:"required"`
	From    string `validate:"required,datetime=2006-01-02"`
	To      string `validate:"required,datetime=2006-01-02"`
	Raw     bool
}

func (q *weatherQuery) bind(c *fiber.Ctx) error {
	q.Country = c.Query("country")
	q.City = c.Query("city")
	q.From = c.Query("from")
	q.To = c.Query("to")
	q.Raw = c.QueryBool("raw", false)

	return validate.Struct(q)
}

func (q weatherQuery) config() (loader.Config, error) {
	from, err := time.Parse(frame.DateLayout, q.From)
	if err != nil {
		return loader.Config{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	to, err := time.Parse(frame.DateLayout, q.To)
	if err != nil {
		return loader.Config{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return loader.NewConfig(q.Country, q.City, from, to)
}

func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := statusCode(err)
		if code >= fiber.StatusInternalServerError && logger != nil {
			logger.Error("HTTP error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}
}

func statusCode(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, loader.ErrUnknownCountry),
		errors.Is(err, loader.ErrInvalidDateRange),
		errors.Is(err, loader.ErrInvalidConfig):
		return fiber.StatusBadRequest
	case errors.Is(err, loader.ErrLocationNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusBadGateway
	}
}

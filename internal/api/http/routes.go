package httpapi

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/chart"
	"github.com/i474232898/weather-dashboard/internal/forecast"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	themeCookie  = "theme"
	defaultTheme = "light"
)

var validate = validator.New()

// Defaults are the values used when a request leaves something out.
type Defaults struct {
	City    weather.Location
	Presets []weather.Location
	Surface chart.Surface
}

// ErrorHandler renders every error as {"error":true,"message":...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, defaults Defaults) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c, defaults.City)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(service.Current(c.UserContext(), loc))
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		var req forecastQuery
		if err := req.bind(c, defaults.City); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{
			"location": req.Location,
			"days":     service.Forecast(c.UserContext(), req.Location, req.Days),
		})
	})

	v1.Get("/weather/chart", func(c *fiber.Ctx) error {
		loc, surface, err := parseChartQuery(c, defaults)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		daily := service.Forecast(c.UserContext(), loc, forecast.DefaultHorizon)
		proj, err := chart.Project(daily, surface)
		if err != nil {
			return projectError(err)
		}

		return c.JSON(fiber.Map{
			"location": loc,
			"surface":  surface,
			"daily":    daily,
			"chart":    proj,
		})
	})

	v1.Get("/weather/chart.svg", func(c *fiber.Ctx) error {
		loc, surface, err := parseChartQuery(c, defaults)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		proj, err := chart.Project(service.Forecast(c.UserContext(), loc, forecast.DefaultHorizon), surface)
		if err != nil {
			return projectError(err)
		}

		var buf bytes.Buffer
		if err := chart.RenderSVG(&buf, proj, surface, chart.StyleFor(themeOf(c))); err != nil {
			return err
		}

		c.Type("svg")
		return c.Send(buf.Bytes())
	})

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		loc, surface, err := parseChartQuery(c, defaults)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		dash, err := service.Dashboard(c.UserContext(), loc, surface)
		if err != nil {
			return projectError(err)
		}

		return c.JSON(fiber.Map{
			"dashboard": dash,
			"theme":     themeOf(c),
		})
	})

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"cities": service.SidePanel(c.UserContext(), defaults.Presets),
		})
	})

	v1.Get("/theme", func(c *fiber.Ctx) error {
		return c.JSON(themeRequest{Theme: themeOf(c)})
	})

	v1.Put("/theme", func(c *fiber.Ctx) error {
		var req themeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		c.Cookie(&fiber.Cookie{
			Name:     themeCookie,
			Value:    req.Theme,
			Path:     "/",
			Expires:  time.Now().AddDate(1, 0, 0),
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.JSON(req)
	})
}

func projectError(err error) error {
	if errors.Is(err, chart.ErrInvalidSurface) || errors.Is(err, chart.ErrNoPoints) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

func themeOf(c *fiber.Ctx) string {
	switch t := c.Cookies(themeCookie); t {
	case "light", "dark":
		return t
	default:
		return defaultTheme
	}
}

type themeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

// locationQuery holds query parameters for identifying a location.
type locationQuery struct {
	City    string `validate:"omitempty,max=85"`
	Country string `validate:"omitempty,len=2,alpha"`
}

// parseLocationQuery falls back to def when no city is given.
func parseLocationQuery(c *fiber.Ctx, def weather.Location) (weather.Location, error) {
	q := locationQuery{
		City:    strings.TrimSpace(c.Query("city")),
		Country: strings.TrimSpace(c.Query("country")),
	}
	if err := validate.Struct(q); err != nil {
		return weather.Location{}, err
	}

	if q.City == "" {
		if q.Country != "" {
			return weather.Location{}, errors.New("country requires city")
		}
		return def, nil
	}
	return weather.Location{City: q.City, Country: strings.ToUpper(q.Country)}, nil
}

// forecastQuery holds query parameters for the forecast endpoint.
type forecastQuery struct {
	Location weather.Location
	Days     int `validate:"gte=1,lte=5"`
}

func (f *forecastQuery) bind(c *fiber.Ctx, def weather.Location) error {
	loc, err := parseLocationQuery(c, def)
	if err != nil {
		return err
	}
	f.Location = loc

	f.Days = forecast.DefaultHorizon
	if raw := c.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("days must be an integer")
		}
		f.Days = days
	}

	return validate.Struct(f)
}

// surfaceQuery bounds user-supplied chart sizes; Surface.Validate checks the rest.
type surfaceQuery struct {
	Width   float64 `validate:"gt=0,lte=4000"`
	Height  float64 `validate:"gt=0,lte=4000"`
	Padding float64 `validate:"gte=0,lte=4000"`
}

func parseChartQuery(c *fiber.Ctx, defaults Defaults) (weather.Location, chart.Surface, error) {
	loc, err := parseLocationQuery(c, defaults.City)
	if err != nil {
		return weather.Location{}, chart.Surface{}, err
	}

	q := surfaceQuery{
		Width:   defaults.Surface.Width,
		Height:  defaults.Surface.Height,
		Padding: defaults.Surface.Padding,
	}
	for key, dst := range map[string]*float64{"width": &q.Width, "height": &q.Height, "padding": &q.Padding} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return weather.Location{}, chart.Surface{}, errors.New(key + " must be a number")
		}
		*dst = v
	}
	if err := validate.Struct(q); err != nil {
		return weather.Location{}, chart.Surface{}, err
	}

	return loc, chart.Surface(q), nil
}

package httpapi

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/aerugo/riksbank-data-service/internal/riksbank"
	"github.com/aerugo/riksbank-data-service/internal/riksbank/providers"
)

var validate = validator.New()

var policyRoundPattern = regexp.MustCompile(`^\d{4}:\d+$`)

func init() {
	// policyround: the "YYYY:N" policy round identifier format.
	_ = validate.RegisterValidation("policyround", func(fl validator.FieldLevel) bool {
		return policyRoundPattern.MatchString(fl.Field().String())
	})
	// isodate: a YYYY-MM-DD calendar date.
	_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := riksbank.ParseDate(fl.Field().String())
		return err == nil
	})
}

// Services bundles the backends the HTTP layer exposes.
type Services struct {
	Forecasts *riksbank.Service
	Swea      *providers.SweaClient
	Swestr    *providers.SwestrClient
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svcs Services) {
	v1 := app.Group("/api/v1")

	v1.Get("/policy-rounds", func(c *fiber.Ctx) error {
		rounds, err := svcs.Forecasts.ListPolicyRounds(c.Context())
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(fiber.Map{"rounds": rounds})
	})

	v1.Get("/series", func(c *fiber.Ctx) error {
		series, err := svcs.Forecasts.ListSeries(c.Context())
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(fiber.Map{"series": series})
	})

	v1.Get("/forecasts", func(c *fiber.Ctx) error {
		seriesID := c.Query("series_id")
		if seriesID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "series_id query parameter is required")
		}
		req, err := parseForecastQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		resp, err := svcs.Forecasts.FetchSeries(c.Context(), seriesID, req)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(resp)
	})

	v1.Get("/forecasts/:slug", func(c *fiber.Ctx) error {
		series, ok := riksbank.ForecastSeriesBySlug(c.Params("slug"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown forecast series")
		}
		req, err := parseForecastQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		resp, err := svcs.Forecasts.FetchSeries(c.Context(), series.ID, req)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(resp)
	})

	swea := v1.Group("/swea")

	swea.Get("/policy-rate", func(c *fiber.Ctx) error {
		q, err := parseDateRangeQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		data, err := svcs.Swea.PolicyRate(c.Context(), q.From, q.To)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(data)
	})

	swea.Get("/mortgage-rate", func(c *fiber.Ctx) error {
		q, err := parseDateRangeQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		data, err := svcs.Swea.MortgageRate(c.Context(), q.From, q.To)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(data)
	})

	swea.Get("/exchange-rates/:currency", func(c *fiber.Ctx) error {
		seriesID, ok := exchangeRateSeries[c.Params("currency")]
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown currency; use usd, eur or gbp")
		}
		q, err := parseDateRangeQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		data, err := svcs.Swea.ExchangeRate(c.Context(), seriesID, q.From, q.To)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(data)
	})

	swea.Get("/observations/:seriesId", func(c *fiber.Ctx) error {
		q, err := parseDateRangeQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		obs, err := svcs.Swea.Observations(c.Context(), c.Params("seriesId"), q.From, q.To)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(fiber.Map{"observations": obs})
	})

	swea.Get("/observations/:seriesId/latest", func(c *fiber.Ctx) error {
		obs, err := svcs.Swea.LatestObservation(c.Context(), c.Params("seriesId"))
		if err != nil {
			return upstreamError(err)
		}
		if obs == nil {
			return fiber.NewError(fiber.StatusNotFound, "no observations published for series")
		}
		return c.JSON(obs)
	})

	swea.Get("/cross-rates", func(c *fiber.Ctx) error {
		var q crossRatesQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if q.Aggregation != "" {
			aggs, err := svcs.Swea.CrossRateAggregates(c.Context(), q.Base, q.Counter, q.Aggregation, q.From, q.To)
			if err != nil {
				return upstreamError(err)
			}
			return c.JSON(fiber.Map{"aggregates": aggs})
		}
		rates, err := svcs.Swea.CrossRates(c.Context(), q.Base, q.Counter, q.From, q.To)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(fiber.Map{"cross_rates": rates})
	})

	swea.Get("/calendar-days", func(c *fiber.Ctx) error {
		q, err := parseDateRangeQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		days, err := svcs.Swea.CalendarDays(c.Context(), q.From, q.To)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(fiber.Map{"calendar_days": days})
	})

	swestr := v1.Group("/swestr")

	swestr.Get("/rates", func(c *fiber.Ctx) error {
		q, err := parseDateRangeQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		data, err := svcs.Swestr.Rates(c.Context(), q.From, q.To)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(data)
	})

	swestr.Get("/rates/latest", func(c *fiber.Ctx) error {
		obs, err := svcs.Swestr.Latest(c.Context())
		if err != nil {
			return upstreamError(err)
		}
		if obs == nil {
			return fiber.NewError(fiber.StatusNotFound, "no SWESTR fixing published yet")
		}
		return c.JSON(obs)
	})

	swestr.Get("/averages", func(c *fiber.Ctx) error {
		var q averagesQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		data, err := svcs.Swestr.Averages(c.Context(), providers.AveragePeriod(q.Period), q.From, q.To)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(data)
	})
}

var exchangeRateSeries = map[string]string{
	"usd": providers.USDSeriesID,
	"eur": providers.EURSeriesID,
	"gbp": providers.GBPSeriesID,
}

// upstreamError maps fetch-layer failures onto HTTP status codes. Upstream
// misbehaviour (bad statuses, exhausted retries, unusable vintage metadata)
// is a gateway problem, not a client one.
func upstreamError(err error) error {
	var reqErr *providers.RequestError
	if errors.As(err, &reqErr) ||
		errors.Is(err, providers.ErrMaxRetries) ||
		errors.Is(err, riksbank.ErrInvalidVintageMetadata) {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "upstream request failed")
}

// forecastQuery holds the query parameters shared by every forecast endpoint.
type forecastQuery struct {
	PolicyRound     string `validate:"omitempty,policyround"`
	IncludeRealized bool
}

func parseForecastQuery(c *fiber.Ctx) (riksbank.ForecastRequest, error) {
	var q forecastQuery
	q.PolicyRound = c.Query("policy_round")

	if raw := c.Query("include_realized"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return riksbank.ForecastRequest{}, errors.New("include_realized must be a boolean")
		}
		q.IncludeRealized = v
	}

	if err := validate.Struct(q); err != nil {
		return riksbank.ForecastRequest{}, err
	}
	return riksbank.ForecastRequest{
		PolicyRound:     q.PolicyRound,
		IncludeRealized: q.IncludeRealized,
	}, nil
}

// dateRangeQuery holds from/to query parameters for observation endpoints.
type dateRangeQuery struct {
	From string `validate:"required,isodate"`
	To   string `validate:"omitempty,isodate"`
}

func parseDateRangeQuery(c *fiber.Ctx) (dateRangeQuery, error) {
	q := dateRangeQuery{
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// crossRatesQuery holds query parameters for the cross-rates endpoint.
type crossRatesQuery struct {
	Base        string `validate:"required"`
	Counter     string `validate:"required"`
	Aggregation string `validate:"omitempty,oneof=Weekly Monthly Quarterly Yearly"`
	From        string `validate:"required,isodate"`
	To          string `validate:"omitempty,isodate"`
}

func (q *crossRatesQuery) bind(c *fiber.Ctx) error {
	q.Base = c.Query("base")
	q.Counter = c.Query("counter")
	q.Aggregation = c.Query("aggregation")
	q.From = c.Query("from")
	q.To = c.Query("to")
	return validate.Struct(q)
}

// averagesQuery holds query parameters for the SWESTR averages endpoint.
type averagesQuery struct {
	Period string `validate:"omitempty,oneof=all 1week 1month"`
	From   string `validate:"required,isodate"`
	To     string `validate:"omitempty,isodate"`
}

func (q *averagesQuery) bind(c *fiber.Ctx) error {
	q.Period = c.Query("period")
	q.From = c.Query("from")
	q.To = c.Query("to")
	return validate.Struct(q)
}

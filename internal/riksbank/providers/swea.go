package providers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/aerugo/riksbank-data-service/internal/riksbank"
)

const sweaBaseURL = "https://api.riksbank.se/swea/v1"

// SWEA series identifiers behind the thematic presets.
const (
	PolicyRateSeriesID   = "SE0001"
	USDSeriesID          = "USD_SEK"
	EURSeriesID          = "EUR_SEK"
	GBPSeriesID          = "GBP_SEK"
	MortgageRateSeriesID = "MORTGAGE_RATE"
)

// SweaClient talks to the Riksbank SWEA API: daily interest and exchange
// rate observations, cross rates, aggregates and the banking calendar.
// Endpoints address series and date ranges through path segments.
type SweaClient struct {
	rest *restClient
}

func NewSweaClient(client *http.Client, opts Options, log *zap.Logger) *SweaClient {
	return &SweaClient{
		rest: newRESTClient("swea", sweaBaseURL, client, opts, log),
	}
}

// rangeEndpoint appends the from date and, when present, the to date.
func rangeEndpoint(base, from, to string) string {
	endpoint := base + "/" + from
	if to != "" {
		endpoint += "/" + to
	}
	return endpoint
}

// Observations fetches the daily observations of one series between from and
// to (inclusive); an empty to means up to the latest published value.
func (c *SweaClient) Observations(ctx context.Context, seriesID, from, to string) ([]riksbank.Observation, error) {
	var obs []riksbank.Observation
	err := c.rest.getJSON(ctx, rangeEndpoint("Observations/"+seriesID, from, to), nil, &obs)
	return obs, err
}

// LatestObservation returns the most recent observation of a series, or nil
// when the series has no published data.
func (c *SweaClient) LatestObservation(ctx context.Context, seriesID string) (*riksbank.Observation, error) {
	var obs riksbank.Observation
	if err := c.rest.getJSON(ctx, "Observations/Latest/"+seriesID, nil, &obs); err != nil {
		return nil, err
	}
	if obs.Date == "" {
		return nil, nil
	}
	return &obs, nil
}

// PolicyRate fetches the official Swedish policy (repo) rate.
func (c *SweaClient) PolicyRate(ctx context.Context, from, to string) (riksbank.InterestRateData, error) {
	obs, err := c.Observations(ctx, PolicyRateSeriesID, from, to)
	return riksbank.InterestRateData{Observations: obs}, err
}

// MortgageRate fetches the average Swedish mortgage interest rate.
func (c *SweaClient) MortgageRate(ctx context.Context, from, to string) (riksbank.InterestRateData, error) {
	obs, err := c.Observations(ctx, MortgageRateSeriesID, from, to)
	return riksbank.InterestRateData{Observations: obs}, err
}

// ExchangeRate fetches a SEK exchange rate series such as USD_SEK.
func (c *SweaClient) ExchangeRate(ctx context.Context, seriesID, from, to string) (riksbank.ExchangeRateData, error) {
	obs, err := c.Observations(ctx, seriesID, from, to)
	return riksbank.ExchangeRateData{SeriesID: seriesID, Observations: obs}, err
}

// CrossRates fetches cross rates between two currency series.
func (c *SweaClient) CrossRates(ctx context.Context, base, counter, from, to string) ([]riksbank.CrossRate, error) {
	var rates []riksbank.CrossRate
	err := c.rest.getJSON(ctx, rangeEndpoint("CrossRates/"+base+"/"+counter, from, to), nil, &rates)
	return rates, err
}

// CrossRateAggregates fetches aggregated cross rates; aggregation is one of
// the SWEA aggregation names (Monthly, Quarterly, Yearly).
func (c *SweaClient) CrossRateAggregates(ctx context.Context, base, counter, aggregation, from, to string) ([]riksbank.CrossRateAggregate, error) {
	var aggs []riksbank.CrossRateAggregate
	err := c.rest.getJSON(ctx, rangeEndpoint("CrossRateAggregates/"+base+"/"+counter+"/"+aggregation, from, to), nil, &aggs)
	return aggs, err
}

// ObservationAggregates fetches aggregated observations for one series.
func (c *SweaClient) ObservationAggregates(ctx context.Context, seriesID, aggregation, from, to string) ([]riksbank.ObservationAggregate, error) {
	var aggs []riksbank.ObservationAggregate
	err := c.rest.getJSON(ctx, rangeEndpoint("ObservationAggregates/"+seriesID+"/"+aggregation, from, to), nil, &aggs)
	return aggs, err
}

// CalendarDays fetches Swedish banking calendar information for a date range.
func (c *SweaClient) CalendarDays(ctx context.Context, from, to string) ([]riksbank.CalendarDay, error) {
	var days []riksbank.CalendarDay
	err := c.rest.getJSON(ctx, rangeEndpoint("CalendarDays", from, to), nil, &days)
	return days, err
}

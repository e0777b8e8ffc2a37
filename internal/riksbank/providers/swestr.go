package providers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/aerugo/riksbank-data-service/internal/riksbank"
)

const swestrBaseURL = "https://api.riksbank.se/swestr/v1"

// AveragePeriod selects which compounded SWESTR average series to fetch.
type AveragePeriod string

const (
	AverageAll      AveragePeriod = "all"
	AverageOneWeek  AveragePeriod = "1week"
	AverageOneMonth AveragePeriod = "1month"
)

// SwestrClient talks to the Riksbank SWESTR API, the transaction-based
// short-term reference rate in Swedish kronor. Payloads arrive wrapped in a
// "data" envelope.
type SwestrClient struct {
	rest *restClient
}

func NewSwestrClient(client *http.Client, opts Options, log *zap.Logger) *SwestrClient {
	return &SwestrClient{
		rest: newRESTClient("swestr", swestrBaseURL, client, opts, log),
	}
}

func dateRangeParams(from, to string) map[string]string {
	params := map[string]string{"from": from}
	if to != "" {
		params["to"] = to
	}
	return params
}

// Rates fetches daily SWESTR fixings between from and to (inclusive); an
// empty to means up to the latest published fixing.
func (c *SwestrClient) Rates(ctx context.Context, from, to string) (riksbank.InterestRateData, error) {
	var payload struct {
		Data []riksbank.Observation `json:"data"`
	}
	if err := c.rest.getJSON(ctx, "rates", dateRangeParams(from, to), &payload); err != nil {
		return riksbank.InterestRateData{}, err
	}
	return riksbank.InterestRateData{Observations: payload.Data}, nil
}

// Latest returns the most recent published SWESTR fixing, or nil when none
// is available.
func (c *SwestrClient) Latest(ctx context.Context) (*riksbank.Observation, error) {
	var payload struct {
		Data *riksbank.Observation `json:"data"`
	}
	if err := c.rest.getJSON(ctx, "rates/latest", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Data == nil || payload.Data.Date == "" {
		return nil, nil
	}
	return payload.Data, nil
}

// Averages fetches compounded SWESTR averages for the given period.
func (c *SwestrClient) Averages(ctx context.Context, period AveragePeriod, from, to string) (riksbank.InterestRateData, error) {
	endpoint := "averages"
	switch period {
	case AverageOneWeek:
		endpoint = "averages/1week"
	case AverageOneMonth:
		endpoint = "averages/1month"
	}

	var payload struct {
		Data []riksbank.Observation `json:"data"`
	}
	if err := c.rest.getJSON(ctx, endpoint, dateRangeParams(from, to), &payload); err != nil {
		return riksbank.InterestRateData{}, err
	}
	return riksbank.InterestRateData{Observations: payload.Data}, nil
}

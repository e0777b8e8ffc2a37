package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/aerugo/riksbank-data-service/internal/riksbank"
)

const monetaryPolicyBaseURL = "https://api.riksbank.se/monetary_policy_data/v1/forecasts"

// MonetaryPolicyClient talks to the Riksbank monetary policy data API:
// forecast vintages, the policy round catalogue and series metadata.
type MonetaryPolicyClient struct {
	rest *restClient
	log  *zap.Logger
}

func NewMonetaryPolicyClient(client *http.Client, opts Options, log *zap.Logger) *MonetaryPolicyClient {
	return &MonetaryPolicyClient{
		rest: newRESTClient("monetary-policy", monetaryPolicyBaseURL, client, opts, log),
		log:  log,
	}
}

// rawObservation tolerates both date keys seen in the wild.
type rawObservation struct {
	Dt      string  `json:"dt"`
	AltDate string  `json:"date"`
	Value   float64 `json:"value"`
}

func (r rawObservation) date() string {
	if r.Dt != "" {
		return r.Dt
	}
	return r.AltDate
}

type rawVintage struct {
	Metadata     riksbank.ForecastMetadata `json:"metadata"`
	Observations []rawObservation          `json:"observations"`
}

// vintageList accepts either an array of vintages or, as some responses have
// it, a single vintage object.
type vintageList []rawVintage

func (v *vintageList) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimLeft(string(b), " \t\r\n")
	if strings.HasPrefix(trimmed, "{") {
		var single rawVintage
		if err := json.Unmarshal(b, &single); err != nil {
			return err
		}
		*v = vintageList{single}
		return nil
	}
	var many []rawVintage
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*v = many
	return nil
}

type policyDataPayload struct {
	Data []struct {
		ExternalID string      `json:"external_id"`
		Vintages   vintageList `json:"vintages"`
	} `json:"data"`
}

// PolicyData fetches the vintages of one forecast series, optionally filtered
// to a single policy round. Each observation is classified against the
// vintage's cutoff date: rows dated strictly after it are forecasts, the rest
// are history and already realized.
func (c *MonetaryPolicyClient) PolicyData(ctx context.Context, seriesID, policyRound string) (riksbank.MonetaryPolicyDataResponse, error) {
	params := map[string]string{"series": seriesID}
	if policyRound != "" {
		params["policy_round_name"] = policyRound
	}

	var payload policyDataPayload
	if err := c.rest.getJSON(ctx, "", params, &payload); err != nil {
		return riksbank.MonetaryPolicyDataResponse{}, err
	}
	if len(payload.Data) == 0 {
		return riksbank.MonetaryPolicyDataResponse{
			ExternalID: seriesID,
			Vintages:   []riksbank.ForecastVintage{},
		}, nil
	}

	item := payload.Data[0]
	vintages := make([]riksbank.ForecastVintage, 0, len(item.Vintages))
	for _, v := range item.Vintages {
		vintages = append(vintages, c.buildVintage(v))
	}

	externalID := item.ExternalID
	if externalID == "" {
		externalID = seriesID
	}
	return riksbank.MonetaryPolicyDataResponse{
		ExternalID: externalID,
		Vintages:   vintages,
	}, nil
}

// buildVintage tags every observation as forecast or out-turn. A vintage with
// a malformed cutoff date still parses; all its rows count as history, and
// the merge engine is where a bad cutoff becomes fatal.
func (c *MonetaryPolicyClient) buildVintage(v rawVintage) riksbank.ForecastVintage {
	cutoff, cutoffErr := riksbank.ParseDate(v.Metadata.ForecastCutoffDate)
	if cutoffErr != nil {
		c.log.Warn("malformed forecast cutoff date in vintage",
			zap.String("cutoff", v.Metadata.ForecastCutoffDate),
			zap.String("policy_round", v.Metadata.PolicyRound))
	}

	obs := make([]riksbank.ForecastObservation, 0, len(v.Observations))
	for _, r := range v.Observations {
		dt := r.date()

		isForecast := false
		if cutoffErr == nil && dt != "" {
			d, err := riksbank.ParseDate(dt)
			if err != nil {
				c.log.Debug("ignoring malformed observation date", zap.String("dt", dt))
			} else {
				isForecast = d.After(cutoff)
			}
		}

		o := riksbank.ForecastObservation{Date: dt, Value: r.Value}
		val := r.Value
		if isForecast {
			o.Forecast = &val
		} else {
			o.Observation = &val
			o.Realized = &val
		}
		obs = append(obs, o)
	}

	return riksbank.ForecastVintage{Metadata: v.Metadata, Observations: obs}
}

// PolicyRounds returns the catalogue of published policy rounds, parsed from
// their "YYYY:N" identifiers. Malformed identifiers are logged and skipped.
func (c *MonetaryPolicyClient) PolicyRounds(ctx context.Context) ([]riksbank.PolicyRound, error) {
	var payload struct {
		Data []string `json:"data"`
	}
	if err := c.rest.getJSON(ctx, "policy_rounds", nil, &payload); err != nil {
		return nil, err
	}

	rounds := make([]riksbank.PolicyRound, 0, len(payload.Data))
	for _, ident := range payload.Data {
		yearStr, iterStr, ok := strings.Cut(ident, ":")
		if !ok {
			c.log.Warn("unexpected policy round format", zap.String("id", ident))
			continue
		}
		year, errY := strconv.Atoi(yearStr)
		iteration, errI := strconv.Atoi(iterStr)
		if errY != nil || errI != nil {
			c.log.Warn("unexpected policy round format", zap.String("id", ident))
			continue
		}
		rounds = append(rounds, riksbank.PolicyRound{ID: ident, Year: year, Iteration: iteration})
	}
	return rounds, nil
}

type seriesPayload struct {
	Data []struct {
		SeriesID string `json:"series_id"`
		Metadata struct {
			Decimals     int    `json:"decimals"`
			StartDate    string `json:"start_date"`
			Description  string `json:"description"`
			SourceAgency string `json:"source_agency"`
			Unit         string `json:"unit"`
			Note         string `json:"note"`
		} `json:"metadata"`
	} `json:"data"`
}

// Series returns metadata for every series published via the monetary policy
// API.
func (c *MonetaryPolicyClient) Series(ctx context.Context) ([]riksbank.SeriesInfo, error) {
	var payload seriesPayload
	if err := c.rest.getJSON(ctx, "series_ids", nil, &payload); err != nil {
		return nil, err
	}

	series := make([]riksbank.SeriesInfo, 0, len(payload.Data))
	for _, entry := range payload.Data {
		series = append(series, riksbank.SeriesInfo{
			ID:           entry.SeriesID,
			Decimals:     entry.Metadata.Decimals,
			StartDate:    entry.Metadata.StartDate,
			Description:  entry.Metadata.Description,
			SourceAgency: entry.Metadata.SourceAgency,
			Unit:         entry.Metadata.Unit,
			Note:         entry.Metadata.Note,
		})
	}
	return series, nil
}

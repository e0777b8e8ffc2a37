package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMPTestClient(t *testing.T, handler http.HandlerFunc) *MonetaryPolicyClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewMonetaryPolicyClient(server.Client(), Options{
		BaseURL: server.URL,
		Backoff: testBackoff(2),
	}, zap.NewNop())
}

const vintagePayload = `{
	"data": [{
		"external_id": "SEQGDPNAYCA",
		"vintages": [{
			"metadata": {
				"forecast_cutoff_date": "2024-03-31",
				"policy_round": "2024:1",
				"policy_round_end_dtm": "2024-04-15T09:30:00Z"
			},
			"observations": [
				{"dt": "2024-03-31", "value": 2.1},
				{"date": "2024-06-30", "value": 2.5}
			]
		}]
	}]
}`

func TestPolicyDataAnnotatesObservations(t *testing.T) {
	var query string
	client := newMPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(vintagePayload))
	})

	resp, err := client.PolicyData(context.Background(), "SEQGDPNAYCA", "2024:1")
	require.NoError(t, err)

	assert.Equal(t, "policy_round_name=2024:1&series=SEQGDPNAYCA", query)
	assert.Equal(t, "SEQGDPNAYCA", resp.ExternalID)
	require.Len(t, resp.Vintages, 1)

	obs := resp.Vintages[0].Observations
	require.Len(t, obs, 2)

	// At the cutoff date: history, already realized.
	history := obs[0]
	assert.Equal(t, "2024-03-31", history.Date)
	assert.Nil(t, history.Forecast)
	require.NotNil(t, history.Observation)
	require.NotNil(t, history.Realized)
	assert.Equal(t, 2.1, *history.Realized)

	// Beyond the cutoff: a forecast, not yet realized. Note the "date"
	// key variant also parses.
	forecast := obs[1]
	assert.Equal(t, "2024-06-30", forecast.Date)
	require.NotNil(t, forecast.Forecast)
	assert.Equal(t, 2.5, *forecast.Forecast)
	assert.Nil(t, forecast.Observation)
	assert.Nil(t, forecast.Realized)
}

func TestPolicyDataAcceptsVintageObject(t *testing.T) {
	payload := `{
		"data": [{
			"external_id": "SEMCPIFNAYNA",
			"vintages": {
				"metadata": {"forecast_cutoff_date": "2024-03-31", "policy_round": "2024:1"},
				"observations": [{"dt": "2024-03-31", "value": 1.9}]
			}
		}]
	}`
	client := newMPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	})

	resp, err := client.PolicyData(context.Background(), "SEMCPIFNAYNA", "")
	require.NoError(t, err)
	require.Len(t, resp.Vintages, 1)
	require.Len(t, resp.Vintages[0].Observations, 1)
}

func TestPolicyDataMalformedCutoffClassifiesAllAsHistory(t *testing.T) {
	payload := `{
		"data": [{
			"external_id": "SEQGDPNAYCA",
			"vintages": [{
				"metadata": {"forecast_cutoff_date": "soon", "policy_round": "2024:1"},
				"observations": [{"dt": "2099-12-31", "value": 2.5}]
			}]
		}]
	}`
	client := newMPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	})

	resp, err := client.PolicyData(context.Background(), "SEQGDPNAYCA", "")
	require.NoError(t, err)
	obs := resp.Vintages[0].Observations
	require.Len(t, obs, 1)
	assert.Nil(t, obs[0].Forecast)
	require.NotNil(t, obs[0].Observation)
}

func TestPolicyDataEmptyResult(t *testing.T) {
	client := newMPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	resp, err := client.PolicyData(context.Background(), "SEQGDPNAYCA", "2024:1")
	require.NoError(t, err)
	assert.Equal(t, "SEQGDPNAYCA", resp.ExternalID)
	assert.Empty(t, resp.Vintages)
}

func TestPolicyRoundsParsesIdentifiers(t *testing.T) {
	client := newMPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/policy_rounds", r.URL.Path)
		w.Write([]byte(`{"data": ["2024:1", "2024:2", "garbage", "20xx:1", "2023:4"]}`))
	})

	rounds, err := client.PolicyRounds(context.Background())
	require.NoError(t, err)
	require.Len(t, rounds, 3, "malformed identifiers are skipped")
	assert.Equal(t, 2024, rounds[0].Year)
	assert.Equal(t, 1, rounds[0].Iteration)
	assert.Equal(t, "2023:4", rounds[2].ID)
}

func TestSeriesParsesMetadata(t *testing.T) {
	payload := `{
		"data": [{
			"series_id": "SEQGDPNAYCA",
			"metadata": {
				"decimals": 1,
				"start_date": "1980-03-31",
				"description": "GDP y/y, calendar adjusted",
				"source_agency": "Statistics Sweden",
				"unit": "percent"
			}
		}]
	}`
	client := newMPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series_ids", r.URL.Path)
		w.Write([]byte(payload))
	})

	series, err := client.Series(context.Background())
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "SEQGDPNAYCA", series[0].ID)
	assert.Equal(t, 1, series[0].Decimals)
	assert.Equal(t, "Statistics Sweden", series[0].SourceAgency)
}

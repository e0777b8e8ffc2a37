package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testBackoff(maxRetries int) BackoffConfig {
	return BackoffConfig{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     10 * time.Millisecond,
	}
}

func newTestClient(t *testing.T, server *httptest.Server, maxRetries int) *restClient {
	t.Helper()
	return newRESTClient("test", server.URL, server.Client(), Options{
		Backoff: testBackoff(maxRetries),
	}, zap.NewNop())
}

func TestGetJSONRetriesOnRateLimit(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"data": ["2024:1"]}`))
	}))
	defer server.Close()

	var payload struct {
		Data []string `json:"data"`
	}
	err := newTestClient(t, server, 5).getJSON(context.Background(), "policy_rounds", nil, &payload)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024:1"}, payload.Data)
	assert.Equal(t, int32(3), hits.Load())
}

func TestGetJSONExhaustsRetryBudget(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	err := newTestClient(t, server, 2).getJSON(context.Background(), "rates", nil, nil)
	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, int32(3), hits.Load(), "initial attempt plus two retries")
}

func TestGetJSONTreatsNotFoundAsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	payload := struct {
		Data []string `json:"data"`
	}{Data: []string{"sentinel"}}

	err := newTestClient(t, server, 2).getJSON(context.Background(), "rates", nil, &payload)
	require.NoError(t, err)
	assert.Equal(t, []string{"sentinel"}, payload.Data, "404 must leave the target untouched")
}

func TestGetJSONFailsOnOtherStatuses(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := newTestClient(t, server, 5).getJSON(context.Background(), "rates", nil, nil)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.Status)
	assert.Equal(t, "rates", reqErr.Endpoint)
	assert.Equal(t, int32(1), hits.Load(), "server errors are not retried")
}

func TestGetJSONEmptyBodyIsNotParsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var payload struct {
		Data []string `json:"data"`
	}
	err := newTestClient(t, server, 2).getJSON(context.Background(), "rates", nil, &payload)
	require.NoError(t, err)
	assert.Nil(t, payload.Data)
}

func TestGetJSONKeepsColonLiteralInQuery(t *testing.T) {
	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := newTestClient(t, server, 2).getJSON(context.Background(), "", map[string]string{
		"policy_round_name": "2024:3",
		"series":            "SEQGDPNAYCA",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "policy_round_name=2024:3&series=SEQGDPNAYCA", rawQuery)
}

func TestGetJSONHonorsContextDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newRESTClient("test", server.URL, server.Client(), Options{
		Backoff: BackoffConfig{MaxRetries: 5, InitialInterval: time.Minute},
	}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := client.getJSON(ctx, "rates", nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEncodeQuery(t *testing.T) {
	assert.Equal(t, "", encodeQuery(nil))
	assert.Equal(t, "a=1&b=two+words", encodeQuery(map[string]string{"b": "two words", "a": "1"}))
	assert.Equal(t, "policy_round_name=2024:3", encodeQuery(map[string]string{"policy_round_name": "2024:3"}))
}

func TestBackoffDelayDoubles(t *testing.T) {
	cfg := BackoffConfig{InitialInterval: time.Second, MaxInterval: 5 * time.Second}
	assert.Equal(t, 1*time.Second, backoffDelay(cfg, 0))
	assert.Equal(t, 2*time.Second, backoffDelay(cfg, 1))
	assert.Equal(t, 4*time.Second, backoffDelay(cfg, 2))
	assert.Equal(t, 5*time.Second, backoffDelay(cfg, 3), "capped at max interval")
}

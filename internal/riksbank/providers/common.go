package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BackoffConfig controls the 429 retry behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles the HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

// Options overrides per-client defaults; zero values keep them.
type Options struct {
	BaseURL string
	Backoff BackoffConfig
}

// RequestError is a non-2xx upstream response that is neither a rate limit
// nor a missing resource.
type RequestError struct {
	Endpoint string
	Status   int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request to %q failed with status %d", e.Endpoint, e.Status)
}

var (
	// ErrMaxRetries is returned once the 429 retry budget is exhausted.
	ErrMaxRetries = errors.New("max retries exceeded")

	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

func defaultBackoff() BackoffConfig {
	return BackoffConfig{
		MaxRetries:      5,
		InitialInterval: 1 * time.Second,
		MaxInterval:     60 * time.Second,
	}
}

// restClient issues GET requests against one upstream API with retries on
// rate limiting and a circuit breaker around the transport.
type restClient struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	log     *zap.Logger
}

func newRESTClient(name, baseURL string, client *http.Client, opts Options, log *zap.Logger) *restClient {
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	backoff := opts.Backoff
	if backoff.InitialInterval <= 0 {
		backoff = defaultBackoff()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &restClient{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{Client: client, Backoff: backoff},
		circuit: cb,
		log:     log.Named(name),
	}
}

// requestPhase is the state of the retry loop.
type requestPhase int

const (
	phaseRequest requestPhase = iota
	phaseBackoff
	phaseDone
	phaseFailed
)

// getJSON performs a GET against endpoint and decodes the body into out.
// A 404 or an empty body leaves out untouched: the upstream APIs use 404 to
// mean "nothing published for this query". 429 responses are retried with
// exponential backoff; any other non-2xx status returns a *RequestError.
func (c *restClient) getJSON(ctx context.Context, endpoint string, params map[string]string, out any) error {
	if c.httpCfg.Client == nil {
		return errNoHTTPClient
	}

	fullURL := c.baseURL
	if endpoint != "" {
		fullURL += "/" + endpoint
	}
	if qs := encodeQuery(params); qs != "" {
		fullURL += "?" + qs
	}

	log := c.log.With(
		zap.String("url", fullURL),
		zap.String("request_id", uuid.NewString()),
	)

	var (
		phase   = phaseRequest
		attempt int
		body    []byte
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch phase {
		case phaseRequest:
			status, b, err := c.do(ctx, fullURL)
			switch {
			case err != nil:
				return err
			case status == http.StatusNotFound:
				log.Warn("upstream returned 404, treating as empty result")
				body = nil
				phase = phaseDone
			case status == http.StatusTooManyRequests:
				if attempt >= c.httpCfg.Backoff.MaxRetries {
					phase = phaseFailed
				} else {
					phase = phaseBackoff
				}
			case status < 200 || status >= 300:
				return &RequestError{Endpoint: endpoint, Status: status}
			default:
				body = b
				phase = phaseDone
			}

		case phaseBackoff:
			delay := backoffDelay(c.httpCfg.Backoff, attempt)
			log.Warn("rate limited, backing off",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay))

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			attempt++
			phase = phaseRequest

		case phaseFailed:
			log.Error("retry budget exhausted", zap.Int("attempts", attempt+1))
			return fmt.Errorf("%w: %s", ErrMaxRetries, fullURL)

		case phaseDone:
			if len(body) == 0 || out == nil {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decoding %s response: %w", c.name, err)
			}
			return nil
		}
	}
}

type httpResult struct {
	status int
	body   []byte
}

// do executes a single GET through the circuit breaker. Only transport
// failures count against the breaker; status handling belongs to the retry
// loop, so a 429 burst does not open the circuit.
func (c *restClient) do(ctx context.Context, fullURL string) (int, []byte, error) {
	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpCfg.Client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return httpResult{status: resp.StatusCode, body: b}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return 0, nil, err
	}

	r, ok := result.(httpResult)
	if !ok {
		return 0, nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return r.status, r.body, nil
}

func backoffDelay(cfg BackoffConfig, attempt int) time.Duration {
	delay := cfg.InitialInterval << attempt
	if cfg.MaxInterval > 0 && delay > cfg.MaxInterval {
		delay = cfg.MaxInterval
	}
	return delay
}

// encodeQuery builds a query string with keys in sorted order. Colons in
// values stay literal: the monetary policy API rejects percent-encoded
// colons in policy round names.
func encodeQuery(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := strings.ReplaceAll(url.QueryEscape(params[k]), "%3A", ":")
		parts = append(parts, url.QueryEscape(k)+"="+v)
	}
	return strings.Join(parts, "&")
}

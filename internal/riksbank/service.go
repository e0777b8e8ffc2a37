package riksbank

import (
	"context"

	"go.uber.org/zap"
)

// MonetaryPolicyAPI abstracts the monetary policy data client so the
// orchestration logic can be exercised without the network.
type MonetaryPolicyAPI interface {
	PolicyData(ctx context.Context, seriesID, policyRound string) (MonetaryPolicyDataResponse, error)
	PolicyRounds(ctx context.Context) ([]PolicyRound, error)
	Series(ctx context.Context) ([]SeriesInfo, error)
}

// ForecastRequest carries the caller-supplied options shared by every
// forecast operation.
type ForecastRequest struct {
	// PolicyRound filters to the vintages of one round ("YYYY:N").
	// Empty means all vintages, in which case realized enrichment is skipped.
	PolicyRound string

	// IncludeRealized asks for forecast rows to be reconciled against the
	// latest published vintage.
	IncludeRealized bool
}

// Service orchestrates forecast fetches and realized-value reconciliation.
type Service struct {
	api MonetaryPolicyAPI
	log *zap.Logger
}

// NewService creates a new Service.
func NewService(api MonetaryPolicyAPI, log *zap.Logger) *Service {
	return &Service{api: api, log: log}
}

// FetchSeries fetches the vintages of one forecast series. When realized
// values are requested it determines the most recent policy round, re-fetches
// the series for that round, and merges the later vintage's out-turns into
// the base vintage. Absence of data at any step yields the unenriched result
// rather than an error.
func (s *Service) FetchSeries(ctx context.Context, seriesID string, req ForecastRequest) (MonetaryPolicyDataResponse, error) {
	base, err := s.api.PolicyData(ctx, seriesID, req.PolicyRound)
	if err != nil {
		return MonetaryPolicyDataResponse{}, err
	}
	// Without a specific round the fetch returns every vintage; there is no
	// single base snapshot to reconcile, so enrichment only applies when a
	// round was named.
	if !req.IncludeRealized || req.PolicyRound == "" {
		return base, nil
	}

	rounds, err := s.api.PolicyRounds(ctx)
	if err != nil {
		return MonetaryPolicyDataResponse{}, err
	}
	latestRound, ok := LatestRound(rounds)
	if !ok || latestRound.ID == req.PolicyRound {
		// Base already is the latest vintage; nothing to reconcile.
		return base, nil
	}

	latest, err := s.api.PolicyData(ctx, seriesID, latestRound.ID)
	if err != nil {
		return MonetaryPolicyDataResponse{}, err
	}
	if len(base.Vintages) == 0 || len(latest.Vintages) == 0 {
		return base, nil
	}

	merged, err := MergeRealized(base.Vintages[0], latest.Vintages[0], s.log)
	if err != nil {
		return MonetaryPolicyDataResponse{}, err
	}
	base.Vintages[0] = merged
	return base, nil
}

// ListPolicyRounds returns the catalogue of published policy rounds.
func (s *Service) ListPolicyRounds(ctx context.Context) ([]PolicyRound, error) {
	return s.api.PolicyRounds(ctx)
}

// ListSeries returns the catalogue of available forecast series.
func (s *Service) ListSeries(ctx context.Context) ([]SeriesInfo, error) {
	return s.api.Series(ctx)
}

// LatestRound returns the most recent policy round, ordering by year then
// iteration. ok is false for an empty catalogue.
func LatestRound(rounds []PolicyRound) (latest PolicyRound, ok bool) {
	for _, r := range rounds {
		if !ok || r.Year > latest.Year || (r.Year == latest.Year && r.Iteration > latest.Iteration) {
			latest = r
			ok = true
		}
	}
	return latest, ok
}

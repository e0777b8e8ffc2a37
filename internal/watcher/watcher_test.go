package watcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aerugo/riksbank-data-service/internal/riksbank"
)

type stubCatalogue struct {
	rounds []riksbank.PolicyRound
	err    error
}

func (s *stubCatalogue) ListPolicyRounds(context.Context) ([]riksbank.PolicyRound, error) {
	return s.rounds, s.err
}

func newObservedWatcher(catalogue RoundsCatalogue) (*Watcher, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return New(catalogue, 0, zap.New(core)), logs
}

func TestFirstPollPrimesSilently(t *testing.T) {
	catalogue := &stubCatalogue{rounds: []riksbank.PolicyRound{
		{ID: "2024:1", Year: 2024, Iteration: 1},
		{ID: "2024:2", Year: 2024, Iteration: 2},
	}}
	w, logs := newObservedWatcher(catalogue)

	w.poll()

	assert.Empty(t, logs.FilterMessage("new policy round published").All())
	require.Len(t, logs.FilterMessage("round watcher primed").All(), 1)
}

func TestAnnouncesFreshRoundsOnce(t *testing.T) {
	catalogue := &stubCatalogue{rounds: []riksbank.PolicyRound{
		{ID: "2024:1", Year: 2024, Iteration: 1},
	}}
	w, logs := newObservedWatcher(catalogue)

	w.poll()
	catalogue.rounds = append(catalogue.rounds, riksbank.PolicyRound{ID: "2024:2", Year: 2024, Iteration: 2})
	w.poll()
	w.poll()

	announced := logs.FilterMessage("new policy round published").All()
	require.Len(t, announced, 1, "a round is announced exactly once")
	assert.Equal(t, "2024:2", announced[0].ContextMap()["policy_round"])
}

func TestPollErrorDoesNotPrime(t *testing.T) {
	catalogue := &stubCatalogue{err: errors.New("upstream down")}
	w, logs := newObservedWatcher(catalogue)

	w.poll()
	require.Len(t, logs.FilterMessage("round watcher poll failed").All(), 1)

	// Recovery: the next successful poll still primes instead of announcing.
	catalogue.err = nil
	catalogue.rounds = []riksbank.PolicyRound{{ID: "2024:1", Year: 2024, Iteration: 1}}
	w.poll()
	assert.Empty(t, logs.FilterMessage("new policy round published").All())
}

func TestStartWithoutIntervalIsDisabled(t *testing.T) {
	w, logs := newObservedWatcher(&stubCatalogue{})

	require.NoError(t, w.Start())
	w.Stop()

	assert.Len(t, logs.FilterMessage("round watcher disabled; no interval configured").All(), 1)
}

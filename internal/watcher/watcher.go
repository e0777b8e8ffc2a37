package watcher

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/aerugo/riksbank-data-service/internal/riksbank"
)

// RoundsCatalogue is the slice of the service the watcher needs.
type RoundsCatalogue interface {
	ListPolicyRounds(ctx context.Context) ([]riksbank.PolicyRound, error)
}

// Watcher periodically polls the policy round catalogue and announces newly
// published rounds in the log. It keeps nothing but the identifiers it has
// already announced, so it is not a cache of round data.
type Watcher struct {
	scheduler *gocron.Scheduler
	catalogue RoundsCatalogue
	interval  time.Duration
	log       *zap.Logger

	seen   map[string]struct{}
	primed bool
}

// New creates a new Watcher.
func New(catalogue RoundsCatalogue, interval time.Duration, log *zap.Logger) *Watcher {
	return &Watcher{
		scheduler: gocron.NewScheduler(time.UTC),
		catalogue: catalogue,
		interval:  interval,
		log:       log,
		seen:      make(map[string]struct{}),
	}
}

// Start schedules the periodic poll and starts the underlying scheduler.
func (w *Watcher) Start() error {
	if w.interval <= 0 {
		w.log.Info("round watcher disabled; no interval configured")
		return nil
	}

	minutes := int(w.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := w.scheduler.Every(minutes).Minutes().Do(w.poll)
	if err != nil {
		return err
	}

	w.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future polls.
func (w *Watcher) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}

func (w *Watcher) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rounds, err := w.catalogue.ListPolicyRounds(ctx)
	if err != nil {
		w.log.Warn("round watcher poll failed", zap.Error(err))
		return
	}

	var fresh []string
	for _, r := range rounds {
		if _, ok := w.seen[r.ID]; !ok {
			w.seen[r.ID] = struct{}{}
			fresh = append(fresh, r.ID)
		}
	}

	// The first poll seeds the known set; everything is "new" then and
	// announcing it all would be noise.
	if !w.primed {
		w.primed = true
		w.log.Info("round watcher primed", zap.Int("rounds", len(w.seen)))
		return
	}

	for _, id := range fresh {
		w.log.Info("new policy round published", zap.String("policy_round", id))
	}
}

// Package worker hosts background jobs that run alongside the HTTP server.
package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/citisolve/complaint-service/internal/repository"
)

// Reconciler periodically rewrites drifted resolved counters from the
// complaints table. The transactional writes keep counters correct in
// normal operation; this job is the safety net for out-of-band edits and
// historic drift.
type Reconciler struct {
	users    repository.UserRepository
	logger   *zap.Logger
	schedule string
	cron     *cron.Cron
}

// NewReconciler constructs the job. An empty schedule disables it.
func NewReconciler(users repository.UserRepository, logger *zap.Logger, schedule string) *Reconciler {
	return &Reconciler{
		users:    users,
		logger:   logger,
		schedule: schedule,
	}
}

// Start runs one immediate pass and then schedules recurring runs.
func (r *Reconciler) Start() error {
	r.RunOnce(context.Background())

	if r.schedule == "" {
		r.logger.Info("resolved-count reconciliation schedule disabled")
		return nil
	}

	r.cron = cron.New()
	if _, err := r.cron.AddFunc(r.schedule, func() {
		r.RunOnce(context.Background())
	}); err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("resolved-count reconciliation scheduled", zap.String("schedule", r.schedule))
	return nil
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (r *Reconciler) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}

// RunOnce executes a single reconciliation pass.
func (r *Reconciler) RunOnce(ctx context.Context) {
	started := time.Now()
	corrected, err := r.users.ReconcileResolvedCounts(ctx)
	if err != nil {
		r.logger.Error("resolved-count reconciliation failed", zap.Error(err))
		return
	}
	if corrected > 0 {
		r.logger.Warn("resolved-count drift corrected",
			zap.Int64("corrected_rows", corrected),
			zap.Duration("took", time.Since(started)))
		return
	}
	r.logger.Debug("resolved-count reconciliation clean",
		zap.Duration("took", time.Since(started)))
}

package jobs

import (
	"context"

	"go.uber.org/zap"
)

// TokenPurger deletes reset tokens past their expiry.
type TokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type ResetTokenPurgeJob struct {
	purger   TokenPurger
	schedule string
	log      *zap.Logger
}

func NewResetTokenPurgeJob(purger TokenPurger, schedule string, log *zap.Logger) *ResetTokenPurgeJob {
	return &ResetTokenPurgeJob{purger: purger, schedule: schedule, log: log}
}

func (j *ResetTokenPurgeJob) Name() string { return "purge-reset-tokens" }

func (j *ResetTokenPurgeJob) Schedule() string { return j.schedule }

func (j *ResetTokenPurgeJob) Execute(ctx context.Context) error {
	deleted, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	j.log.Info("expired reset tokens purged", zap.Int64("deleted", deleted))
	return nil
}

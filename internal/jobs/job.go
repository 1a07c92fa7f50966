// Package jobs runs periodic maintenance work on a cron schedule.
package jobs

import "context"

// Job is a unit of scheduled work.
type Job interface {
	// Name identifies the job in logs and for on-demand runs.
	Name() string

	// Schedule is a cron spec such as "@every 1h". Empty means on-demand only.
	Schedule() string

	Execute(ctx context.Context) error
}

package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron *cron.Cron
	jobs []Job
	log  *zap.Logger
}

func NewScheduler(log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log.Named("jobs"),
	}
}

// Register adds the job and schedules it when it has a schedule.
func (s *Scheduler) Register(job Job) error {
	schedule := job.Schedule()
	if schedule != "" {
		_, err := s.cron.AddFunc(schedule, func() {
			if err := s.run(context.Background(), job); err != nil {
				s.log.Error("job failed", zap.String("job", job.Name()), zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("schedule job %s: %w", job.Name(), err)
		}
		s.log.Info("job scheduled", zap.String("job", job.Name()), zap.String("schedule", schedule))
	}

	s.jobs = append(s.jobs, job)
	return nil
}

func (s *Scheduler) run(ctx context.Context, job Job) error {
	s.log.Info("job started", zap.String("job", job.Name()))
	if err := job.Execute(ctx); err != nil {
		return err
	}
	s.log.Info("job finished", zap.String("job", job.Name()))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunByName executes a registered job immediately.
func (s *Scheduler) RunByName(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name() == name {
			return s.run(ctx, job)
		}
	}
	return fmt.Errorf("job %q is not registered", name)
}

func (s *Scheduler) Names() []string {
	names := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		names[i] = job.Name()
	}
	return names
}

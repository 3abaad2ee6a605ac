package scheduler

import (
	"context"

	applogger "github.com/battuto/EtfManager/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Job represents a scheduled background job.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler manages cron-driven background jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *applogger.Logger
}

// New creates a new scheduler.
func New(logger *applogger.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// AddJob registers a job with a cron schedule.
// Schedule examples: "@every 15m", "@hourly", "0 9 * * MON-FRI".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := job.Run(context.Background()); err != nil {
			s.logger.Error("scheduled job failed",
				applogger.String("job", job.Name()),
				applogger.Error(err),
			)
			return
		}
		s.logger.Debug("scheduled job completed", applogger.String("job", job.Name()))
	})
	if err != nil {
		return err
	}

	s.logger.Info("scheduled job registered",
		applogger.String("job", job.Name()),
		applogger.String("schedule", schedule),
	)
	return nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

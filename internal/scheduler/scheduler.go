package scheduler

import (
	"context"
	"time"

	"github.com/inkwell-dev/inkwell/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job is a unit of periodic background work
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

type Scheduler struct {
	jobs []Job
	log  *zap.Logger
}

func NewScheduler(log *zap.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs, log: log}
}

// Run executes every job once immediately and then on its interval until
// ctx is cancelled. A failing run is logged and retried on the next tick.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("Starting scheduler", zap.Int("jobs", len(s.jobs)))

	g, ctx := errgroup.WithContext(ctx)
	for _, job := range s.jobs {
		job := job
		g.Go(func() error {
			s.runJob(ctx, job)
			return nil
		})
	}

	err := g.Wait()
	s.log.Info("Scheduler stopped")
	return err
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.execute(ctx, job)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.execute(ctx, job)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, job Job) {
	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.log.Error("Job failed", zap.String("job", job.Name), zap.Error(err))
		return
	}
	s.log.Debug("Job done", zap.String("job", job.Name), zap.Duration("took", time.Since(start)))
}

// TokenSweep removes authentication tokens whose refresh window has passed
func TokenSweep(s *store.Store, interval time.Duration, log *zap.Logger) Job {
	return Job{
		Name:     "token sweep",
		Interval: interval,
		Run: func(ctx context.Context) error {
			removed, err := s.DeleteExpiredTokens(ctx, time.Now())
			if err != nil {
				return err
			}
			if removed > 0 {
				log.Info("Swept expired authentication tokens", zap.Int64("removed", removed))
			}
			return nil
		},
	}
}

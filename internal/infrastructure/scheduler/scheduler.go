package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
)

// Scheduler drives daemon mode: it triggers backup and cleanup runs on the
// cron specs the operator configured. Schedules are never hardcoded.
type Scheduler struct {
	cron    *cron.Cron
	onError func(spec string, err error)
}

func New(onError func(spec string, err error)) *Scheduler {
	if onError == nil {
		onError = func(string, error) {}
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		onError: onError,
	}
}

// AddJob registers job under a 6-field cron spec. Job errors are reported
// through the error callback; a failing run never stops the schedule.
func (s *Scheduler) AddJob(spec string, job func(context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := job(context.Background()); err != nil {
			s.onError(spec, err)
		}
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

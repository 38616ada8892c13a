// Package timer runs the daily calorie-total reset in the background.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hammamikhairi/fatfit/internal/logger"
)

// DefaultSpec fires at 00:01 local time every day.
const DefaultSpec = "1 0 * * *"

// Resetter clears every running total and reports how many were removed.
type Resetter interface {
	Reset(ctx context.Context) (int, error)
}

// Option configures the scheduler.
type Option func(*Scheduler)

// WithSpec sets the cron expression (standard five-field syntax).
func WithSpec(spec string) Option {
	return func(s *Scheduler) {
		s.spec = spec
	}
}

// WithLocation sets the time zone the spec is evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		s.loc = loc
	}
}

// WithJobTimeout bounds a single reset run.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.jobTimeout = d
	}
}

// Scheduler owns the cron runner for the daily reset. It is started and
// stopped by the process lifecycle.
type Scheduler struct {
	totals     Resetter
	log        *logger.Logger
	spec       string
	loc        *time.Location
	jobTimeout time.Duration

	mu      sync.Mutex
	running bool
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a scheduler for the given store.
func New(totals Resetter, log *logger.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		totals:     totals,
		log:        log,
		spec:       DefaultSpec,
		loc:        time.Local,
		jobTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules the reset job. Non-blocking. An invalid spec is returned
// as an error and nothing is scheduled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("reset scheduler already running")
		return nil
	}

	sched, err := cron.ParseStandard(s.spec)
	if err != nil {
		return fmt.Errorf("parsing reset spec %q: %w", s.spec, err)
	}

	c := cron.New(cron.WithLocation(s.loc))
	c.Schedule(sched, cron.FuncJob(s.fire))

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron = c
	s.running = true
	c.Start()

	s.log.Info("reset scheduler started (spec=%q, next=%s)", s.spec, sched.Next(time.Now().In(s.loc)).Format(time.DateTime))
	return nil
}

// Stop cancels any in-flight run and waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	c := s.cron
	s.running = false
	s.mu.Unlock()

	<-c.Stop().Done()
	s.log.Info("reset scheduler stopped")
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}
	_ = s.RunNow(ctx)
}

// RunNow performs one reset synchronously. Failures are logged and
// returned; they are never retried.
func (s *Scheduler) RunNow(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	n, err := s.totals.Reset(ctx)
	if err != nil {
		s.log.Error("daily reset failed: %v", err)
		return err
	}
	s.log.Info("daily reset removed %d calorie totals", n)
	return nil
}

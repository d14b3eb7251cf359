// Package scheduler runs recurring jobs on cron expressions.
package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// JobInfo describes a registered job
type JobInfo struct {
	ID       string
	CronExpr string
	LastRun  *time.Time
	NextRun  *time.Time
	Runs     int
}

// Scheduler wraps gocron with named jobs. Runs of the same job never overlap.
type Scheduler struct {
	scheduler *gocron.Scheduler
	jobs      map[string]*entry
	mu        sync.RWMutex
	running   bool
	log       *slog.Logger
}

type entry struct {
	info JobInfo
	job  *gocron.Job
}

// New creates a stopped scheduler evaluating cron expressions in loc
func New(loc *time.Location, log *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		scheduler: s,
		jobs:      make(map[string]*entry),
		log:       log,
	}
}

// Start runs the scheduler in the background
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.scheduler.StartAsync()
	s.running = true
	s.log.Info("scheduler started", "jobs", len(s.jobs))
}

// Stop halts the scheduler. Running jobs finish first.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.scheduler.Stop()
	s.running = false
	s.log.Info("scheduler stopped")
}

// AddJob registers task under id on a standard five-field cron expression
func (s *Scheduler) AddJob(id, cronExpr string, task func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job %q already exists", id)
	}

	job, err := s.scheduler.Cron(cronExpr).Do(func() {
		s.run(id, task)
	})
	if err != nil {
		return fmt.Errorf("adding job %q: %w", id, err)
	}

	next := job.NextRun()
	s.jobs[id] = &entry{
		info: JobInfo{ID: id, CronExpr: cronExpr, NextRun: &next},
		job:  job,
	}
	s.log.Debug("job added", "id", id, "cron", cronExpr, "next_run", next)
	return nil
}

func (s *Scheduler) run(id string, task func() error) {
	started := time.Now()
	err := task()

	s.mu.Lock()
	if e, ok := s.jobs[id]; ok {
		e.info.LastRun = &started
		e.info.Runs++
		next := e.job.NextRun()
		e.info.NextRun = &next
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error("job failed", "id", id, "error", err, "duration", time.Since(started))
		return
	}
	s.log.Debug("job finished", "id", id, "duration", time.Since(started))
}

// Job returns a copy of a job's info
func (s *Scheduler) Job(id string) (JobInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.jobs[id]
	if !ok {
		return JobInfo{}, false
	}
	return e.info, true
}

// ValidateCron checks a cron expression without scheduling anything
func ValidateCron(cronExpr string) error {
	_, err := gocron.NewScheduler(time.UTC).Cron(cronExpr).Do(func() {})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}
	return nil
}

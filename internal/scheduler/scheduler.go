package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/logging"
)

const (
	JobBudgetCheck = "budget-check"
	JobGoalCheck   = "goal-check"
)

var (
	ErrJobRunning = errors.New("job is already running")
	ErrUnknownJob = errors.New("unknown job")
)

// Job is one scheduled pass. The context is cancelled on Stop.
type Job func(ctx context.Context) error

type entry struct {
	name string
	spec string
	run  Job
	mu   sync.Mutex
}

// Scheduler runs named jobs on cron schedules in a fixed timezone. A job
// never overlaps itself; a tick that finds it still running is skipped.
type Scheduler struct {
	cron   *cron.Cron
	jobs   map[string]*entry
	logger *logrus.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(loc *time.Location, logger *logrus.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	cronLogger := logging.CronLogger{Logger: logger}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger)),
		),
		jobs:   make(map[string]*entry),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds a job under a standard five-field cron spec.
func (s *Scheduler) Register(name, spec string, run Job) error {
	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("job %q already registered", name)
	}

	e := &entry{name: name, spec: spec, run: run}
	if _, err := s.cron.AddFunc(spec, func() { s.tick(e) }); err != nil {
		return fmt.Errorf("schedule %q: %w", name, err)
	}
	s.jobs[name] = e
	return nil
}

// Jobs returns the registered job names in order.
func (s *Scheduler) Jobs() []string {
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scheduler) tick(e *entry) {
	s.wg.Add(1)
	defer s.wg.Done()

	if err := s.execute(s.ctx, e); errors.Is(err, ErrJobRunning) {
		s.logger.WithField("job", e.name).Warn("Scheduler.Job.Overlap")
	}
}

// Trigger runs a job now on the caller's goroutine.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	e, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.execute(ctx, e)
}

func (s *Scheduler) execute(ctx context.Context, e *entry) error {
	if !e.mu.TryLock() {
		return ErrJobRunning
	}
	defer e.mu.Unlock()

	log := s.logger.WithField("job", e.name)
	log.Info("Scheduler.Job.Start")
	start := time.Now()

	if err := e.run(ctx); err != nil {
		log.WithError(err).Error("Scheduler.Job.Error")
		return err
	}

	log.WithField("durationMs", time.Since(start).Milliseconds()).Info("Scheduler.Job.Complete")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.WithField("jobs", s.Jobs()).Info("Scheduler.Start")
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	s.cancel()
	<-done.Done()
	s.wg.Wait()
	s.logger.Info("Scheduler.Stop")
}

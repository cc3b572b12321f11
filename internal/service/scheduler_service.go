package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SchedulerService wraps cron-based jobs.
type SchedulerService struct {
	log  *slog.Logger
	cron *cron.Cron
}

// NewSchedulerService builds a scheduler whose jobs never overlap with themselves.
func NewSchedulerService(log *slog.Logger, loc *time.Location) *SchedulerService {
	cronLog := cron.PrintfLogger(slog.NewLogLogger(log.Handler(), slog.LevelDebug))
	return &SchedulerService{
		log: log,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
	}
}

// ScheduleDaily registers job to run once a day at an HH:MM wall-clock time.
func (s *SchedulerService) ScheduleDaily(at string, job func()) (cron.EntryID, error) {
	spec, err := buildDailySpec(at)
	if err != nil {
		return 0, err
	}
	id, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return 0, fmt.Errorf("schedule daily %s: %w", at, err)
	}
	s.log.Debug("daily job scheduled", "at", at, "entry", id)
	return id, nil
}

// ScheduleInterval registers job to run every interval, rounded down to whole seconds (at least one).
func (s *SchedulerService) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %s", interval)
	}
	id := s.cron.Schedule(cron.Every(interval), cron.FuncJob(job))
	s.log.Debug("interval job scheduled", "every", interval, "entry", id)
	return id, nil
}

func (s *SchedulerService) Remove(id cron.EntryID) {
	s.cron.Remove(id)
}

// Next reports the next run of entry id. ok is false once the entry is removed.
// Before Start the time is zero.
func (s *SchedulerService) Next(id cron.EntryID) (next time.Time, ok bool) {
	entry := s.cron.Entry(id)
	if !entry.Valid() {
		return time.Time{}, false
	}
	return entry.Next, true
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *SchedulerService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Debug("scheduler stopped")
}

// buildDailySpec turns HH:MM into a seconds-first cron spec.
func buildDailySpec(at string) (string, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return "", fmt.Errorf("invalid time %q, expected HH:MM: %w", at, err)
	}
	return fmt.Sprintf("0 %d %d * * *", t.Minute(), t.Hour()), nil
}

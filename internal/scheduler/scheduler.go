package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/estoquehub/internal/model"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const jobTimeout = 5 * time.Minute

// ReportJob is the work done on every tick.
type ReportJob interface {
	Snapshot(ctx context.Context, triggeredBy string) (*model.StockReport, error)
	Prune(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler runs the stock report job on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	job      ReportJob
	schedule string
	entryID  cron.EntryID
	log      zerolog.Logger
	mu       sync.RWMutex
	running  bool
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewScheduler creates a new report scheduler
func NewScheduler(job ReportJob, schedule string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		job:      job,
		schedule: schedule,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the report job and starts the cron loop. An empty
// schedule leaves the scheduler idle.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if strings.TrimSpace(s.schedule) == "" {
		s.log.Info().Msg("report schedule empty, scheduler disabled")
		return nil
	}

	spec := normalizeSchedule(s.schedule)
	s.ctx, s.cancel = context.WithCancel(ctx)
	entryID, err := s.cron.AddFunc(spec, func() { s.run(s.ctx) })
	if err != nil {
		s.cancel()
		return fmt.Errorf("invalid cron expression '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.running = true

	s.log.Info().Str("schedule", s.schedule).Time("next_run", s.cron.Entry(entryID).Next).Msg("scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running job to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.running = false
	s.log.Info().Msg("scheduler stopped")
}

// NextRun returns the next scheduled run, or nil when idle.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return nil
	}
	entry := s.cron.Entry(s.entryID)
	if entry.Next.IsZero() {
		return nil
	}
	return &entry.Next
}

func (s *Scheduler) run(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()

	report, err := s.job.Snapshot(ctx, model.TriggeredBySchedule)
	if err != nil {
		s.log.Error().Err(err).Msg("scheduled stock report failed")
		return
	}
	s.log.Info().
		Str("report_id", report.ID).
		Int("low_stock", report.LowStock).
		Bool("notified", report.Notified).
		Msg("stock report saved")

	pruned, err := s.job.Prune(ctx, time.Now())
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to prune old stock reports")
		return
	}
	if pruned > 0 {
		s.log.Info().Int64("pruned", pruned).Msg("old stock reports pruned")
	}
}

// normalizeSchedule expands shortcuts and pads 5-field expressions with a
// seconds field for the seconds-aware parser.
func normalizeSchedule(schedule string) string {
	schedule = strings.TrimSpace(schedule)
	switch schedule {
	case "@hourly":
		return "0 0 * * * *"
	case "@daily":
		return "0 0 0 * * *"
	case "@weekly":
		return "0 0 0 * * 0"
	case "@monthly":
		return "0 0 0 1 * *"
	}

	if len(strings.Fields(schedule)) == 5 {
		return "0 " + schedule
	}
	return schedule
}

// file: internals/features/attendance/records/scheduler/attendance_cron.go
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"kantorku_backend/internals/features/attendance/records/service"
)

type Config struct {
	ReconcileSchedule string // kosong = job rekonsiliasi tidak dipasang
	ReconcileTimeout  time.Duration
	CloseDaySchedule  string // kosong = job close-day tidak dipasang
	Location          *time.Location
}

// Scheduler: cron rekonsiliasi + close-day. Satu job tidak pernah jalan dobel
// (SkipIfStillRunning); run tumpang tindih antar-instance tetap aman karena unique key di DB.
type Scheduler struct {
	cron   *cron.Cron
	engine *service.Engine
	closer *service.CloseDayService
	cfg    Config
}

func New(cfg Config, engine *service.Engine, closer *service.CloseDayService) (*Scheduler, error) {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.ReconcileTimeout <= 0 {
		cfg.ReconcileTimeout = 50 * time.Second
	}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		engine: engine,
		closer: closer,
		cfg:    cfg,
	}

	if engine != nil && cfg.ReconcileSchedule != "" {
		if _, err := s.cron.AddFunc(cfg.ReconcileSchedule, func() { s.RunReconcile(context.Background()) }); err != nil {
			return nil, fmt.Errorf("reconcile schedule %q: %w", cfg.ReconcileSchedule, err)
		}
	}
	if closer != nil && cfg.CloseDaySchedule != "" {
		if _, err := s.cron.AddFunc(cfg.CloseDaySchedule, func() { s.RunCloseDay(context.Background()) }); err != nil {
			return nil, fmt.Errorf("close-day schedule %q: %w", cfg.CloseDaySchedule, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Jobs() int { return len(s.cron.Entries()) }

func (s *Scheduler) Start() {
	log.Printf("[CRON] started reconcile=%q close-day=%q tz=%s jobs=%d",
		s.cfg.ReconcileSchedule, s.cfg.CloseDaySchedule, s.cfg.Location, s.Jobs())
	s.cron.Start()
}

// Stop: tunggu job yang sedang jalan selesai (atau ctx habis).
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		log.Printf("[CRON] stop timeout, job masih berjalan")
	}
}

func (s *Scheduler) RunReconcile(ctx context.Context) *service.RunSummary {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ReconcileTimeout)
	defer cancel()

	sum, err := s.engine.Run(ctx)
	if err != nil {
		log.Printf("[CRON] reconcile gagal: %v", err)
		return sum
	}
	if sum.Created+sum.Updated > 0 || sum.ErrorCount > 0 {
		log.Printf("[CRON] reconcile created=%d updated=%d skipped=%d errors=%d (%dms)",
			sum.Created, sum.Updated, sum.Skipped, sum.ErrorCount, sum.DurationMs)
	}
	return sum
}

func (s *Scheduler) RunCloseDay(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, 4*time.Minute)
	defer cancel()

	n, err := s.closer.CloseStale(ctx)
	if err != nil {
		log.Printf("[CRON] close-day gagal: %v", err)
		return 0
	}
	return n
}

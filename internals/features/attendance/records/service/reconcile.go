// file: internals/features/attendance/records/service/reconcile.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"kantorku_backend/internals/features/attendance/records/source"
	"kantorku_backend/internals/helpers/dbtime"
)

const DefaultErrorLimit = 10

// RunSummary: ringkasan satu kali rekonsiliasi.
type RunSummary struct {
	Created    int      `json:"created"`
	Updated    int      `json:"updated"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors"`
	ErrorCount int      `json:"error_count"`
	Malformed  int      `json:"malformed"`
	DurationMs int64    `json:"duration_ms"`
	Timestamp  string   `json:"timestamp"`
}

// add: fold satu Outcome ke summary. Errors hanya menyimpan limit pesan pertama.
func (s *RunSummary) add(o Outcome, limit int) {
	switch o.Kind {
	case OutcomeCreated:
		s.Created++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeError:
		s.ErrorCount++
		if len(s.Errors) < limit {
			s.Errors = append(s.Errors, o.Reason)
		}
	}
}

// Engine: tarik seluruh tree event dari sumber lalu normalisasi satu per satu.
// Tidak ada lock level-run; run yang tumpang tindih aman karena unique key di store.
type Engine struct {
	Source     source.EventSource
	Normalizer *Normalizer
	Clock      dbtime.Clock
	ErrorLimit int
}

func NewEngine(src source.EventSource, n *Normalizer, clock dbtime.Clock, errorLimit int) *Engine {
	if errorLimit <= 0 {
		errorLimit = DefaultErrorLimit
	}
	return &Engine{Source: src, Normalizer: n, Clock: clock, ErrorLimit: errorLimit}
}

// Run: sumber tidak bisa dibaca → error, tanpa summary.
// Gagal per-event → dicatat di summary.Errors, proses lanjut.
func (e *Engine) Run(ctx context.Context) (*RunSummary, error) {
	start := e.Clock.Now()

	snap, err := e.Source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: read source: %w", err)
	}

	sum := &RunSummary{Errors: []string{}}
	if snap != nil {
		sum.Malformed = snap.Malformed
	}

	if !snap.Empty() {
		for _, te := range snap.Events {
			if err := ctx.Err(); err != nil {
				e.finish(sum, start)
				return sum, fmt.Errorf("reconcile: interrupted: %w", err)
			}
			sum.add(e.Normalizer.Apply(ctx, te.TagUID, te.Date, te.Event), e.ErrorLimit)
		}
	}

	e.finish(sum, start)
	if sum.ErrorCount > 0 {
		log.Printf("[RECONCILE] selesai dengan %d error (created=%d updated=%d skipped=%d)",
			sum.ErrorCount, sum.Created, sum.Updated, sum.Skipped)
	}
	return sum, nil
}

func (e *Engine) finish(sum *RunSummary, start time.Time) {
	end := e.Clock.Now()
	sum.DurationMs = end.Sub(start).Milliseconds()
	sum.Timestamp = end.UTC().Format(time.RFC3339)
}

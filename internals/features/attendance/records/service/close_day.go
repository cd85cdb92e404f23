// file: internals/features/attendance/records/service/close_day.go
package service

import (
	"context"
	"fmt"
	"log"

	"kantorku_backend/internals/helpers/dbtime"
)

// CloseDayService: sesi yang tidak pernah check-out sampai hari berganti → status leave.
// time_out tetap NULL.
type CloseDayService struct {
	Store Store
	Clock dbtime.Clock
}

func NewCloseDayService(store Store, clock dbtime.Clock) *CloseDayService {
	return &CloseDayService{Store: store, Clock: clock}
}

// CloseBefore: tutup semua sesi terbuka dengan tanggal < date.
func (s *CloseDayService) CloseBefore(ctx context.Context, date string) (int64, error) {
	if !dbtime.IsValidDate(date) {
		return 0, fmt.Errorf("close day: invalid date %q", date)
	}
	n, err := s.Store.MarkLeave(ctx, date, s.Clock.Now())
	if err != nil {
		return 0, fmt.Errorf("close day: %w", err)
	}
	if n > 0 {
		log.Printf("[CLOSE-DAY] %d sesi sebelum %s ditandai leave", n, date)
	}
	return n, nil
}

// CloseStale: tutup sesi terbuka dari hari-hari sebelum hari ini.
func (s *CloseDayService) CloseStale(ctx context.Context) (int64, error) {
	return s.CloseBefore(ctx, dbtime.Today(s.Clock))
}

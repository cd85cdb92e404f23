// file: internals/features/attendance/records/service/duration.go
package service

import (
	"log"
	"math"
	"strings"
	"time"

	"kantorku_backend/internals/helpers/dbtime"
)

// DefaultLateCutoff: check-in setelah jam ini dihitung terlambat.
const DefaultLateCutoff = "09:30"

// CalculateDuration: menit antara timeIn dan timeOut.
// Jam polos ("HH:MM[:SS]") dibaca pada tanggal date di zona kantor loc; timestamp
// ber-offset dipakai sebagai instant, jadi offset campuran tetap benar.
// round(detik/60), minimal 0. nil kalau salah satu input kosong / tidak bisa di-parse.
func CalculateDuration(date, timeIn, timeOut string, loc *time.Location) *int {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(timeIn) == "" || strings.TrimSpace(timeOut) == "" {
		return nil
	}
	if !dbtime.IsValidDate(date) {
		return nil
	}
	in, err := dbtime.ParseInstant(date, timeIn, loc)
	if err != nil {
		return nil
	}
	out, err := dbtime.ParseInstant(date, timeOut, loc)
	if err != nil {
		return nil
	}

	minutes := int(math.Round(out.Sub(in).Seconds() / 60))
	if minutes < 0 {
		minutes = 0
	}
	return &minutes
}

// ElapsedMinutes: floor((to - from) / 1 menit), minimal 0. Dipakai live toggle.
func ElapsedMinutes(from, to time.Time) int {
	m := int(to.Sub(from) / time.Minute)
	if m < 0 {
		return 0
	}
	return m
}

// IsLate: jam dinding timeIn di zona kantor lewat dari cutoff (presisi detik).
// 09:30:00 masih tepat waktu, 09:30:01 terlambat. timeIn yang tidak bisa
// di-parse tidak dihitung terlambat.
func IsLate(timeIn string, cutoff dbtime.Tod, loc *time.Location) bool {
	t, err := dbtime.ParseIn(timeIn, loc)
	if err != nil {
		return false
	}
	return t.After(cutoff)
}

// ParseCutoff: "HH:MM[:SS]" → Tod, fallback ke DefaultLateCutoff.
func ParseCutoff(s string) dbtime.Tod {
	if strings.TrimSpace(s) == "" {
		return dbtime.MustParse(DefaultLateCutoff)
	}
	if t, err := dbtime.Parse(s); err == nil {
		return t
	}
	log.Printf("[ATTENDANCE] late cutoff %q tidak valid, fallback ke %s", s, DefaultLateCutoff)
	return dbtime.MustParse(DefaultLateCutoff)
}

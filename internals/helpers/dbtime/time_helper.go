// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"log"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	DefaultTimezone = "Asia/Jakarta"
)

// Clock: sumber "sekarang". Di-inject ke service supaya test bisa pakai waktu tetap.
type Clock interface {
	Now() time.Time
}

// SystemClock = jam dinding asli, dikonversi ke zona kantor.
type SystemClock struct {
	Loc *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Loc == nil {
		return time.Now()
	}
	return time.Now().In(c.Loc)
}

// FixedClock selalu mengembalikan T (atau T yang sudah digeser via Advance).
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// LoadLocation:
// 1) nama zona yang diberikan
// 2) fallback Asia/Jakarta
// 3) fallback terakhir UTC
func LoadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
		log.Printf("[DBTIME] timezone %q tidak valid, fallback ke %s", name, DefaultTimezone)
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// Today: tanggal kalender (YYYY-MM-DD) dari clock.
func Today(c Clock) string {
	return c.Now().Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

func IsValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

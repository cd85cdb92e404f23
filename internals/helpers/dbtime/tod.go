// file: internals/helpers/dbtime/tod.go
package dbtime

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Tod = time of day (HH:mm:ss), tanpa tanggal & zona.
type Tod struct{ time.Time }

// From: bikin Tod dari time.Time (ambil HH:mm:ss, buang tanggal & zona)
func From(t time.Time) Tod {
	return Tod{
		Time: time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC),
	}
}

// Parse: terima "HH:MM", "HH:MM:SS", atau timestamp ISO (RFC3339 / "YYYY-MM-DD HH:MM:SS").
// Untuk timestamp, yang diambil jam dinding sesuai offset yang tertulis;
// pakai ParseIn / ParseInstant kalau zona kantor penting.
func Parse(s string) (Tod, error) {
	var tt Tod
	return tt, tt.parse(s)
}

var (
	offsetLayouts = []string{time.RFC3339Nano, time.RFC3339}
	localLayouts  = []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05"}
)

// ParseInstant: string jam / timestamp → waktu absolut.
//   - "HH:MM[:SS]"           → jam itu pada tanggal date di zona loc
//   - RFC3339 (ada offset)   → instant apa adanya, dinyatakan di loc
//   - "YYYY-MM-DD HH:MM:SS"  → jam dinding di loc (tanpa offset)
func ParseInstant(date, s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if len(s) > 8 {
		for _, layout := range offsetLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.In(loc), nil
			}
		}
		for _, layout := range localLayouts {
			if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("tod: cannot parse %q", s)
	}
	tod, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return tod.On(date, loc)
}

// ParseIn: seperti Parse, tapi timestamp ber-offset dikonversi dulu ke jam dinding loc.
func ParseIn(s string, loc *time.Location) (Tod, error) {
	if len(strings.TrimSpace(s)) <= 8 {
		return Parse(s)
	}
	ts, err := ParseInstant("", s, loc)
	if err != nil {
		return Tod{}, err
	}
	return From(ts), nil
}

func MustParse(s string) Tod {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tod) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("tod: empty value")
	}
	if len(s) > 8 {
		for _, layout := range append(offsetLayouts, localLayouts...) {
			if ts, err := time.Parse(layout, s); err == nil {
				*t = From(ts)
				return nil
			}
		}
		return fmt.Errorf("tod: cannot parse %q", s)
	}
	if len(s) == 5 { // "HH:MM"
		s += ":00"
	}
	tt, err := time.Parse("15:04:05", s)
	if err != nil {
		return err
	}
	t.Time = time.Date(0, 1, 1, tt.Hour(), tt.Minute(), tt.Second(), 0, time.UTC)
	return nil
}

// SecondsOfDay: detik sejak 00:00:00.
func (t Tod) SecondsOfDay() int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

func (t Tod) After(o Tod) bool { return t.SecondsOfDay() > o.SecondsOfDay() }

func (t Tod) String() string { return t.Format("15:04:05") }

// On: gabungkan tanggal (YYYY-MM-DD) + jam ini di zona loc.
func (t Tod) On(date string, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}

// Scan: terima time.Time atau string ("HH:MM[:SS]")
func (t *Tod) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*t = From(x)
		return nil
	case []byte:
		return t.parse(string(x))
	case string:
		return t.parse(x)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("tod: unsupported Scan type %T", v)
	}
}

// Value: kirim "HH:MM:SS" agar Postgres TIME paham
func (t Tod) Value() (driver.Value, error) {
	if t.Time.IsZero() {
		return "00:00:00", nil
	}
	return t.String(), nil
}

func (t Tod) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return t.parse(s)
}

// file: internals/features/attendance/records/source/raw_event.go
package source

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
)

// RawEvent: satu event mentah (per tag, per tanggal) yang sudah lolos validasi bentuk.
type RawEvent struct {
	CheckIn  string
	CheckOut *string
	// seluruh field asli, disimpan ke metadata untuk audit
	Raw map[string]any
}

func (e RawEvent) HasCheckOut() bool {
	return e.CheckOut != nil && *e.CheckOut != ""
}

// TaggedEvent: RawEvent + posisi di tree (tagUid → date).
type TaggedEvent struct {
	TagUID string
	Date   string
	Event  RawEvent
}

// Snapshot: isi tree sumber pada satu kali baca, urut tag lalu tanggal.
type Snapshot struct {
	Events    []TaggedEvent
	Malformed int // entry yang dibuang karena bentuknya tidak valid
}

func (s *Snapshot) Empty() bool { return s == nil || len(s.Events) == 0 }

// EventSource: sumber event real-time eksternal. Satu panggilan = satu snapshot.
type EventSource interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// ParseSnapshot: decode tree `{ tagUid: { date: { check_in, check_out?, ... } } }`.
// Payload kosong / null → snapshot kosong. Root yang bukan object → error.
// Entry yang value-nya bukan object atau tanpa check_in dibuang (dihitung Malformed).
func ParseSnapshot(data []byte) (*Snapshot, error) {
	snap := &Snapshot{}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return snap, nil
	}

	var tree map[string]any
	if err := sonic.Unmarshal([]byte(trimmed), &tree); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	tags := make([]string, 0, len(tree))
	for tag := range tree {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		byDate, ok := tree[tag].(map[string]any)
		if !ok || strings.TrimSpace(tag) == "" {
			snap.Malformed++
			continue
		}
		dates := make([]string, 0, len(byDate))
		for d := range byDate {
			dates = append(dates, d)
		}
		sort.Strings(dates)

		for _, date := range dates {
			ev, ok := toRawEvent(byDate[date])
			if !ok {
				snap.Malformed++
				continue
			}
			snap.Events = append(snap.Events, TaggedEvent{TagUID: tag, Date: date, Event: ev})
		}
	}
	return snap, nil
}

func toRawEvent(v any) (RawEvent, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return RawEvent{}, false
	}
	checkIn, ok := obj["check_in"].(string)
	if !ok || strings.TrimSpace(checkIn) == "" {
		return RawEvent{}, false
	}
	ev := RawEvent{CheckIn: checkIn, Raw: obj}
	if co, ok := obj["check_out"].(string); ok && strings.TrimSpace(co) != "" {
		ev.CheckOut = &co
	}
	return ev, true
}

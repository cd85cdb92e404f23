// file: internals/features/attendance/records/service/normalizer.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"kantorku_backend/internals/features/attendance/records/model"
	"kantorku_backend/internals/features/attendance/records/source"
	tagModel "kantorku_backend/internals/features/employees/tags/model"
	"kantorku_backend/internals/helpers/dbtime"
)

// Normalizer: satu event mentah → maksimal satu mutasi store (insert ATAU update).
type Normalizer struct {
	Store Store
	Tags  TagDirectory
	Clock dbtime.Clock
}

func NewNormalizer(store Store, tags TagDirectory, clock dbtime.Clock) *Normalizer {
	return &Normalizer{Store: store, Tags: tags, Clock: clock}
}

// IdempotencyKey: "{tagUid}_{date}_{check_in}" (tagUid apa adanya dari sumber).
func IdempotencyKey(tagUID, date, checkIn string) string {
	return fmt.Sprintf("%s_%s_%s", tagUID, date, checkIn)
}

func (n *Normalizer) Apply(ctx context.Context, tagUID, date string, ev source.RawEvent) Outcome {
	key := IdempotencyKey(tagUID, date, ev.CheckIn)

	existing, err := n.Store.FindByIdempotencyKey(ctx, key)
	if err != nil {
		return failedStore(key, err)
	}
	if existing != nil {
		return n.applyExisting(ctx, key, date, existing, ev)
	}

	tag, err := n.Tags.Resolve(ctx, tagUID)
	if err != nil {
		return failedStore(key, err)
	}
	if tag == nil {
		return failed(key, fmt.Sprintf("Unknown tag: %s", tagUID))
	}
	if tag.EmployeeTagEmployeeID == nil {
		return failed(key, fmt.Sprintf("Tag %s not assigned", tagUID))
	}
	if tag.EmployeeTagStatus != tagModel.TagStatusActive {
		return failed(key, fmt.Sprintf("Tag %s inactive", tagUID))
	}

	uid := tagUID
	rec := &model.AttendanceRecordModel{
		AttendanceID:             uuid.New(),
		AttendanceEmployeeID:     *tag.EmployeeTagEmployeeID,
		AttendanceDate:           date,
		AttendanceTimeIn:         ev.CheckIn,
		AttendanceStatus:         model.StatusPresent,
		AttendanceCheckInMethod:  model.MethodNFC,
		AttendanceTagUID:         &uid,
		AttendanceIdempotencyKey: key,
		AttendanceMetadata:       rawMetadata(ev),
	}
	if ev.HasCheckOut() {
		co := *ev.CheckOut
		rec.AttendanceTimeOut = &co
		closedAt := n.now()
		rec.AttendanceDuration = CalculateDuration(date, ev.CheckIn, co, closedAt.Location())
		rec.AttendanceClosedAt = &closedAt
	}

	if err := n.Store.Insert(ctx, rec); err != nil {
		// run lain (atau toggle) menang duluan untuk key yang sama → bukan error
		if errors.Is(err, model.ErrDuplicateKey) {
			return skipped(key)
		}
		return failedStore(key, err)
	}
	return created(key)
}

func (n *Normalizer) applyExisting(ctx context.Context, key, date string, rec *model.AttendanceRecordModel, ev source.RawEvent) Outcome {
	if rec.AttendanceTimeOut != nil || !ev.HasCheckOut() {
		return skipped(key)
	}

	co := *ev.CheckOut
	now := n.now()
	err := n.Store.CloseSession(ctx, rec.AttendanceID, model.SessionClose{
		TimeOut:  co,
		Duration: CalculateDuration(date, rec.AttendanceTimeIn, co, now.Location()),
		Metadata: rawMetadata(ev),
		ClosedAt: now,
	})
	if err != nil {
		if errors.Is(err, model.ErrSessionClosed) {
			return skipped(key)
		}
		return failedStore(key, err)
	}
	return updated(key)
}

func (n *Normalizer) now() time.Time {
	if n.Clock == nil {
		return time.Now()
	}
	return n.Clock.Now()
}

func rawMetadata(ev source.RawEvent) datatypes.JSON {
	if ev.Raw == nil {
		return nil
	}
	b, err := sonic.Marshal(ev.Raw)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

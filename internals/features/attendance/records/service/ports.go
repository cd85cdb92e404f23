// file: internals/features/attendance/records/service/ports.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	empModel "kantorku_backend/internals/features/employees/employees/model"
	tagModel "kantorku_backend/internals/features/employees/tags/model"
	"kantorku_backend/internals/features/attendance/records/model"
)

// Store: tabel attendance_records. Integritas (unique key, satu sesi terbuka per
// karyawan per hari) dijaga oleh store sendiri, bukan lock di proses ini.
//
// Find* mengembalikan (nil, nil) kalau data tidak ada.
type Store interface {
	// Insert → model.ErrDuplicateKey / model.ErrOpenSessionExists bila kalah constraint.
	Insert(ctx context.Context, rec *model.AttendanceRecordModel) error
	// CloseSession: compare-and-set, hanya kalau time_out masih NULL → model.ErrSessionClosed.
	CloseSession(ctx context.Context, id uuid.UUID, upd model.SessionClose) error
	FindByIdempotencyKey(ctx context.Context, key string) (*model.AttendanceRecordModel, error)
	FindOpenSession(ctx context.Context, employeeID int64, date string) (*model.AttendanceRecordModel, error)
	ListByDate(ctx context.Context, date string) ([]model.AttendanceRecordModel, error)
	ListByEmployee(ctx context.Context, employeeID int64, limit, offset int) ([]model.AttendanceRecordModel, int64, error)
	// MarkLeave: sesi terbuka dengan tanggal < beforeDate → status leave.
	MarkLeave(ctx context.Context, beforeDate string, closedAt time.Time) (int64, error)
}

// TagDirectory: tag NFC → karyawan. Resolve (nil, nil) = tag tidak dikenal.
type TagDirectory interface {
	Resolve(ctx context.Context, tagUID string) (*tagModel.EmployeeTagModel, error)
	TouchLastUsed(ctx context.Context, tagUID string, at time.Time) error
}

// Roster: daftar karyawan. FindByID (nil, nil) = tidak ada.
type Roster interface {
	ListActive(ctx context.Context) ([]empModel.EmployeeModel, error)
	FindByID(ctx context.Context, id int64) (*empModel.EmployeeModel, error)
}

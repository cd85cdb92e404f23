// file: internals/features/attendance/records/model/attendance_record_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusPresent = "present"
	StatusLeave   = "leave"
)

const (
	MethodNFC         = "nfc"
	MethodManual      = "manual"
	MethodGeolocation = "geolocation"
)

// Nama index dipakai juga untuk mapping error unique violation.
const (
	IdxIdempotencyKey = "uq_attendance_idempotency_key"
	IdxCheckoutKey    = "uq_attendance_checkout_key"
	IdxOpenSession    = "uq_attendance_open_session"
)

// AttendanceRecordModel: satu sesi check-in per karyawan.
// Date, TimeIn, CheckInMethod, IdempotencyKey tidak berubah setelah dibuat.
// TimeOut diisi sekali saat sesi ditutup.
type AttendanceRecordModel struct {
	AttendanceID         uuid.UUID `gorm:"column:attendance_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	AttendanceEmployeeID int64     `gorm:"column:attendance_employee_id;not null;index:idx_attendance_employee_date,priority:1" json:"attendance_employee_id"`
	AttendanceDate       string    `gorm:"column:attendance_date;type:varchar(10);not null;index:idx_attendance_employee_date,priority:2;index:idx_attendance_date" json:"attendance_date"`

	AttendanceTimeIn   string  `gorm:"column:attendance_time_in;type:varchar(40);not null" json:"attendance_time_in"`
	AttendanceTimeOut  *string `gorm:"column:attendance_time_out;type:varchar(40)" json:"attendance_time_out"`
	AttendanceDuration *int    `gorm:"column:attendance_duration_minutes" json:"attendance_duration_minutes"`

	AttendanceStatus        string  `gorm:"column:attendance_status;type:varchar(16);not null;default:'present'" json:"attendance_status"`
	AttendanceCheckInMethod string  `gorm:"column:attendance_check_in_method;type:varchar(16);not null;default:'nfc'" json:"attendance_check_in_method"`
	AttendanceTagUID        *string `gorm:"column:attendance_tag_uid;type:varchar(64)" json:"attendance_tag_uid,omitempty"`

	AttendanceIdempotencyKey string  `gorm:"column:attendance_idempotency_key;type:varchar(200);not null;uniqueIndex:uq_attendance_idempotency_key" json:"attendance_idempotency_key"`
	AttendanceCheckoutKey    *string `gorm:"column:attendance_checkout_key;type:varchar(200);uniqueIndex:uq_attendance_checkout_key" json:"attendance_checkout_key,omitempty"`

	// snapshot mentah event sumber (audit), tidak dibaca balik oleh logika absensi
	AttendanceMetadata datatypes.JSON `gorm:"column:attendance_metadata;type:jsonb" json:"attendance_metadata,omitempty"`

	AttendanceClosedAt  *time.Time `gorm:"column:attendance_closed_at;type:timestamptz" json:"attendance_closed_at,omitempty"`
	AttendanceCreatedAt time.Time  `gorm:"column:attendance_created_at;autoCreateTime" json:"attendance_created_at"`
	AttendanceUpdatedAt time.Time  `gorm:"column:attendance_updated_at;autoUpdateTime" json:"attendance_updated_at"`
}

func (AttendanceRecordModel) TableName() string { return "attendance_records" }

// IsOpen: sesi berjalan (sudah check-in, belum check-out, belum ditutup sebagai leave).
func (m *AttendanceRecordModel) IsOpen() bool {
	return m != nil && m.AttendanceTimeOut == nil && m.AttendanceStatus == StatusPresent
}

// SessionClose: field yang diisi saat sesi ditutup (check-out).
// Metadata / CheckoutKey nil = tidak diubah.
type SessionClose struct {
	TimeOut     string
	Duration    *int
	Metadata    datatypes.JSON
	CheckoutKey *string
	ClosedAt    time.Time
}

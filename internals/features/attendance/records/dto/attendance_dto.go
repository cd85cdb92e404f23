// file: internals/features/attendance/records/dto/attendance_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"kantorku_backend/internals/features/attendance/records/model"
	"kantorku_backend/internals/features/attendance/records/service"
	empModel "kantorku_backend/internals/features/employees/employees/model"
)

/* =========================================================
   TOGGLE (reader / kiosk)
   ========================================================= */

type ToggleRequest struct {
	TagUID         *string `json:"tag_uid"         validate:"omitempty,min=1,max=64"`
	EmployeeID     *int64  `json:"employee_id"     validate:"omitempty,gt=0"`
	ReaderID       string  `json:"reader_id"       validate:"omitempty,max=64"`
	Location       string  `json:"location"        validate:"omitempty,max=200"`
	IdempotencyKey string  `json:"idempotency_key" validate:"omitempty,max=200"`
	Method         string  `json:"method"          validate:"omitempty,oneof=nfc manual geolocation"`
}

func (r *ToggleRequest) Normalize() {
	if r.TagUID != nil {
		v := strings.TrimSpace(*r.TagUID)
		if v == "" {
			r.TagUID = nil
		} else {
			r.TagUID = &v
		}
	}
	r.ReaderID = strings.TrimSpace(r.ReaderID)
	r.Location = strings.TrimSpace(r.Location)
	r.IdempotencyKey = strings.TrimSpace(r.IdempotencyKey)
	r.Method = strings.ToLower(strings.TrimSpace(r.Method))
}

func (r ToggleRequest) ToInput() service.ToggleInput {
	in := service.ToggleInput{
		EmployeeID:     r.EmployeeID,
		ReaderID:       r.ReaderID,
		Location:       r.Location,
		IdempotencyKey: r.IdempotencyKey,
		Method:         r.Method,
	}
	if r.TagUID != nil {
		in.TagUID = *r.TagUID
	}
	return in
}

/* =========================================================
   RESPONSE
   ========================================================= */

type AttendanceRecordResponse struct {
	AttendanceID            uuid.UUID  `json:"attendance_id"`
	AttendanceEmployeeID    int64      `json:"attendance_employee_id"`
	AttendanceDate          string     `json:"attendance_date"`
	AttendanceTimeIn        string     `json:"attendance_time_in"`
	AttendanceTimeOut       *string    `json:"attendance_time_out"`
	AttendanceDuration      *int       `json:"attendance_duration_minutes"`
	AttendanceStatus        string     `json:"attendance_status"`
	AttendanceCheckInMethod string     `json:"attendance_check_in_method"`
	AttendanceTagUID        *string    `json:"attendance_tag_uid,omitempty"`
	AttendanceClosedAt      *time.Time `json:"attendance_closed_at,omitempty"`
	AttendanceCreatedAt     time.Time  `json:"attendance_created_at"`
}

// metadata & idempotency key tidak ikut keluar
func FromModel(m model.AttendanceRecordModel) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		AttendanceID:            m.AttendanceID,
		AttendanceEmployeeID:    m.AttendanceEmployeeID,
		AttendanceDate:          m.AttendanceDate,
		AttendanceTimeIn:        m.AttendanceTimeIn,
		AttendanceTimeOut:       m.AttendanceTimeOut,
		AttendanceDuration:      m.AttendanceDuration,
		AttendanceStatus:        m.AttendanceStatus,
		AttendanceCheckInMethod: m.AttendanceCheckInMethod,
		AttendanceTagUID:        m.AttendanceTagUID,
		AttendanceClosedAt:      m.AttendanceClosedAt,
		AttendanceCreatedAt:     m.AttendanceCreatedAt,
	}
}

func FromModels(rows []model.AttendanceRecordModel) []AttendanceRecordResponse {
	out := make([]AttendanceRecordResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromModel(r))
	}
	return out
}

type EmployeeBrief struct {
	EmployeeID         int64   `json:"employee_id"`
	EmployeeName       string  `json:"employee_name"`
	EmployeeDepartment *string `json:"employee_department,omitempty"`
}

func BriefFromModel(e *empModel.EmployeeModel) *EmployeeBrief {
	if e == nil {
		return nil
	}
	return &EmployeeBrief{
		EmployeeID:         e.EmployeeID,
		EmployeeName:       e.EmployeeName,
		EmployeeDepartment: e.EmployeeDepartment,
	}
}

type ToggleResponse struct {
	Action   string                    `json:"action"`
	Replayed bool                      `json:"replayed"`
	Record   *AttendanceRecordResponse `json:"record"`
	Employee *EmployeeBrief            `json:"employee"`
}

func FromToggleResult(res *service.ToggleResult) ToggleResponse {
	out := ToggleResponse{
		Action:   res.Action,
		Replayed: res.Replayed,
		Employee: BriefFromModel(res.Employee),
	}
	if res.Record != nil {
		r := FromModel(*res.Record)
		out.Record = &r
	}
	return out
}

/* =========================================================
   CLOSE DAY
   ========================================================= */

type CloseDayRequest struct {
	// kosong = hari ini (tutup semua sesi sebelum hari ini)
	Before string `json:"before" validate:"omitempty,datetime=2006-01-02"`
}

type CloseDayResponse struct {
	Before string `json:"before"`
	Closed int64  `json:"closed"`
}

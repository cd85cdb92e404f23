// file: internals/features/attendance/records/service/toggle.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"kantorku_backend/internals/features/attendance/records/model"
	empModel "kantorku_backend/internals/features/employees/employees/model"
	tagModel "kantorku_backend/internals/features/employees/tags/model"
	"kantorku_backend/internals/helpers/dbtime"
)

const (
	ActionCheckIn  = "checkin"
	ActionCheckOut = "checkout"
)

const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeTagNotFound      = "TAG_NOT_FOUND"
	CodeTagInactive      = "TAG_INACTIVE"
	CodeTagNotAssigned   = "TAG_NOT_ASSIGNED"
	CodeEmployeeNotFound = "EMPLOYEE_NOT_FOUND"
	CodeToggleConflict   = "TOGGLE_CONFLICT"
	CodeInternal         = "INTERNAL_ERROR"
)

// ToggleError: penolakan sinkron dengan kode spesifik + status HTTP.
type ToggleError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *ToggleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ToggleError) Unwrap() error { return e.Err }

func rejectf(code, format string, args ...any) *ToggleError {
	return &ToggleError{Status: http.StatusBadRequest, Code: code, Message: fmt.Sprintf(format, args...)}
}

func internal(msg string, err error) *ToggleError {
	return &ToggleError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: msg, Err: err}
}

func conflict(err error) *ToggleError {
	return &ToggleError{
		Status:  http.StatusConflict,
		Code:    CodeToggleConflict,
		Message: "Absensi karyawan ini sedang diproses, silakan tap ulang",
		Err:     err,
	}
}

// ToggleInput: tepat satu dari TagUID / EmployeeID.
type ToggleInput struct {
	TagUID         string
	EmployeeID     *int64
	ReaderID       string
	Location       string
	IdempotencyKey string
	Method         string // hanya untuk EmployeeID: manual (default) / geolocation
}

type ToggleResult struct {
	Action   string                       `json:"action"`
	Record   *model.AttendanceRecordModel `json:"record"`
	Employee *empModel.EmployeeModel      `json:"employee"`
	Replayed bool                         `json:"replayed"`
}

type ToggleService struct {
	Store  Store
	Tags   TagDirectory
	Roster Roster
	Clock  dbtime.Clock
}

func NewToggleService(store Store, tags TagDirectory, roster Roster, clock dbtime.Clock) *ToggleService {
	return &ToggleService{Store: store, Tags: tags, Roster: roster, Clock: clock}
}

func (s *ToggleService) Toggle(ctx context.Context, in ToggleInput) (*ToggleResult, error) {
	in.TagUID = strings.TrimSpace(in.TagUID)
	in.IdempotencyKey = strings.TrimSpace(in.IdempotencyKey)

	if (in.TagUID == "") == (in.EmployeeID == nil) {
		return nil, rejectf(CodeInvalidInput, "Isi tepat satu: tag_uid atau employee_id")
	}

	// tap yang sama dikirim ulang → kembalikan hasil lama, tanpa mutasi
	if in.IdempotencyKey != "" {
		if res, err := s.replay(ctx, in.IdempotencyKey); err != nil || res != nil {
			return res, err
		}
	}

	employeeID, method, err := s.resolveEmployee(ctx, &in)
	if err != nil {
		return nil, err
	}
	emp, err := s.Roster.FindByID(ctx, employeeID)
	if err != nil {
		return nil, internal("Gagal memuat karyawan", err)
	}
	if emp == nil || !emp.EmployeeIsActive {
		return nil, rejectf(CodeEmployeeNotFound, "Karyawan %d tidak ditemukan", employeeID)
	}

	now := s.Clock.Now()
	today := now.Format(dbtime.DateLayout)

	open, err := s.Store.FindOpenSession(ctx, employeeID, today)
	if err != nil {
		return nil, internal("Gagal membaca sesi absensi", err)
	}
	if open == nil {
		return s.checkIn(ctx, in, emp, method, now)
	}
	return s.checkOut(ctx, in, emp, open, now)
}

func (s *ToggleService) resolveEmployee(ctx context.Context, in *ToggleInput) (int64, string, error) {
	if in.EmployeeID != nil {
		method := strings.ToLower(strings.TrimSpace(in.Method))
		switch method {
		case "":
			method = model.MethodManual
		case model.MethodManual, model.MethodGeolocation, model.MethodNFC:
		default:
			return 0, "", rejectf(CodeInvalidInput, "Metode check-in tidak dikenal: %s", in.Method)
		}
		return *in.EmployeeID, method, nil
	}

	tag, err := s.Tags.Resolve(ctx, in.TagUID)
	if err != nil {
		return 0, "", internal("Gagal membaca tag", err)
	}
	if tag == nil {
		return 0, "", rejectf(CodeTagNotFound, "Tag %s tidak terdaftar", in.TagUID)
	}
	if tag.EmployeeTagStatus != tagModel.TagStatusActive {
		return 0, "", rejectf(CodeTagInactive, "Tag %s tidak aktif", in.TagUID)
	}
	if tag.EmployeeTagEmployeeID == nil {
		return 0, "", rejectf(CodeTagNotAssigned, "Tag %s belum dipasangkan ke karyawan", in.TagUID)
	}
	return *tag.EmployeeTagEmployeeID, model.MethodNFC, nil
}

func (s *ToggleService) checkIn(ctx context.Context, in ToggleInput, emp *empModel.EmployeeModel, method string, now time.Time) (*ToggleResult, error) {
	key := in.IdempotencyKey
	if key == "" {
		key = "live_" + uuid.NewString()
	}
	rec := &model.AttendanceRecordModel{
		AttendanceID:             uuid.New(),
		AttendanceEmployeeID:     emp.EmployeeID,
		AttendanceDate:           now.Format(dbtime.DateLayout),
		AttendanceTimeIn:         now.Format("15:04:05"),
		AttendanceStatus:         model.StatusPresent,
		AttendanceCheckInMethod:  method,
		AttendanceIdempotencyKey: key,
		AttendanceMetadata:       liveMetadata(in, ActionCheckIn, now),
	}
	if in.TagUID != "" {
		uid := in.TagUID
		rec.AttendanceTagUID = &uid
	}

	if err := s.Store.Insert(ctx, rec); err != nil {
		switch {
		case errors.Is(err, model.ErrOpenSessionExists):
			return nil, conflict(err)
		case errors.Is(err, model.ErrDuplicateKey):
			// tap yang sama menang duluan di request lain
			if res, rerr := s.replay(ctx, key); rerr != nil || res != nil {
				return res, rerr
			}
			return nil, conflict(err)
		default:
			return nil, internal("Gagal menyimpan check-in", err)
		}
	}
	return &ToggleResult{Action: ActionCheckIn, Record: rec, Employee: emp}, nil
}

func (s *ToggleService) checkOut(ctx context.Context, in ToggleInput, emp *empModel.EmployeeModel, open *model.AttendanceRecordModel, now time.Time) (*ToggleResult, error) {
	timeOut := now.Format("15:04:05")
	var duration *int
	if startedAt, err := dbtime.ParseInstant(open.AttendanceDate, open.AttendanceTimeIn, now.Location()); err == nil {
		d := ElapsedMinutes(startedAt, now)
		duration = &d
	}

	upd := model.SessionClose{TimeOut: timeOut, Duration: duration, ClosedAt: now}
	if in.IdempotencyKey != "" {
		k := in.IdempotencyKey
		upd.CheckoutKey = &k
	}
	if err := s.Store.CloseSession(ctx, open.AttendanceID, upd); err != nil {
		if errors.Is(err, model.ErrSessionClosed) || errors.Is(err, model.ErrDuplicateKey) {
			return nil, conflict(err)
		}
		return nil, internal("Gagal menyimpan check-out", err)
	}

	closedAt := now
	open.AttendanceTimeOut = &timeOut
	open.AttendanceDuration = duration
	open.AttendanceClosedAt = &closedAt
	open.AttendanceCheckoutKey = upd.CheckoutKey

	if in.TagUID != "" {
		if err := s.Tags.TouchLastUsed(ctx, in.TagUID, now); err != nil {
			log.Printf("[TOGGLE] gagal update last_used tag %s: %v", in.TagUID, err)
		}
	}
	return &ToggleResult{Action: ActionCheckOut, Record: open, Employee: emp}, nil
}

// replay: key sudah tercatat (sebagai key check-in atau key check-out) → hasil lama.
func (s *ToggleService) replay(ctx context.Context, key string) (*ToggleResult, error) {
	rec, err := s.Store.FindByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, internal("Gagal membaca absensi", err)
	}
	if rec == nil {
		return nil, nil
	}
	emp, err := s.Roster.FindByID(ctx, rec.AttendanceEmployeeID)
	if err != nil {
		return nil, internal("Gagal memuat karyawan", err)
	}
	action := ActionCheckIn
	if rec.AttendanceIdempotencyKey != key {
		action = ActionCheckOut
	}
	return &ToggleResult{Action: action, Record: rec, Employee: emp, Replayed: true}, nil
}

func liveMetadata(in ToggleInput, action string, at time.Time) datatypes.JSON {
	meta := map[string]any{
		"source": "live",
		"action": action,
		"at":     at.Format(time.RFC3339),
	}
	if in.ReaderID != "" {
		meta["reader_id"] = in.ReaderID
	}
	if in.Location != "" {
		meta["location"] = in.Location
	}
	b, err := sonic.Marshal(meta)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

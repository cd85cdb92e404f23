// file: internals/features/attendance/records/repository/attendance_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kantorku_backend/internals/features/attendance/records/model"
	helper "kantorku_backend/internals/helpers"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

/* ====================== WRITE ====================== */

// Insert: ON CONFLICT (idempotency_key) DO NOTHING → 0 rows = key sudah ada.
// Bentrok di partial index sesi terbuka tetap muncul sebagai error 23505.
func (r *AttendanceRepository) Insert(ctx context.Context, rec *model.AttendanceRecordModel) error {
	if rec.AttendanceID == uuid.Nil {
		rec.AttendanceID = uuid.New()
	}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "attendance_idempotency_key"}},
			DoNothing: true,
		}).
		Create(rec)
	if err := res.Error; err != nil {
		return mapWriteError(err)
	}
	if res.RowsAffected == 0 {
		return model.ErrDuplicateKey
	}
	return nil
}

// CloseSession: UPDATE ... WHERE id = ? AND time_out IS NULL (compare-and-set).
func (r *AttendanceRepository) CloseSession(ctx context.Context, id uuid.UUID, upd model.SessionClose) error {
	updates := map[string]interface{}{
		"attendance_time_out":         upd.TimeOut,
		"attendance_duration_minutes": upd.Duration,
		"attendance_status":           model.StatusPresent,
		"attendance_closed_at":        upd.ClosedAt,
		"attendance_updated_at":       time.Now(),
	}
	if upd.Metadata != nil {
		updates["attendance_metadata"] = upd.Metadata
	}
	if upd.CheckoutKey != nil {
		updates["attendance_checkout_key"] = *upd.CheckoutKey
	}

	res := r.DB.WithContext(ctx).
		Model(&model.AttendanceRecordModel{}).
		Where("attendance_id = ? AND attendance_time_out IS NULL", id).
		Updates(updates)
	if err := res.Error; err != nil {
		return mapWriteError(err)
	}
	if res.RowsAffected == 0 {
		return model.ErrSessionClosed
	}
	return nil
}

func (r *AttendanceRepository) MarkLeave(ctx context.Context, beforeDate string, closedAt time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&model.AttendanceRecordModel{}).
		Where("attendance_date < ? AND attendance_time_out IS NULL AND attendance_status = ?", beforeDate, model.StatusPresent).
		Updates(map[string]interface{}{
			"attendance_status":     model.StatusLeave,
			"attendance_closed_at":  closedAt,
			"attendance_updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

/* ====================== READ ====================== */

func (r *AttendanceRepository) FindByIdempotencyKey(ctx context.Context, key string) (*model.AttendanceRecordModel, error) {
	var m model.AttendanceRecordModel
	err := r.DB.WithContext(ctx).
		Where("attendance_idempotency_key = ? OR attendance_checkout_key = ?", key, key).
		First(&m).Error
	return found(&m, err)
}

func (r *AttendanceRepository) FindOpenSession(ctx context.Context, employeeID int64, date string) (*model.AttendanceRecordModel, error) {
	var m model.AttendanceRecordModel
	err := r.DB.WithContext(ctx).
		Where("attendance_employee_id = ? AND attendance_date = ?", employeeID, date).
		Where("attendance_time_out IS NULL AND attendance_status = ?", model.StatusPresent).
		Order("attendance_created_at DESC").
		First(&m).Error
	return found(&m, err)
}

func (r *AttendanceRepository) ListByDate(ctx context.Context, date string) ([]model.AttendanceRecordModel, error) {
	var rows []model.AttendanceRecordModel
	err := r.DB.WithContext(ctx).
		Where("attendance_date = ?", date).
		Order("attendance_time_in ASC, attendance_created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *AttendanceRepository) ListByEmployee(ctx context.Context, employeeID int64, limit, offset int) ([]model.AttendanceRecordModel, int64, error) {
	q := r.DB.WithContext(ctx).
		Model(&model.AttendanceRecordModel{}).
		Where("attendance_employee_id = ?", employeeID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.AttendanceRecordModel
	err := q.Order("attendance_date DESC, attendance_time_in DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

/* ====================== helpers ====================== */

func found(m *model.AttendanceRecordModel, err error) (*model.AttendanceRecordModel, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func mapWriteError(err error) error {
	switch {
	case helper.IsConstraint(err, model.IdxOpenSession):
		return model.ErrOpenSessionExists
	case helper.IsUniqueViolation(err):
		return model.ErrDuplicateKey
	default:
		return err
	}
}

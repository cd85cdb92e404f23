// file: internals/features/employees/tags/repository/tag_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kantorku_backend/internals/features/employees/tags/model"
	helper "kantorku_backend/internals/helpers"
)

type TagRepository struct {
	DB *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{DB: db}
}

// Resolve: UID → tag (nil, nil kalau tidak terdaftar).
func (r *TagRepository) Resolve(ctx context.Context, tagUID string) (*model.EmployeeTagModel, error) {
	var m model.EmployeeTagModel
	err := r.DB.WithContext(ctx).
		Where("employee_tag_uid = ?", model.NormalizeUID(tagUID)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *TagRepository) TouchLastUsed(ctx context.Context, tagUID string, at time.Time) error {
	return r.DB.WithContext(ctx).
		Model(&model.EmployeeTagModel{}).
		Where("employee_tag_uid = ?", model.NormalizeUID(tagUID)).
		Update("employee_tag_last_used_at", at).Error
}

func (r *TagRepository) List(ctx context.Context, status string, limit, offset int) ([]model.EmployeeTagModel, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.EmployeeTagModel{})
	if status != "" {
		q = q.Where("employee_tag_status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.EmployeeTagModel
	err := q.Order("employee_tag_created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

// Create → model.ErrTagExists kalau UID sudah dipakai.
func (r *TagRepository) Create(ctx context.Context, m *model.EmployeeTagModel) error {
	m.EmployeeTagUID = model.NormalizeUID(m.EmployeeTagUID)
	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return model.ErrTagExists
		}
		return err
	}
	return nil
}

// Patch: (nil, nil) kalau tag tidak ada.
func (r *TagRepository) Patch(ctx context.Context, tagUID string, p model.TagPatch) (*model.EmployeeTagModel, error) {
	var m model.EmployeeTagModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("employee_tag_uid = ?", model.NormalizeUID(tagUID)).
			First(&m).Error; err != nil {
			return err
		}
		if p.Empty() {
			return nil
		}
		updates := map[string]interface{}{"employee_tag_updated_at": time.Now()}
		if p.SetEmployee {
			updates["employee_tag_employee_id"] = p.EmployeeID
		}
		if p.Status != nil {
			updates["employee_tag_status"] = *p.Status
		}
		if p.Label != nil {
			updates["employee_tag_label"] = *p.Label
		}
		if err := tx.Model(&m).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("employee_tag_id = ?", m.EmployeeTagID).First(&m).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// file: internals/features/employees/employees/repository/employee_repository.go
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"kantorku_backend/internals/features/employees/employees/model"
)

type EmployeeRepository struct {
	DB *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{DB: db}
}

func (r *EmployeeRepository) ListActive(ctx context.Context) ([]model.EmployeeModel, error) {
	var rows []model.EmployeeModel
	err := r.DB.WithContext(ctx).
		Where("employee_is_active = ?", true).
		Order("employee_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*model.EmployeeModel, error) {
	var m model.EmployeeModel
	err := r.DB.WithContext(ctx).Where("employee_id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

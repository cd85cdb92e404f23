// file: internals/features/employees/employees/model/employee_model.go
package model

import (
	"time"

	"gorm.io/gorm"
)

// EmployeeModel: roster karyawan. Dikelola modul HR (di luar modul absensi),
// modul absensi hanya membaca.
type EmployeeModel struct {
	EmployeeID         int64   `gorm:"column:employee_id;primaryKey;autoIncrement" json:"employee_id"`
	EmployeeName       string  `gorm:"column:employee_name;type:text;not null" json:"employee_name"`
	EmployeeEmail      *string `gorm:"column:employee_email;type:text" json:"employee_email,omitempty"`
	EmployeeDepartment *string `gorm:"column:employee_department;type:text" json:"employee_department,omitempty"`
	EmployeeIsActive   bool    `gorm:"column:employee_is_active;not null;default:true;index" json:"employee_is_active"`

	EmployeeCreatedAt time.Time      `gorm:"column:employee_created_at;autoCreateTime" json:"employee_created_at"`
	EmployeeUpdatedAt time.Time      `gorm:"column:employee_updated_at;autoUpdateTime" json:"employee_updated_at"`
	EmployeeDeletedAt gorm.DeletedAt `gorm:"column:employee_deleted_at;index" json:"-"`
}

func (EmployeeModel) TableName() string { return "employees" }

package dto

import "kantorku_backend/internals/features/employees/employees/model"

type EmployeeResponse struct {
	EmployeeID         int64   `json:"employee_id"`
	EmployeeName       string  `json:"employee_name"`
	EmployeeEmail      *string `json:"employee_email,omitempty"`
	EmployeeDepartment *string `json:"employee_department,omitempty"`
	EmployeeIsActive   bool    `json:"employee_is_active"`
}

func FromModels(rows []model.EmployeeModel) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(rows))
	for _, e := range rows {
		out = append(out, EmployeeResponse{
			EmployeeID:         e.EmployeeID,
			EmployeeName:       e.EmployeeName,
			EmployeeEmail:      e.EmployeeEmail,
			EmployeeDepartment: e.EmployeeDepartment,
			EmployeeIsActive:   e.EmployeeIsActive,
		})
	}
	return out
}

// file: internals/features/employees/tags/dto/tag_dto.go
package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"kantorku_backend/internals/features/employees/tags/model"
)

/* =========================================================
   PATCH FIELD: tri-state (absent | null | value)
   ========================================================= */

type PatchField[T any] struct {
	Present bool
	Value   *T
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

/* =========================================================
   CREATE
   ========================================================= */

type CreateTagRequest struct {
	UID        string  `json:"employee_tag_uid"         validate:"required,min=1,max=64"`
	EmployeeID *int64  `json:"employee_tag_employee_id" validate:"omitempty,gt=0"`
	Label      *string `json:"employee_tag_label"       validate:"omitempty,max=120"`
	Status     string  `json:"employee_tag_status"      validate:"omitempty,oneof=active inactive"`
}

func (r *CreateTagRequest) Normalize() {
	r.UID = model.NormalizeUID(r.UID)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	if r.Label != nil {
		v := strings.TrimSpace(*r.Label)
		if v == "" {
			r.Label = nil
		} else {
			r.Label = &v
		}
	}
}

func (r CreateTagRequest) ToModel() *model.EmployeeTagModel {
	status := r.Status
	if status == "" {
		status = model.TagStatusActive
	}
	return &model.EmployeeTagModel{
		EmployeeTagUID:        r.UID,
		EmployeeTagEmployeeID: r.EmployeeID,
		EmployeeTagStatus:     status,
		EmployeeTagLabel:      r.Label,
	}
}

/* =========================================================
   PATCH: assign / unassign / (de)activate
   ========================================================= */

type PatchTagRequest struct {
	// null = lepas tag dari karyawan
	EmployeeID PatchField[int64] `json:"employee_tag_employee_id"`
	Status     *string           `json:"employee_tag_status" validate:"omitempty,oneof=active inactive"`
	Label      *string           `json:"employee_tag_label"  validate:"omitempty,max=120"`
}

func (r *PatchTagRequest) Normalize() {
	if r.Status != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Status))
		r.Status = &v
	}
	if r.Label != nil {
		v := strings.TrimSpace(*r.Label)
		r.Label = &v
	}
}

func (r PatchTagRequest) ToPatch() model.TagPatch {
	return model.TagPatch{
		SetEmployee: r.EmployeeID.Present,
		EmployeeID:  r.EmployeeID.Value,
		Status:      r.Status,
		Label:       r.Label,
	}
}

/* =========================================================
   RESPONSE
   ========================================================= */

type TagResponse struct {
	EmployeeTagID         uuid.UUID  `json:"employee_tag_id"`
	EmployeeTagUID        string     `json:"employee_tag_uid"`
	EmployeeTagEmployeeID *int64     `json:"employee_tag_employee_id"`
	EmployeeTagStatus     string     `json:"employee_tag_status"`
	EmployeeTagLabel      *string    `json:"employee_tag_label,omitempty"`
	EmployeeTagLastUsedAt *time.Time `json:"employee_tag_last_used_at,omitempty"`
	EmployeeTagCreatedAt  time.Time  `json:"employee_tag_created_at"`
}

func FromModel(m model.EmployeeTagModel) TagResponse {
	return TagResponse{
		EmployeeTagID:         m.EmployeeTagID,
		EmployeeTagUID:        m.EmployeeTagUID,
		EmployeeTagEmployeeID: m.EmployeeTagEmployeeID,
		EmployeeTagStatus:     m.EmployeeTagStatus,
		EmployeeTagLabel:      m.EmployeeTagLabel,
		EmployeeTagLastUsedAt: m.EmployeeTagLastUsedAt,
		EmployeeTagCreatedAt:  m.EmployeeTagCreatedAt,
	}
}

func FromModels(rows []model.EmployeeTagModel) []TagResponse {
	out := make([]TagResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromModel(r))
	}
	return out
}

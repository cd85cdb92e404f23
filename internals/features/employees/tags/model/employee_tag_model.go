// file: internals/features/employees/tags/model/employee_tag_model.go
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

const (
	TagStatusActive   = "active"
	TagStatusInactive = "inactive"
)

// EmployeeTagModel: kartu/tag NFC fisik, terikat ke maksimal satu karyawan.
type EmployeeTagModel struct {
	EmployeeTagID         uuid.UUID  `gorm:"column:employee_tag_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_tag_id"`
	EmployeeTagUID        string     `gorm:"column:employee_tag_uid;type:varchar(64);not null;uniqueIndex:uq_employee_tags_uid" json:"employee_tag_uid"`
	EmployeeTagEmployeeID *int64     `gorm:"column:employee_tag_employee_id;index" json:"employee_tag_employee_id,omitempty"`
	EmployeeTagStatus     string     `gorm:"column:employee_tag_status;type:varchar(16);not null;default:'active'" json:"employee_tag_status"`
	EmployeeTagLabel      *string    `gorm:"column:employee_tag_label;type:text" json:"employee_tag_label,omitempty"`
	EmployeeTagLastUsedAt *time.Time `gorm:"column:employee_tag_last_used_at;type:timestamptz" json:"employee_tag_last_used_at,omitempty"`

	EmployeeTagCreatedAt time.Time `gorm:"column:employee_tag_created_at;autoCreateTime" json:"employee_tag_created_at"`
	EmployeeTagUpdatedAt time.Time `gorm:"column:employee_tag_updated_at;autoUpdateTime" json:"employee_tag_updated_at"`
}

func (EmployeeTagModel) TableName() string { return "employee_tags" }

func (m *EmployeeTagModel) IsActive() bool {
	return m != nil && m.EmployeeTagStatus == TagStatusActive
}

// NormalizeUID: bentuk kanonik UID tag (NFKC, trim, huruf besar).
// Reader yang berbeda kadang kirim hex lowercase / full-width.
func NormalizeUID(uid string) string {
	return strings.ToUpper(strings.TrimSpace(norm.NFKC.String(uid)))
}

// ErrTagExists: UID sudah terdaftar.
var ErrTagExists = errors.New("tag: uid already registered")

// TagPatch: perubahan parsial. SetEmployee=true + EmployeeID nil = lepas dari karyawan.
type TagPatch struct {
	SetEmployee bool
	EmployeeID  *int64
	Status      *string
	Label       *string
}

func (p TagPatch) Empty() bool {
	return !p.SetEmployee && p.Status == nil && p.Label == nil
}

// file: internals/features/employees/tags/controller/tag_controller.go
package controller

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	empModel "kantorku_backend/internals/features/employees/employees/model"
	"kantorku_backend/internals/features/employees/tags/dto"
	"kantorku_backend/internals/features/employees/tags/model"
	helper "kantorku_backend/internals/helpers"
)

// TagStore: operasi admin tag (GORM repository / memrepo).
type TagStore interface {
	List(ctx context.Context, status string, limit, offset int) ([]model.EmployeeTagModel, int64, error)
	Create(ctx context.Context, m *model.EmployeeTagModel) error
	Patch(ctx context.Context, tagUID string, p model.TagPatch) (*model.EmployeeTagModel, error)
}

type EmployeeFinder interface {
	FindByID(ctx context.Context, id int64) (*empModel.EmployeeModel, error)
}

type TagController struct {
	Tags      TagStore
	Employees EmployeeFinder
	Validate  *validator.Validate
}

func NewTagController(tags TagStore, employees EmployeeFinder) *TagController {
	return &TagController{Tags: tags, Employees: employees, Validate: validator.New()}
}

/* =========================================================
   LIST
   GET /api/a/tags?status=active|inactive&page=&per_page=
   ========================================================= */
func (h *TagController) List(c *fiber.Ctx) error {
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	if status != "" && status != model.TagStatusActive && status != model.TagStatusInactive {
		return helper.JsonError(c, fiber.StatusBadRequest, "status harus active/inactive")
	}
	p := helper.ResolvePaging(c, 50, 200)

	rows, total, err := h.Tags.List(c.UserContext(), status, p.Limit, p.Offset)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data tag")
	}
	pg := helper.BuildPaginationFromPage(total, p.Page, p.PerPage, len(rows))
	return helper.JsonList(c, "ok", dto.FromModels(rows), &pg)
}

/* =========================================================
   CREATE
   POST /api/a/tags
   ========================================================= */
func (h *TagController) Create(c *fiber.Ctx) error {
	var req dto.CreateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.EmployeeID != nil {
		if ok, err := h.ensureEmployee(c, *req.EmployeeID); !ok {
			return err
		}
	}

	m := req.ToModel()
	if err := h.Tags.Create(c.UserContext(), m); err != nil {
		if errors.Is(err, model.ErrTagExists) {
			return helper.JsonError(c, fiber.StatusConflict, "UID tag sudah terdaftar")
		}
		return dbError(c, "create "+req.UID, err)
	}
	return helper.JsonCreated(c, "Tag terdaftar", dto.FromModel(*m))
}

/* =========================================================
   PATCH
   PATCH /api/a/tags/:uid
   body: { employee_tag_employee_id?: int|null, employee_tag_status?, employee_tag_label? }
   ========================================================= */
func (h *TagController) Patch(c *fiber.Ctx) error {
	uid := strings.TrimSpace(c.Params("uid"))
	if uid == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "uid wajib diisi")
	}

	var req dto.PatchTagRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if v := req.EmployeeID.Value; req.EmployeeID.Present && v != nil {
		if *v <= 0 {
			return helper.JsonValidationError(c, map[string][]string{"employee_tag_employee_id": {"gt"}})
		}
		if ok, err := h.ensureEmployee(c, *v); !ok {
			return err
		}
	}

	m, err := h.Tags.Patch(c.UserContext(), uid, req.ToPatch())
	if err != nil {
		return dbError(c, "patch "+uid, err)
	}
	if m == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Tag tidak ditemukan")
	}
	return helper.JsonUpdated(c, "Tag diperbarui", dto.FromModel(*m))
}

// ensureEmployee: false = response error sudah ditulis.
func (h *TagController) ensureEmployee(c *fiber.Ctx, id int64) (bool, error) {
	emp, err := h.Employees.FindByID(c.UserContext(), id)
	if err != nil {
		return false, helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat karyawan")
	}
	if emp == nil || !emp.EmployeeIsActive {
		return false, helper.JsonErrorCode(c, fiber.StatusBadRequest, "EMPLOYEE_NOT_FOUND", "Karyawan tidak ditemukan")
	}
	return true, nil
}

// dbError: constraint Postgres (FK karyawan terhapus, check) → 4xx, sisanya 500.
func dbError(c *fiber.Ctx, op string, err error) error {
	status, msg := helper.MapPGError(err)
	if status >= fiber.StatusInternalServerError {
		log.Printf("[TAG] %s: %v", op, err)
	}
	return helper.JsonError(c, status, msg)
}

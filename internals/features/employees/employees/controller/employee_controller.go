package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"kantorku_backend/internals/features/employees/employees/dto"
	"kantorku_backend/internals/features/employees/employees/model"
	helper "kantorku_backend/internals/helpers"
)

type activeLister interface {
	ListActive(ctx context.Context) ([]model.EmployeeModel, error)
}

type EmployeeController struct {
	Roster activeLister
}

func NewEmployeeController(roster activeLister) *EmployeeController {
	return &EmployeeController{Roster: roster}
}

// GET /api/a/employees : roster aktif (read-only, dikelola modul HR)
func (h *EmployeeController) ListActive(c *fiber.Ctx) error {
	rows, err := h.Roster.ListActive(c.UserContext())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data karyawan")
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), nil)
}

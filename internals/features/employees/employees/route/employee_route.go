package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kantorku_backend/internals/features/employees/employees/controller"
	"kantorku_backend/internals/features/employees/employees/repository"
)

func EmployeeAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewEmployeeController(repository.NewEmployeeRepository(db))
	r.Get("/employees", ctl.ListActive) // GET /api/a/employees
}

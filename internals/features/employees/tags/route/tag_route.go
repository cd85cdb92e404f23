package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	empRepo "kantorku_backend/internals/features/employees/employees/repository"
	"kantorku_backend/internals/features/employees/tags/controller"
	"kantorku_backend/internals/features/employees/tags/repository"
)

func TagAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewTagController(repository.NewTagRepository(db), empRepo.NewEmployeeRepository(db))

	tags := r.Group("/tags")
	tags.Get("/", ctl.List)         // GET   /api/a/tags?status=&page=&per_page=
	tags.Post("/", ctl.Create)      // POST  /api/a/tags
	tags.Patch("/:uid", ctl.Patch)  // PATCH /api/a/tags/:uid (assign / unassign / deactivate)
}

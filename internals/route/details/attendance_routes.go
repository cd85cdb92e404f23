package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kantorku_backend/internals/configs"
	"kantorku_backend/internals/features/attendance"
	attendanceRoute "kantorku_backend/internals/features/attendance/records/route"
	employeeRoute "kantorku_backend/internals/features/employees/employees/route"
	tagRoute "kantorku_backend/internals/features/employees/tags/route"
	mw "kantorku_backend/internals/middlewares"
)

// AttendanceRoutes:
//   /api/a → dashboard HR (API key admin, global limiter)
//   /api/d → reader / kiosk (API key device, limiter per reader)
func AttendanceRoutes(app *fiber.App, db *gorm.DB, mod *attendance.Module) {
	admin := app.Group("/api/a",
		mw.GlobalRateLimiter(),
		mw.APIKeyGuard("admin", configs.GetEnv("ADMIN_API_KEY")),
	)
	attendanceRoute.AttendanceAdminRoutes(admin, mod.Controller)
	tagRoute.TagAdminRoutes(admin, db)
	employeeRoute.EmployeeAdminRoutes(admin, db)

	device := app.Group("/api/d",
		mw.DeviceRateLimiter(configs.GetEnvInt("DEVICE_RATE_LIMIT", 120)),
		mw.APIKeyGuard("device", configs.GetEnv("DEVICE_API_KEY")),
	)
	attendanceRoute.AttendanceDeviceRoutes(device, mod.Controller)
}

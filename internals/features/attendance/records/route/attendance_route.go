// file: internals/features/attendance/records/route/attendance_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"kantorku_backend/internals/features/attendance/records/controller"
)

/*
Admin (dashboard HR). Mount: AttendanceAdminRoutes(app.Group("/api/a"), ctl)
*/
func AttendanceAdminRoutes(r fiber.Router, ctl *controller.AttendanceController) {
	g := r.Group("/attendance")
	g.Get("/", ctl.ListByDate)                           // GET  /api/a/attendance?date=YYYY-MM-DD
	g.Get("/today", ctl.Today)                           // GET  /api/a/attendance/today?date=
	g.Get("/today/export", ctl.ExportToday)              // GET  /api/a/attendance/today/export?date=
	g.Get("/employee/:employee_id", ctl.ListByEmployee)  // GET  /api/a/attendance/employee/7?page=&per_page=
	g.Post("/reconcile", ctl.Reconcile)                  // POST /api/a/attendance/reconcile
	g.Post("/close-day", ctl.CloseDay)                   // POST /api/a/attendance/close-day
}

/*
Device (reader NFC / kiosk). Mount: AttendanceDeviceRoutes(app.Group("/api/d"), ctl)
*/
func AttendanceDeviceRoutes(r fiber.Router, ctl *controller.AttendanceController) {
	g := r.Group("/attendance")
	g.Post("/toggle", ctl.Toggle) // POST /api/d/attendance/toggle
}

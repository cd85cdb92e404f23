// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kantorku_backend/internals/features/attendance"
	routeDetails "kantorku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, mod *attendance.Module) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db, rdb)

	log.Println("[INFO] Setting up AttendanceRoutes (/api/a, /api/d)...")
	routeDetails.AttendanceRoutes(app, db, mod)
}

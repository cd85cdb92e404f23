// file: internals/route/base_routes.go
package routes

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	database "kantorku_backend/internals/databases"
)

type componentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// BaseRoutes: "/" dan "/health". Redis hanya dicek kalau sumber event-nya redis (rdb != nil).
func BaseRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("kantorku attendance service 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		checks := fiber.Map{}
		healthy := true

		if err := database.Ping(db); err != nil {
			checks["database"] = componentStatus{Status: "down", Error: err.Error()}
			healthy = false
		} else {
			checks["database"] = componentStatus{Status: "up"}
		}

		if rdb != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			err := rdb.Ping(ctx).Err()
			cancel()
			if err != nil {
				// redis down = rekonsiliasi tertunda, absensi tap tetap jalan
				checks["redis"] = componentStatus{Status: "degraded", Error: err.Error()}
			} else {
				checks["redis"] = componentStatus{Status: "up"}
			}
		}

		status, code := "OK", fiber.StatusOK
		if !healthy {
			status, code = "DOWN", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":         status,
			"checks":         checks,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		})
	})
}
